// internal/pkg/apperror/errors.go
package apperror

import (
	"errors"
	"fmt"
)

// Kind groups error codes by how a caller should react to them
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindState      Kind = "state"
	KindStore      Kind = "store"
)

// Code identifies a specific failure
type Code string

const (
	CodeEmptyCart            Code = "empty_cart"
	CodeInvalidAddress       Code = "invalid_address"
	CodeInvalidQuantity      Code = "invalid_quantity"
	CodeInsufficientPoints   Code = "insufficient_points"
	CodeInsufficientStamps   Code = "insufficient_stamps"
	CodeInsufficientVouchers Code = "insufficient_vouchers"

	CodeCoffeeNotFound   Code = "coffee_not_found"
	CodeOrderNotFound    Code = "order_not_found"
	CodeRewardNotFound   Code = "reward_not_found"
	CodeCartItemNotFound Code = "cart_item_not_found"

	CodeInvalidTransition Code = "invalid_transition"
	CodeAlreadyRedeemed   Code = "already_redeemed"

	CodeStoreFailure Code = "store_failure"
)

// Sentinels for errors.Is. Matching is done on Code, so a detailed error
// built with one of the constructors below still matches its sentinel.
var (
	ErrEmptyCart            = &Error{Kind: KindValidation, Code: CodeEmptyCart, Message: "cart is empty"}
	ErrInvalidAddress       = &Error{Kind: KindValidation, Code: CodeInvalidAddress, Message: "delivery address is required"}
	ErrInvalidQuantity      = &Error{Kind: KindValidation, Code: CodeInvalidQuantity, Message: "quantity must be positive"}
	ErrInsufficientPoints   = &Error{Kind: KindValidation, Code: CodeInsufficientPoints, Message: "insufficient points"}
	ErrInsufficientStamps   = &Error{Kind: KindValidation, Code: CodeInsufficientStamps, Message: "insufficient stamps"}
	ErrInsufficientVouchers = &Error{Kind: KindValidation, Code: CodeInsufficientVouchers, Message: "insufficient vouchers"}

	ErrCoffeeNotFound   = &Error{Kind: KindNotFound, Code: CodeCoffeeNotFound, Message: "coffee not found"}
	ErrOrderNotFound    = &Error{Kind: KindNotFound, Code: CodeOrderNotFound, Message: "order not found"}
	ErrRewardNotFound   = &Error{Kind: KindNotFound, Code: CodeRewardNotFound, Message: "reward not found"}
	ErrCartItemNotFound = &Error{Kind: KindNotFound, Code: CodeCartItemNotFound, Message: "item not found in cart"}

	ErrInvalidTransition = &Error{Kind: KindState, Code: CodeInvalidTransition, Message: "invalid status transition"}
	ErrAlreadyRedeemed   = &Error{Kind: KindState, Code: CodeAlreadyRedeemed, Message: "reward already redeemed"}

	ErrStoreFailure = &Error{Kind: KindStore, Code: CodeStoreFailure, Message: "store failure"}
)

// Error is the typed error returned across domain boundaries
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Validation builds a validation error with a custom message
func Validation(code Code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a not-found error with a custom message
func NotFound(code Code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

// State builds a state error with a custom message
func State(code Code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindState, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Store wraps a collaborator failure. Errors that are already typed pass
// through untouched so a store can still report e.g. AlreadyRedeemed.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	return &Error{Kind: KindStore, Code: CodeStoreFailure, Message: op, Err: err}
}

// KindOf returns the kind of err, or KindStore for untyped errors
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindStore
}

// CodeOf returns the code of err, or CodeStoreFailure for untyped errors
func CodeOf(err error) Code {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Code
	}
	return CodeStoreFailure
}
