// internal/domain/order/policy.go
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/coffee-backend/internal/domain/cart"
	"github.com/your-org/coffee-backend/internal/domain/loyalty"
	"github.com/your-org/coffee-backend/internal/domain/pricing"
	"github.com/your-org/coffee-backend/internal/domain/reward"
	"github.com/your-org/coffee-backend/internal/pkg/apperror"
)

const (
	DefaultPointValue   pricing.Money = 100
	DefaultVoucherValue pricing.Money = 10000
)

// Policy holds the conversion rates used at checkout
type Policy struct {
	PointValue   pricing.Money // currency per point
	VoucherValue pricing.Money // currency per voucher
}

// DefaultPolicy returns the standard rates
func DefaultPolicy() Policy {
	return Policy{PointValue: DefaultPointValue, VoucherValue: DefaultVoucherValue}
}

// PlaceRequest represents order placement data
type PlaceRequest struct {
	Address     string `json:"address"` // Empty uses the member's default address
	UsePoints   bool   `json:"use_points"`
	PointsToUse int64  `json:"points_to_use"`
	UseVouchers int    `json:"use_vouchers"`
}

// Plan is everything placing an order changes, computed without side effects
type Plan struct {
	Order          *Order
	Member         *loyalty.Member
	History        []reward.HistoryEntry
	PointsEarned   int64
	PointsUsed     int64
	VouchersUsed   int
	DiscountAmount pricing.Money
}

// Plan validates req against the cart and member and works out the order,
// the member's new account and the ledger entries. c and m are not modified.
func (p Policy) Plan(c cart.Cart, m loyalty.Member, req PlaceRequest, now time.Time) (*Plan, error) {
	if p.PointValue <= 0 {
		p.PointValue = DefaultPointValue
	}
	if p.VoucherValue <= 0 {
		p.VoucherValue = DefaultVoucherValue
	}

	if c.IsEmpty() {
		return nil, apperror.Validation(apperror.CodeEmptyCart, "cannot place an order from an empty cart")
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		address = strings.TrimSpace(m.Address)
	}
	if address == "" {
		return nil, apperror.Validation(apperror.CodeInvalidAddress, "delivery address is required")
	}

	account := m.Account
	total := c.Total()
	remaining := total

	var voucherDiscount pricing.Money
	vouchersUsed := 0
	if req.UseVouchers < 0 {
		return nil, apperror.Validation(apperror.CodeInvalidQuantity, "voucher count must not be negative, got %d", req.UseVouchers)
	}
	if req.UseVouchers > 0 {
		if req.UseVouchers > account.Vouchers {
			return nil, apperror.Validation(apperror.CodeInsufficientVouchers,
				"insufficient vouchers: have %d, need %d", account.Vouchers, req.UseVouchers)
		}
		voucherDiscount = pricing.Min(p.VoucherValue.Times(req.UseVouchers), remaining)
		vouchersUsed = int((voucherDiscount + p.VoucherValue - 1) / p.VoucherValue)
		remaining -= voucherDiscount
	}

	var pointsDiscount pricing.Money
	var pointsUsed int64
	if req.UsePoints && req.PointsToUse != 0 {
		if req.PointsToUse < 0 {
			return nil, apperror.Validation(apperror.CodeInvalidQuantity, "points amount must not be negative, got %d", req.PointsToUse)
		}
		if req.PointsToUse > account.Points {
			return nil, apperror.Validation(apperror.CodeInsufficientPoints,
				"insufficient points: have %d, need %d", account.Points, req.PointsToUse)
		}
		pointsDiscount = pricing.Min(pricing.Money(req.PointsToUse)*p.PointValue, remaining)
		pointsUsed = int64(pointsDiscount / p.PointValue)
	}

	discount := voucherDiscount + pointsDiscount
	orderID := uuid.NewString()
	now = now.UTC()

	order := &Order{
		ID:             orderID,
		CustomerID:     m.ID,
		Status:         StatusOngoing,
		Subtotal:       c.Subtotal(),
		DeliveryFee:    c.DeliveryFee,
		Total:          total,
		DiscountAmount: discount,
		AmountDue:      total - discount,
		PointsUsed:     pointsUsed,
		VouchersUsed:   vouchersUsed,
		Address:        address,
		CreatedAt:      now,
		UpdatedAt:      now,
		Items:          make([]LineItem, 0, len(c.Items)),
	}
	for i, item := range c.Items {
		order.Items = append(order.Items, LineItem{
			OrderID:    orderID,
			Position:   i,
			CoffeeID:   item.CoffeeID,
			CoffeeName: item.CoffeeName,
			Options:    item.Options,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice(),
		})
	}

	// Spending happens before earning, so the tier for this order reflects
	// the balance after the discount.
	if err := account.UseVouchers(vouchersUsed); err != nil {
		return nil, err
	}
	if pointsUsed > 0 {
		if err := account.UseRewardPoints(pointsUsed); err != nil {
			return nil, err
		}
	}

	cups := c.ItemCount()
	earned := account.EarnPoints(cups)
	account.AddStamps(cups)
	order.PointsEarned = earned

	member := m
	member.Account = account
	member.UpdatedAt = now

	var history []reward.HistoryEntry
	if pointsUsed > 0 {
		history = append(history, reward.HistoryEntry{
			ID:         uuid.NewString(),
			CustomerID: m.ID,
			Delta:      -pointsUsed,
			Label:      fmt.Sprintf("Points discount on order %s", shortID(orderID)),
			Kind:       reward.HistoryRedeemed,
			OrderID:    &orderID,
			CreatedAt:  now,
		})
	}
	if earned > 0 {
		history = append(history, reward.HistoryEntry{
			ID:         uuid.NewString(),
			CustomerID: m.ID,
			Delta:      earned,
			Label:      fmt.Sprintf("Earned on order %s", shortID(orderID)),
			Kind:       reward.HistoryEarned,
			OrderID:    &orderID,
			CreatedAt:  now,
		})
	}

	return &Plan{
		Order:          order,
		Member:         &member,
		History:        history,
		PointsEarned:   earned,
		PointsUsed:     pointsUsed,
		VouchersUsed:   vouchersUsed,
		DiscountAmount: discount,
	}, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
