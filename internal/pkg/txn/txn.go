// internal/pkg/txn/txn.go
package txn

import "context"

// Transactor runs fn as a single unit of work. Stores that take part in the
// transaction pick it up from the context passed to fn. If fn returns an
// error nothing written inside it is kept.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransactorFunc adapts a plain function to Transactor
type TransactorFunc func(ctx context.Context, fn func(ctx context.Context) error) error

func (f TransactorFunc) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}
