// internal/infrastructure/database/postgres/tx.go
package postgres

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// Transactor runs units of work in a database transaction. The *gorm.DB of
// the transaction travels in the context; every store here picks it up.
type Transactor struct {
	db *gorm.DB
}

// NewTransactor creates a transactor on db
func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTransaction commits if fn returns nil and rolls back otherwise. A
// nested call joins the outer transaction.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction in ctx, or db bound to ctx
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
