// internal/infrastructure/database/postgres/order_store.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/coffee-backend/internal/domain/order"
	"github.com/your-org/coffee-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// OrderStore persists orders and their line items
type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Insert creates the order and its items in one statement batch
func (s *OrderStore) Insert(ctx context.Context, o *order.Order) error {
	if err := conn(ctx, s.db).Create(o).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (s *OrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	err := conn(ctx, s.db).Preload("Items", orderedItems).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	result := conn(ctx, s.db).Model(&order.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound(apperror.CodeOrderNotFound, "order %q not found", id)
	}
	return nil
}

// ListByCustomer returns orders newest first
func (s *OrderStore) ListByCustomer(ctx context.Context, customerID string) ([]order.Order, error) {
	var orders []order.Order
	err := conn(ctx, s.db).
		Preload("Items", orderedItems).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
