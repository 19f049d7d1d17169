// internal/infrastructure/database/postgres/menu_store.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/coffee-backend/internal/domain/menu"
	"gorm.io/gorm"
)

// MenuStore reads coffees from the coffees table
type MenuStore struct {
	db *gorm.DB
}

func NewMenuStore(db *gorm.DB) *MenuStore {
	return &MenuStore{db: db}
}

func (s *MenuStore) ListCoffees(ctx context.Context) ([]menu.Coffee, error) {
	var coffees []menu.Coffee
	if err := conn(ctx, s.db).Order("sort_order ASC, id ASC").Find(&coffees).Error; err != nil {
		return nil, fmt.Errorf("failed to list coffees: %w", err)
	}
	return coffees, nil
}

func (s *MenuStore) GetCoffee(ctx context.Context, id string) (*menu.Coffee, error) {
	var coffee menu.Coffee
	err := conn(ctx, s.db).Where("id = ?", id).First(&coffee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get coffee: %w", err)
	}
	return &coffee, nil
}
