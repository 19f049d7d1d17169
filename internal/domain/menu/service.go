// internal/domain/menu/service.go
package menu

import (
	"context"

	"github.com/your-org/coffee-backend/internal/pkg/apperror"
)

// Store reads the coffee catalogue. GetCoffee returns nil, nil when the id is unknown.
type Store interface {
	ListCoffees(ctx context.Context) ([]Coffee, error)
	GetCoffee(ctx context.Context, id string) (*Coffee, error)
}

// Service exposes the menu to the rest of the domain
type Service struct {
	store Store
}

// NewService creates a new menu service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ListCoffees returns every available coffee
func (s *Service) ListCoffees(ctx context.Context) ([]Coffee, error) {
	coffees, err := s.store.ListCoffees(ctx)
	if err != nil {
		return nil, apperror.Store("failed to list coffees", err)
	}

	available := make([]Coffee, 0, len(coffees))
	for _, c := range coffees {
		if c.IsAvailable {
			available = append(available, c)
		}
	}
	return available, nil
}

// GetCoffee returns the coffee with id or CoffeeNotFound
func (s *Service) GetCoffee(ctx context.Context, id string) (*Coffee, error) {
	coffee, err := s.store.GetCoffee(ctx, id)
	if err != nil {
		return nil, apperror.Store("failed to load coffee", err)
	}
	if coffee == nil || !coffee.IsAvailable {
		return nil, apperror.NotFound(apperror.CodeCoffeeNotFound, "coffee %q not found", id)
	}
	return coffee, nil
}
