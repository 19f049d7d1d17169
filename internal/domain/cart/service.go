// internal/domain/cart/service.go
package cart

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/coffee-backend/internal/domain/menu"
	"github.com/your-org/coffee-backend/internal/domain/pricing"
	"github.com/your-org/coffee-backend/internal/pkg/apperror"
	"github.com/your-org/coffee-backend/internal/pkg/broadcast"
	"github.com/your-org/coffee-backend/internal/pkg/keylock"
)

// Store persists cart lines per customer. Load returns an empty slice for a
// customer without a cart.
type Store interface {
	Load(ctx context.Context, customerID string) ([]Item, error)
	Save(ctx context.Context, customerID string, items []Item) error
	Clear(ctx context.Context, customerID string) error
}

// Service handles cart business logic
type Service struct {
	store       Store
	menu        *menu.Service
	locks       *keylock.Locker
	hub         *broadcast.Hub[Cart]
	deliveryFee pricing.Money
	log         logrus.FieldLogger
	now         func() time.Time
}

// NewService creates a new cart service
func NewService(store Store, menuService *menu.Service, locks *keylock.Locker, deliveryFee pricing.Money, log logrus.FieldLogger) *Service {
	return &Service{
		store:       store,
		menu:        menuService,
		locks:       locks,
		hub:         broadcast.NewHub[Cart](),
		deliveryFee: deliveryFee,
		log:         log,
		now:         time.Now,
	}
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	CoffeeID string          `json:"coffee_id" binding:"required"`
	Options  pricing.Options `json:"options"`
	Quantity int             `json:"quantity"`
}

// UpdateItemRequest represents update cart item request
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart retrieves the cart of a customer
func (s *Service) GetCart(ctx context.Context, customerID string) (*Cart, error) {
	items, err := s.store.Load(ctx, customerID)
	if err != nil {
		return nil, apperror.Store("failed to retrieve cart", err)
	}
	return New(customerID, items, s.deliveryFee), nil
}

// AddItem adds an item to the cart
func (s *Service) AddItem(ctx context.Context, customerID string, req *AddItemRequest) (*Cart, error) {
	if err := checkQuantity(req.Quantity); err != nil {
		return nil, err
	}

	coffee, err := s.menu.GetCoffee(ctx, req.CoffeeID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, customerID, func(c *Cart) error {
		item, err := c.Add(*coffee, req.Options, req.Quantity, s.now())
		if err != nil {
			return err
		}
		s.log.WithFields(logrus.Fields{
			"customer_id": customerID,
			"item_id":     item.ID,
			"coffee_id":   item.CoffeeID,
			"options":     item.Options.String(),
			"quantity":    item.Quantity,
		}).Debug("cart line updated")
		return nil
	})
}

// UpdateQuantity changes the quantity of a cart line. Zero or less removes it.
func (s *Service) UpdateQuantity(ctx context.Context, customerID, itemID string, quantity int) (*Cart, error) {
	return s.mutate(ctx, customerID, func(c *Cart) error {
		return c.UpdateQuantity(itemID, quantity)
	})
}

// RemoveItem removes a line from the cart
func (s *Service) RemoveItem(ctx context.Context, customerID, itemID string) (*Cart, error) {
	return s.mutate(ctx, customerID, func(c *Cart) error {
		return c.Remove(itemID)
	})
}

// Clear removes all items from the cart
func (s *Service) Clear(ctx context.Context, customerID string) error {
	unlock := s.locks.Lock(customerID)
	defer unlock()
	return s.Discard(ctx, customerID)
}

// Discard clears the cart without taking the customer lock. The caller must
// already hold it.
func (s *Service) Discard(ctx context.Context, customerID string) error {
	if err := s.store.Clear(ctx, customerID); err != nil {
		return apperror.Store("failed to clear cart", err)
	}
	s.hub.Publish(customerID, *New(customerID, nil, s.deliveryFee))
	return nil
}

// Subscribe streams cart snapshots of a customer after every change
func (s *Service) Subscribe(customerID string) (<-chan Cart, func()) {
	return s.hub.Subscribe(customerID)
}

func (s *Service) mutate(ctx context.Context, customerID string, apply func(*Cart) error) (*Cart, error) {
	unlock := s.locks.Lock(customerID)
	defer unlock()

	c, err := s.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := apply(c); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, customerID, c.Items); err != nil {
		return nil, apperror.Store("failed to save cart", err)
	}

	s.hub.Publish(customerID, c.Snapshot())
	return c, nil
}
