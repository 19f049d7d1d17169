// internal/infrastructure/database/redis/cart_store.go
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/your-org/coffee-backend/internal/domain/cart"
)

// CartStore keeps each customer's cart as one JSON document with a sliding TTL
type CartStore struct {
	client *Client
	ttl    time.Duration
}

// NewCartStore creates a cart store; ttl <= 0 keeps carts forever
func NewCartStore(client *Client, ttl time.Duration) *CartStore {
	return &CartStore{client: client, ttl: ttl}
}

type cartDocument struct {
	Items     []cart.Item `json:"items"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func cartKey(customerID string) string {
	return fmt.Sprintf("cart:customer:%s", customerID)
}

func (s *CartStore) Load(ctx context.Context, customerID string) ([]cart.Item, error) {
	var doc cartDocument
	found, err := s.client.GetJSON(ctx, cartKey(customerID), &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if !found {
		return []cart.Item{}, nil
	}
	return doc.Items, nil
}

func (s *CartStore) Save(ctx context.Context, customerID string, items []cart.Item) error {
	if len(items) == 0 {
		return s.Clear(ctx, customerID)
	}

	doc := cartDocument{Items: items, UpdatedAt: time.Now().UTC()}
	if err := s.client.SetJSON(ctx, cartKey(customerID), doc, s.ttl); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *CartStore) Clear(ctx context.Context, customerID string) error {
	if err := s.client.Del(ctx, cartKey(customerID)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
