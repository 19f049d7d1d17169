// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/coffee-backend/internal/domain/menu"
	"github.com/your-org/coffee-backend/internal/domain/pricing"
	"github.com/your-org/coffee-backend/internal/pkg/apperror"
)

// MaxItemQuantity is the largest quantity a single cart line may hold
const MaxItemQuantity = 999

// Item is one cart line: a coffee, its options and a quantity
type Item struct {
	ID         string          `json:"id"`
	CoffeeID   string          `json:"coffee_id"`
	CoffeeName string          `json:"coffee_name"`
	BasePrice  decimal.Decimal `json:"base_price"`
	Options    pricing.Options `json:"options"`
	UnitPrice  pricing.Money   `json:"unit_price"` // round(base) + extra(options)
	Quantity   int             `json:"quantity"`
	AddedAt    time.Time       `json:"added_at"`
}

// TotalPrice is UnitPrice × Quantity
func (i Item) TotalPrice() pricing.Money {
	return i.UnitPrice.Times(i.Quantity)
}

// Cart is the mutable shopping cart of one customer
type Cart struct {
	CustomerID  string        `json:"customer_id"`
	Items       []Item        `json:"items"`
	DeliveryFee pricing.Money `json:"delivery_fee"`
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount     int           `json:"item_count"`     // Number of lines
	TotalQuantity int           `json:"total_quantity"` // Sum of all quantities
	SubTotal      pricing.Money `json:"sub_total"`
	DeliveryFee   pricing.Money `json:"delivery_fee"`
	TotalAmount   pricing.Money `json:"total_amount"`
}

// New creates a cart holding items
func New(customerID string, items []Item, deliveryFee pricing.Money) *Cart {
	return &Cart{
		CustomerID:  customerID,
		Items:       append([]Item(nil), items...),
		DeliveryFee: deliveryFee,
	}
}

// Add puts qty of coffee with opts into the cart. A line with the same coffee
// and equal options absorbs the quantity instead of a new line being created.
func (c *Cart) Add(coffee menu.Coffee, opts pricing.Options, qty int, now time.Time) (*Item, error) {
	if err := checkQuantity(qty); err != nil {
		return nil, err
	}

	opts = opts.Normalize()
	unitPrice := pricing.UnitPrice(coffee.BasePrice, opts)

	if i := c.indexOfLine(coffee.ID, opts); i >= 0 {
		line := &c.Items[i]
		if line.Quantity > MaxItemQuantity-qty {
			return nil, apperror.Validation(apperror.CodeInvalidQuantity,
				"quantity for one line cannot exceed %d, have %d, adding %d", MaxItemQuantity, line.Quantity, qty)
		}
		line.Quantity += qty
		line.CoffeeName = coffee.Name
		line.BasePrice = coffee.BasePrice
		line.UnitPrice = unitPrice // Update price in case it changed
		updated := *line
		return &updated, nil
	}

	item := Item{
		ID:         uuid.NewString(),
		CoffeeID:   coffee.ID,
		CoffeeName: coffee.Name,
		BasePrice:  coffee.BasePrice,
		Options:    opts,
		UnitPrice:  unitPrice,
		Quantity:   qty,
		AddedAt:    now.UTC(),
	}
	c.Items = append(c.Items, item)
	return &item, nil
}

// UpdateQuantity sets the quantity of a line; qty <= 0 removes it
func (c *Cart) UpdateQuantity(itemID string, qty int) error {
	i := c.indexOf(itemID)
	if i < 0 {
		return apperror.NotFound(apperror.CodeCartItemNotFound, "item %q not found in cart", itemID)
	}
	if qty <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return nil
	}
	if qty > MaxItemQuantity {
		return apperror.Validation(apperror.CodeInvalidQuantity, "quantity for one line cannot exceed %d, got %d", MaxItemQuantity, qty)
	}
	c.Items[i].Quantity = qty
	return nil
}

// Remove deletes a line
func (c *Cart) Remove(itemID string) error {
	return c.UpdateQuantity(itemID, 0)
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = nil
}

// Snapshot returns a deep copy that later mutations cannot reach
func (c *Cart) Snapshot() Cart {
	return Cart{
		CustomerID:  c.CustomerID,
		Items:       append([]Item(nil), c.Items...),
		DeliveryFee: c.DeliveryFee,
	}
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount is the sum of quantities
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Subtotal sums line totals in integer arithmetic
func (c *Cart) Subtotal() pricing.Money {
	var subtotal pricing.Money
	for _, item := range c.Items {
		subtotal += item.TotalPrice()
	}
	return subtotal
}

// Total is Subtotal plus the delivery fee; an empty cart costs nothing
func (c *Cart) Total() pricing.Money {
	if c.IsEmpty() {
		return 0
	}
	return c.Subtotal() + c.DeliveryFee
}

// Totals returns the summary shown at checkout
func (c *Cart) Totals() Totals {
	fee := c.DeliveryFee
	if c.IsEmpty() {
		fee = 0
	}
	return Totals{
		ItemCount:     len(c.Items),
		TotalQuantity: c.ItemCount(),
		SubTotal:      c.Subtotal(),
		DeliveryFee:   fee,
		TotalAmount:   c.Total(),
	}
}

func checkQuantity(qty int) error {
	if qty <= 0 {
		return apperror.Validation(apperror.CodeInvalidQuantity, "quantity must be positive, got %d", qty)
	}
	if qty > MaxItemQuantity {
		return apperror.Validation(apperror.CodeInvalidQuantity, "quantity for one line cannot exceed %d, got %d", MaxItemQuantity, qty)
	}
	return nil
}

func (c *Cart) indexOf(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) indexOfLine(coffeeID string, opts pricing.Options) int {
	for i := range c.Items {
		if c.Items[i].CoffeeID == coffeeID && c.Items[i].Options == opts {
			return i
		}
	}
	return -1
}
