// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/your-org/coffee-backend/internal/domain/pricing"
)

// Status represents the order status
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsActive reports whether the order can still change status
func (s Status) IsActive() bool {
	return s == StatusPlaced || s == StatusOngoing
}

// CanTransitionTo checks the status machine:
// placed -> ongoing -> {completed | cancelled}, and placed may finish directly.
func (s Status) CanTransitionTo(next Status) bool {
	switch next {
	case StatusOngoing:
		return s == StatusPlaced
	case StatusCompleted, StatusCancelled:
		return s.IsActive()
	default:
		return false
	}
}

// Order is the snapshot taken from a cart at placement. Monetary fields are
// written once; only Status and UpdatedAt change afterwards.
type Order struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	CustomerID string `gorm:"not null;index;size:64" json:"customer_id"`
	Status     Status `gorm:"not null;size:20;default:'ongoing';index" json:"status"`

	// Financial Information
	Subtotal       pricing.Money `gorm:"not null" json:"subtotal"`
	DeliveryFee    pricing.Money `gorm:"not null;default:0" json:"delivery_fee"`
	Total          pricing.Money `gorm:"not null" json:"total"` // Cart total at placement
	DiscountAmount pricing.Money `gorm:"not null;default:0" json:"discount_amount"`
	AmountDue      pricing.Money `gorm:"not null" json:"amount_due"` // Total - DiscountAmount

	// Loyalty
	PointsUsed   int64 `gorm:"not null;default:0" json:"points_used"`
	VouchersUsed int   `gorm:"not null;default:0" json:"vouchers_used"`
	PointsEarned int64 `gorm:"not null;default:0" json:"points_earned"`

	Address string `gorm:"type:text;not null" json:"address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []LineItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// LineItem is a copy of a cart line
type LineItem struct {
	ID         uint            `gorm:"primaryKey" json:"-"`
	OrderID    string          `gorm:"not null;index;size:36" json:"-"`
	Position   int             `gorm:"not null" json:"-"`
	CoffeeID   string          `gorm:"not null;size:64" json:"coffee_id"`
	CoffeeName string          `gorm:"not null;size:255" json:"coffee_name"`
	Options    pricing.Options `gorm:"embedded" json:"options"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  pricing.Money   `gorm:"not null" json:"unit_price"`
	TotalPrice pricing.Money   `gorm:"not null" json:"total_price"` // Quantity * UnitPrice
}

// TableName overrides
func (Order) TableName() string    { return "orders" }
func (LineItem) TableName() string { return "order_items" }

// ItemCount is the number of cups ordered
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// Clone returns a copy whose Items slice is not shared
func (o *Order) Clone() *Order {
	c := *o
	c.Items = append([]LineItem(nil), o.Items...)
	return &c
}
