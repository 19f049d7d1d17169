// internal/domain/menu/entity.go
package menu

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coffee is a drink on the menu
type Coffee struct {
	ID          string          `gorm:"primaryKey;size:64" json:"id"`
	Name        string          `gorm:"not null;size:255" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	BasePrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"base_price"`
	IsAvailable bool            `gorm:"not null;default:true" json:"is_available"`
	SortOrder   int             `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName overrides the table name
func (Coffee) TableName() string {
	return "coffees"
}

// DefaultMenu is the menu seeded into a fresh database
func DefaultMenu() []Coffee {
	return []Coffee{
		{ID: "espresso", Name: "Espresso", Description: "A short, strong shot", BasePrice: decimal.NewFromInt(25000), IsAvailable: true, SortOrder: 1},
		{ID: "americano", Name: "Americano", Description: "Espresso topped with hot water", BasePrice: decimal.NewFromInt(30000), IsAvailable: true, SortOrder: 2},
		{ID: "latte", Name: "Caffe Latte", Description: "Espresso with steamed milk", BasePrice: decimal.NewFromInt(35000), IsAvailable: true, SortOrder: 3},
		{ID: "cappuccino", Name: "Cappuccino", Description: "Espresso with milk foam", BasePrice: decimal.NewFromInt(35000), IsAvailable: true, SortOrder: 4},
		{ID: "caramel-macchiato", Name: "Caramel Macchiato", Description: "Vanilla, milk, espresso and caramel", BasePrice: decimal.RequireFromString("42500.50"), IsAvailable: true, SortOrder: 5},
		{ID: "mocha", Name: "Caffe Mocha", Description: "Espresso, chocolate and milk", BasePrice: decimal.NewFromInt(40000), IsAvailable: true, SortOrder: 6},
	}
}
