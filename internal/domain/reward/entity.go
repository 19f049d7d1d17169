// internal/domain/reward/entity.go
package reward

import "time"

// Reward is a catalogue entry bought with points. Redeemed is filled in per
// customer when the catalogue is listed.
type Reward struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Label     string    `gorm:"not null;size:255" json:"label"`
	Cost      int64     `gorm:"not null" json:"cost"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	Redeemed  bool      `gorm:"-" json:"redeemed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Redemption records that a customer has used a reward
type Redemption struct {
	CustomerID string    `gorm:"primaryKey;size:64" json:"customer_id"`
	RewardID   string    `gorm:"primaryKey;size:64" json:"reward_id"`
	RedeemedAt time.Time `gorm:"not null" json:"redeemed_at"`
}

// HistoryKind tells earned points from spent ones
type HistoryKind string

const (
	HistoryEarned   HistoryKind = "earned"
	HistoryRedeemed HistoryKind = "redeemed"
)

// HistoryEntry is one line of the append-only points ledger
type HistoryEntry struct {
	ID         string      `gorm:"primaryKey;size:36" json:"id"`
	CustomerID string      `gorm:"not null;index;size:64" json:"customer_id"`
	Delta      int64       `gorm:"not null" json:"delta"` // Signed point change
	Label      string      `gorm:"not null;size:255" json:"label"`
	Kind       HistoryKind `gorm:"not null;size:16" json:"kind"`
	OrderID    *string     `gorm:"size:36;index" json:"order_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TableName overrides
func (Reward) TableName() string       { return "rewards" }
func (Redemption) TableName() string   { return "reward_redemptions" }
func (HistoryEntry) TableName() string { return "reward_history" }

// DefaultCatalog is seeded into a fresh database
func DefaultCatalog() []Reward {
	return []Reward{
		{ID: "free-espresso", Label: "Free espresso", Cost: 250, SortOrder: 1},
		{ID: "free-pastry", Label: "Free pastry", Cost: 400, SortOrder: 2},
		{ID: "free-latte", Label: "Free latte", Cost: 500, SortOrder: 3},
		{ID: "tumbler", Label: "Branded tumbler", Cost: 1500, SortOrder: 4},
	}
}
