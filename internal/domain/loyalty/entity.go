// internal/domain/loyalty/entity.go
package loyalty

import "time"

// Member is a customer with a loyalty account and a default delivery address
type Member struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Account   Account   `gorm:"embedded" json:"account"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Member) TableName() string {
	return "members"
}

// NewMember returns a member with an empty account
func NewMember(id string) *Member {
	return &Member{ID: id, Account: NewAccount()}
}

// Summary is the loyalty view returned to clients
type Summary struct {
	MemberID       string `json:"member_id"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	Points         int64  `json:"points"`
	Tier           Tier   `json:"tier"`
	Multiplier     string `json:"multiplier"`
	Stamps         int    `json:"stamps"`
	MaxStamps      int    `json:"max_stamps"`
	CardRedeemable bool   `json:"card_redeemable"`
	Vouchers       int    `json:"vouchers"`
}

// Summary projects the member for presentation
func (m *Member) Summary() Summary {
	return Summary{
		MemberID:       m.ID,
		Name:           m.Name,
		Address:        m.Address,
		Points:         m.Account.Points,
		Tier:           m.Account.Tier(),
		Multiplier:     m.Account.Multiplier().String(),
		Stamps:         m.Account.Stamps,
		MaxStamps:      m.Account.maxStamps(),
		CardRedeemable: m.Account.CanRedeemStampCard(),
		Vouchers:       m.Account.Vouchers,
	}
}
