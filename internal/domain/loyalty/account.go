// internal/domain/loyalty/account.go
package loyalty

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/coffee-backend/internal/pkg/apperror"
)

// Tier is derived from the points balance, never stored
type Tier string

const (
	TierBase     Tier = "base"
	TierElevated Tier = "elevated"
)

const (
	// TierThreshold is the balance at which a member becomes elevated
	TierThreshold int64 = 1000

	DefaultMaxStamps = 8

	// StampsAfterCap is the stamp count after adding one to a full card.
	// The purchase that overflows the card still counts.
	StampsAfterCap = 1
)

var (
	baseMultiplier     = decimal.NewFromInt(1)
	elevatedMultiplier = decimal.RequireFromString("1.5")
)

// Account holds a member's points, stamps and vouchers
type Account struct {
	Points    int64 `gorm:"not null;default:0" json:"points"`
	Stamps    int   `gorm:"not null;default:0" json:"stamps"`
	MaxStamps int   `gorm:"not null;default:8" json:"max_stamps"`
	Vouchers  int   `gorm:"not null;default:0" json:"vouchers"`
}

// NewAccount returns an empty account with the default stamp card
func NewAccount() Account {
	return Account{MaxStamps: DefaultMaxStamps}
}

func (a Account) Tier() Tier {
	if a.Points >= TierThreshold {
		return TierElevated
	}
	return TierBase
}

func (a Account) Multiplier() decimal.Decimal {
	if a.Tier() == TierElevated {
		return elevatedMultiplier
	}
	return baseMultiplier
}

// EarnPoints credits round(baseCups × multiplier) points, half away from
// zero, and returns the amount credited
func (a *Account) EarnPoints(baseCups int) int64 {
	if baseCups <= 0 {
		return 0
	}
	earned := decimal.NewFromInt(int64(baseCups)).Mul(a.Multiplier()).Round(0).IntPart()
	a.Points += earned
	return earned
}

// UseRewardPoints deducts amount or fails leaving the balance untouched
func (a *Account) UseRewardPoints(amount int64) error {
	if amount < 0 {
		return apperror.Validation(apperror.CodeInvalidQuantity, "points amount must not be negative, got %d", amount)
	}
	if a.Points < amount {
		return apperror.Validation(apperror.CodeInsufficientPoints, "insufficient points: have %d, need %d", a.Points, amount)
	}
	a.Points -= amount
	return nil
}

// AddStamp adds one stamp. A full card wraps around to StampsAfterCap.
func (a *Account) AddStamp() {
	a.AddStamps(1)
}

// AddStamps adds n stamps in constant time, with the same wrap-around as
// calling AddStamp n times
func (a *Account) AddStamps(n int) {
	if n <= 0 {
		return
	}

	limit := a.maxStamps()
	stamps := a.Stamps
	if stamps > limit {
		stamps = limit
	}

	toFull := limit - stamps
	if n <= toFull {
		a.Stamps = stamps + n
		return
	}
	// Past a full card every stamp walks the cycle StampsAfterCap..limit
	a.Stamps = StampsAfterCap + (n-toFull-1)%(limit-StampsAfterCap+1)
}

// ResetStamps empties the stamp card
func (a *Account) ResetStamps() {
	a.Stamps = 0
}

// CanRedeemStampCard reports whether the card is full
func (a Account) CanRedeemStampCard() bool {
	return a.Stamps >= a.maxStamps()
}

func (a *Account) UseVouchers(n int) error {
	if n < 0 {
		return apperror.Validation(apperror.CodeInvalidQuantity, "voucher count must not be negative, got %d", n)
	}
	if a.Vouchers < n {
		return apperror.Validation(apperror.CodeInsufficientVouchers, "insufficient vouchers: have %d, need %d", a.Vouchers, n)
	}
	a.Vouchers -= n
	return nil
}

func (a *Account) AddVouchers(n int) {
	if n > 0 {
		a.Vouchers += n
	}
}

func (a Account) maxStamps() int {
	if a.MaxStamps <= 0 {
		return DefaultMaxStamps
	}
	return a.MaxStamps
}
