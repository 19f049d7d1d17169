// internal/domain/pricing/pricing.go
package pricing

import (
	"github.com/shopspring/decimal"
)

// Money is an amount in the smallest currency unit. The currency has no
// fractional unit, so every money value in the system is an integer.
type Money int64

// Surcharges per option. Values not listed here cost nothing.
const (
	DoubleShotSurcharge Money = 10000
	IcedSurcharge       Money = 5000
	LargeSizeSurcharge  Money = 10000
	SmallSizeSurcharge  Money = -10000
)

// Round converts a decimal amount to Money, half away from zero. Every
// component is rounded on its own before it is added to anything else.
func Round(amount decimal.Decimal) Money {
	return Money(amount.Round(0).IntPart())
}

// ExtraPrice returns the signed surcharge for opts
func ExtraPrice(opts Options) Money {
	opts = opts.Normalize()

	var extra Money
	if opts.Shot == ShotDouble {
		extra += DoubleShotSurcharge
	}
	if opts.Temperature == TemperatureIced {
		extra += IcedSurcharge
	}
	switch opts.Size {
	case SizeSmall:
		extra += SmallSizeSurcharge
	case SizeLarge:
		extra += LargeSizeSurcharge
	}
	return extra
}

// UnitPrice is round(basePrice) + ExtraPrice(opts)
func UnitPrice(basePrice decimal.Decimal, opts Options) Money {
	return Round(basePrice) + ExtraPrice(opts)
}

// LineTotal is UnitPrice × quantity. quantity is not validated here.
func LineTotal(basePrice decimal.Decimal, opts Options, quantity int) Money {
	return UnitPrice(basePrice, opts).Times(quantity)
}

// Times multiplies m by a quantity
func (m Money) Times(quantity int) Money {
	return m * Money(quantity)
}

// Min returns the smaller of a and b
func Min(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}
