// internal/domain/pricing/options.go
package pricing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Shot is the number of espresso shots
type Shot string

const (
	ShotSingle Shot = "single"
	ShotDouble Shot = "double"
)

// Temperature is how the drink is served
type Temperature string

const (
	TemperatureHot  Temperature = "hot"
	TemperatureIced Temperature = "iced"
)

// Size is the cup size
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Ice is the amount of ice, unpriced
type Ice string

const (
	IceLess   Ice = "less"
	IceNormal Ice = "normal"
	IceFull   Ice = "full"
)

// Options is the full set of choices for one drink. It is comparable, so two
// cart lines with equal coffee ids and equal Options are the same line.
type Options struct {
	Shot        Shot        `gorm:"size:16;not null;default:'single'" json:"shot"`
	Temperature Temperature `gorm:"size:16;not null;default:'hot'" json:"temperature"`
	Size        Size        `gorm:"size:16;not null;default:'medium'" json:"size"`
	Ice         Ice         `gorm:"size:16;not null;default:'normal'" json:"ice"`
}

// DefaultOptions returns single, hot, medium, normal ice
func DefaultOptions() Options {
	return Options{
		Shot:        ShotSingle,
		Temperature: TemperatureHot,
		Size:        SizeMedium,
		Ice:         IceNormal,
	}
}

// Normalize replaces every unknown value with its default
func (o Options) Normalize() Options {
	return Options{
		Shot:        ParseShot(string(o.Shot)),
		Temperature: ParseTemperature(string(o.Temperature)),
		Size:        ParseSize(string(o.Size)),
		Ice:         ParseIce(string(o.Ice)),
	}
}

// UnmarshalJSON fills missing or malformed fields with their defaults
func (o *Options) UnmarshalJSON(b []byte) error {
	type plain Options
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		p = plain{}
	}
	*o = Options(p).Normalize()
	return nil
}

func (o Options) String() string {
	return fmt.Sprintf("%s/%s/%s/%s-ice", o.Size, o.Temperature, o.Shot, o.Ice)
}

// Decoding never fails: unknown or corrupt text yields the default value.

func ParseShot(s string) Shot {
	switch Shot(normalize(s)) {
	case ShotDouble:
		return ShotDouble
	default:
		return ShotSingle
	}
}

func ParseTemperature(s string) Temperature {
	switch Temperature(normalize(s)) {
	case TemperatureIced:
		return TemperatureIced
	default:
		return TemperatureHot
	}
}

func ParseSize(s string) Size {
	switch Size(normalize(s)) {
	case SizeSmall:
		return SizeSmall
	case SizeLarge:
		return SizeLarge
	default:
		return SizeMedium
	}
}

func ParseIce(s string) Ice {
	switch Ice(normalize(s)) {
	case IceLess:
		return IceLess
	case IceFull:
		return IceFull
	default:
		return IceNormal
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *Shot) UnmarshalText(b []byte) error {
	*s = ParseShot(string(b))
	return nil
}

func (t *Temperature) UnmarshalText(b []byte) error {
	*t = ParseTemperature(string(b))
	return nil
}

func (s *Size) UnmarshalText(b []byte) error {
	*s = ParseSize(string(b))
	return nil
}

func (i *Ice) UnmarshalText(b []byte) error {
	*i = ParseIce(string(b))
	return nil
}

// Scan implementations let rows written by older clients load safely

func (s *Shot) Scan(src interface{}) error {
	*s = ParseShot(scanString(src))
	return nil
}

func (t *Temperature) Scan(src interface{}) error {
	*t = ParseTemperature(scanString(src))
	return nil
}

func (s *Size) Scan(src interface{}) error {
	*s = ParseSize(scanString(src))
	return nil
}

func (i *Ice) Scan(src interface{}) error {
	*i = ParseIce(scanString(src))
	return nil
}

func (s Shot) Value() (driver.Value, error)        { return string(ParseShot(string(s))), nil }
func (t Temperature) Value() (driver.Value, error) { return string(ParseTemperature(string(t))), nil }
func (s Size) Value() (driver.Value, error)        { return string(ParseSize(string(s))), nil }
func (i Ice) Value() (driver.Value, error)         { return string(ParseIce(string(i))), nil }

func scanString(src interface{}) string {
	switch v := src.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}
