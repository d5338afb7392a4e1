package networth

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type number interface {
	float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T number](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Quantity is a signed number of units: an amount of cash on a record, or a number of
// shares or coins on an investment record.
type Quantity struct {
	value decimal.Decimal
}

func Q[T number](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

// ParseQuantity reads a quantity written with a dot as decimal separator. Spaces are
// ignored. A comma is an error, whether meant as decimal or thousands separator.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if strings.Contains(s, ",") {
		return Quantity{}, errors.Errorf("invalid quantity %q: ambiguous comma, use a dot as decimal separator", s)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, errors.Wrapf(err, "invalid quantity %q", s)
	}
	return Quantity{value: v}, nil
}

func (t Quantity) Equal(p Quantity) bool           { return t.value.Equal(p.value) }
func (t Quantity) LessThan(quantity Quantity) bool { return t.value.LessThan(quantity.value) }
func (t Quantity) GreaterThan(p Quantity) bool     { return t.value.GreaterThan(p.value) }
func (t Quantity) Add(p Quantity) Quantity         { return Quantity{value: t.value.Add(p.value)} }
func (t Quantity) Sub(p Quantity) Quantity         { return Quantity{value: t.value.Sub(p.value)} }
func (t Quantity) Neg() Quantity                   { return Quantity{value: t.value.Neg()} }
func (t Quantity) Abs() Quantity                   { return Quantity{value: t.value.Abs()} }
func (t Quantity) IsNegative() bool                { return t.value.IsNegative() }
func (t Quantity) IsPositive() bool                { return t.value.IsPositive() }
func (t Quantity) IsZero() bool                    { return t.value.IsZero() }
func (t Quantity) Decimal() decimal.Decimal        { return t.value }
func (t Quantity) String() string                  { return t.value.String() }

// MarshalJSON implements the json.Marshaler interface.
func (t Quantity) MarshalJSON() ([]byte, error) {
	return t.value.MarshalJSON()
}

func (t *Quantity) UnmarshalJSON(decimalBytes []byte) error {
	return t.value.UnmarshalJSON(decimalBytes)
}
