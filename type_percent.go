package networth

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Percent is a ratio that may be undefined, when it was computed with a zero
// denominator. The zero value is undefined.
type Percent struct {
	ratio   decimal.Decimal // 0.6 for 60%
	defined bool
}

// Undefined is the Percent of a division by zero. It is rendered as "-".
var Undefined = Percent{}

var hundred = decimal.NewFromInt(100)

// P returns the defined Percent of a ratio, P(0.6) is 60%.
func P[T number](ratio T) Percent { return Percent{ratio: newDecimal(ratio), defined: true} }

// Ratio returns num/den, or Undefined and ErrDivisionUndefined if den is zero.
func Ratio(num, den decimal.Decimal) (Percent, error) {
	if den.IsZero() {
		return Undefined, errors.Wrapf(ErrDivisionUndefined, "%s / 0", num)
	}
	return Percent{ratio: num.DivRound(den, 8), defined: true}, nil
}

// IsDefined reports whether p holds a value.
func (p Percent) IsDefined() bool { return p.defined }

// Ratio returns the raw ratio (0.6 for 60%) and whether it is defined.
func (p Percent) Ratio() (decimal.Decimal, bool) { return p.ratio, p.defined }

func (p Percent) Equal(q Percent) bool {
	if p.defined != q.defined {
		return false
	}
	// it has to be compared with some precision
	const precision = 0.000001
	return p.ratio.Sub(q.ratio).Abs().LessThan(decimal.NewFromFloat(precision))
}

func (p Percent) String() string {
	if !p.defined {
		return "-"
	}
	return p.ratio.Mul(hundred).StringFixed(2) + "%"
}

func (p Percent) SignedString() string {
	if !p.defined {
		return "-"
	}
	v := p.ratio.Mul(hundred).Round(2)
	switch {
	case v.IsZero():
		return "-"
	case v.IsPositive():
		return "+" + v.StringFixed(2) + "%"
	default:
		return v.StringFixed(2) + "%"
	}
}
