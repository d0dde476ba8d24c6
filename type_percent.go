package holdings

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Percent float64

var hundred = decimal.NewFromInt(100)

// percentOf returns part/base in percent, 0 when base is zero.
func percentOf(part, base Money) Percent {
	if base.IsZero() {
		return 0
	}
	return Percent(part.value.Div(base.value).Mul(hundred).InexactFloat64())
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
