// Package money provides formatting and rounding helpers for the decimal
// amounts the engine produces.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round rounds an amount to cents.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Annual converts a monthly amount to its annual equivalent.
func Annual(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Mul(decimal.NewFromInt(12))
}

// Monthly converts an annual amount to its monthly equivalent.
func Monthly(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(decimal.NewFromInt(12))
}

// FormatUSD renders an amount as "$1,234.56" with thousands separators.
// Negative amounts render as "-$1,234.56".
func FormatUSD(d decimal.Decimal) string {
	s := d.Round(2).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteString(frac)
	return b.String()
}

// FormatPercent renders a decimal rate (0.0625) as a percentage ("6.25%").
func FormatPercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).Round(2).StringFixed(2) + "%"
}
