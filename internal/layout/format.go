// internal/layout/format.go
package layout

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount rounds to two places and groups thousands: 1234.5 -> 1,234.50
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, frac = s[:dot], s[dot:]
	}

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + frac
}

// FormatQuantity prints a quantity without trailing zeros: 10.500 -> 10.5
func FormatQuantity(d decimal.Decimal) string {
	return d.String()
}
