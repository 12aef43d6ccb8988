package spreadsheet

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads a displayed amount. Blank and a lone dash are zero,
// thousands separators are ignored and accounting negatives "(1.5)" are honoured.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
