package utils

import (
	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount exactly, without trailing zeros or exponent.
// Example: 1234.5000 returns "1234.5"
func FormatAmount(amount decimal.Decimal) string {
	return amount.String()
}
