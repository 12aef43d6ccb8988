package accounting

import (
	"fmt"

	"github.com/SscSPs/ifm_report_app/internal/apperrors"
	"github.com/SscSPs/ifm_report_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DivisionPrecision is the number of fractional digits kept when converting to USD.
const DivisionPrecision int32 = 16

// ValidateExchangeRate rejects zero and negative rates.
func ValidateExchangeRate(rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return fmt.Errorf("%w: got %s", apperrors.ErrInvalidExchangeRate, rate.String())
	}
	return nil
}

// RateToUSD returns the divisor used to convert an amount in currency to USD.
// USD amounts are never converted; everything else uses the run's rate.
func RateToUSD(currency string, rate decimal.Decimal) decimal.Decimal {
	if currency == domain.CurrencyUSD {
		return decimal.NewFromInt(1)
	}
	return rate
}

// ConvertToUSD divides amount by rate. The rate must already be validated.
// Example: 72 EUR at 7.2 returns 10
func ConvertToUSD(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.DivRound(rate, DivisionPrecision)
}
