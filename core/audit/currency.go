package audit

import (
	"github.com/shopspring/decimal"

	"freight-audit/core/determinism"
	"freight-audit/internal/errors"
)

// ExchangeRates holds supplied source-to-target rates keyed
// "FROM/TO". Rates are supplied by the caller, never fetched, and a
// missing rate is never assumed to be 1.
type ExchangeRates map[string]decimal.Decimal

// RateKey builds the lookup key for a currency pair
func RateKey(from, to string) string {
	return from + "/" + to
}

// Rate returns the supplied rate for a pair
func (r ExchangeRates) Rate(from, to string) (decimal.Decimal, bool) {
	rate, ok := r[RateKey(from, to)]
	return rate, ok
}

// ConvertCurrency converts an amount between the rate-card currency
// and the invoice currency, rounding to the target currency's
// minor-unit precision. Identical currencies pass through unchanged.
func ConvertCurrency(amount decimal.Decimal, from, to string, rates ExchangeRates) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	rate, ok := rates.Rate(from, to)
	if !ok {
		return decimal.Zero, errors.CurrencyConversionMissing(from, to)
	}

	converted := determinism.NewMoneyFromDecimal(amount.Mul(rate), to)
	return converted.RoundMinor().Amount(), nil
}
