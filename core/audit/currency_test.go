package audit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-audit/internal/errors"
)

func TestConvertCurrencySameCurrencyPassesThrough(t *testing.T) {
	amount := decimal.RequireFromString("16.473")

	got, err := ConvertCurrency(amount, "AED", "AED", nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(amount), "same-currency amounts are not re-rounded")
}

func TestConvertCurrencyAppliesSuppliedRate(t *testing.T) {
	rates := ExchangeRates{RateKey("EUR", "AED"): decimal.RequireFromString("4.01")}

	got, err := ConvertCurrency(decimal.RequireFromString("100"), "EUR", "AED", rates)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("401.00")))
}

func TestConvertCurrencyRoundsToMinorUnits(t *testing.T) {
	rates := ExchangeRates{
		RateKey("USD", "JPY"): decimal.RequireFromString("147.123"),
		RateKey("USD", "BHD"): decimal.RequireFromString("0.376"),
	}

	jpy, err := ConvertCurrency(decimal.RequireFromString("10"), "USD", "JPY", rates)
	require.NoError(t, err)
	assert.True(t, jpy.Equal(decimal.RequireFromString("1471")), "JPY has no minor units, got %s", jpy)

	bhd, err := ConvertCurrency(decimal.RequireFromString("10.5555"), "USD", "BHD", rates)
	require.NoError(t, err)
	assert.Equal(t, int32(-3), bhd.Exponent(), "BHD rounds to 3 decimals, got %s", bhd)
}

func TestConvertCurrencyMissingRateFails(t *testing.T) {
	_, err := ConvertCurrency(decimal.RequireFromString("100"), "EUR", "AED", ExchangeRates{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeCurrencyConversionMissing),
		"a missing rate is never assumed to be 1")
}

func TestConvertCurrencyRoundTripWithinRoundingTolerance(t *testing.T) {
	rates := ExchangeRates{
		RateKey("EUR", "AED"): decimal.RequireFromString("4.01"),
		RateKey("AED", "EUR"): decimal.RequireFromString("0.2493765586034913"),
	}
	original := decimal.RequireFromString("137.42")

	aed, err := ConvertCurrency(original, "EUR", "AED", rates)
	require.NoError(t, err)
	back, err := ConvertCurrency(aed, "AED", "EUR", rates)
	require.NoError(t, err)

	// Each conversion rounds to minor units, so the round trip may
	// drift by at most one minor unit per hop
	drift := back.Sub(original).Abs()
	assert.True(t, drift.LessThanOrEqual(decimal.RequireFromString("0.02")),
		"round trip drifted %s: %s -> %s -> %s", drift, original, aed, back)
}

func TestConvertCurrencyRatesAreDirectional(t *testing.T) {
	rates := ExchangeRates{RateKey("EUR", "AED"): decimal.RequireFromString("4.01")}

	_, err := ConvertCurrency(decimal.RequireFromString("100"), "AED", "EUR", rates)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeCurrencyConversionMissing))
}
