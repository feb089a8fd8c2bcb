package audit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-audit/internal/errors"
)

func testRounding() RoundingPolicy {
	return RoundingPolicy{
		ThresholdKg:      decimal.RequireFromString("20"),
		IncrementBelowKg: decimal.RequireFromString("0.5"),
		IncrementAboveKg: decimal.RequireFromString("1"),
	}
}

func TestNormalizeWeightRoundsUpBelowThreshold(t *testing.T) {
	tests := []struct {
		actual string
		want   string
	}{
		{"0.1", "0.5"},
		{"1.2", "1.5"},
		{"1.5", "1.5"},
		{"1.51", "2"},
		{"19.7", "20"},
	}

	for _, tt := range tests {
		got, err := NormalizeWeight(decimal.RequireFromString(tt.actual), testRounding())
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
			"%s kg: got %s, want %s", tt.actual, got, tt.want)
	}
}

func TestNormalizeWeightRoundsUpAboveThreshold(t *testing.T) {
	got, err := NormalizeWeight(decimal.RequireFromString("20.3"), testRounding())
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("21")))
}

func TestNormalizeWeightAtThresholdUsesBelowIncrement(t *testing.T) {
	got, err := NormalizeWeight(decimal.RequireFromString("19.8"), testRounding())
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("20")))
}

func TestNormalizeWeightIdempotent(t *testing.T) {
	for _, actual := range []string{"0.3", "1.2", "19.99", "20.5", "84.6"} {
		once, err := NormalizeWeight(decimal.RequireFromString(actual), testRounding())
		require.NoError(t, err)

		twice, err := NormalizeWeight(once, testRounding())
		require.NoError(t, err)
		assert.True(t, twice.Equal(once), "%s kg: %s re-normalized to %s", actual, once, twice)
	}
}

func TestNormalizeWeightIdempotentAcrossThresholdCrossing(t *testing.T) {
	// The below-threshold increment does not divide the threshold, so
	// rounding 19 up with it lands above the threshold; the result
	// must be re-rounded with the above-threshold increment until it
	// is a fixed point.
	policy := RoundingPolicy{
		ThresholdKg:      decimal.RequireFromString("20"),
		IncrementBelowKg: decimal.RequireFromString("3"),
		IncrementAboveKg: decimal.RequireFromString("2"),
	}
	require.NoError(t, policy.Validate())

	once, err := NormalizeWeight(decimal.RequireFromString("19"), policy)
	require.NoError(t, err)
	assert.True(t, once.Equal(decimal.RequireFromString("22")), "got %s", once)

	twice, err := NormalizeWeight(once, policy)
	require.NoError(t, err)
	assert.True(t, twice.Equal(once), "%s re-normalized to %s", once, twice)
}

func TestNormalizeWeightFixedPointForAnyValidPolicy(t *testing.T) {
	policies := []RoundingPolicy{
		testRounding(),
		{ThresholdKg: decimal.RequireFromString("20"), IncrementBelowKg: decimal.RequireFromString("3"), IncrementAboveKg: decimal.RequireFromString("2")},
		{ThresholdKg: decimal.RequireFromString("10"), IncrementBelowKg: decimal.RequireFromString("7"), IncrementAboveKg: decimal.RequireFromString("4")},
		{ThresholdKg: decimal.RequireFromString("0"), IncrementBelowKg: decimal.RequireFromString("0.5"), IncrementAboveKg: decimal.RequireFromString("1")},
	}
	weights := []string{"0.1", "6.9", "7", "9.5", "10", "13", "19", "19.9", "20", "20.1", "25"}

	for _, policy := range policies {
		require.NoError(t, policy.Validate())
		for _, w := range weights {
			once, err := NormalizeWeight(decimal.RequireFromString(w), policy)
			require.NoError(t, err)
			twice, err := NormalizeWeight(once, policy)
			require.NoError(t, err)
			assert.True(t, twice.Equal(once),
				"policy %s/%s/%s weight %s: %s re-normalized to %s",
				policy.ThresholdKg, policy.IncrementBelowKg, policy.IncrementAboveKg, w, once, twice)
		}
	}
}

func TestNormalizeWeightRejectsNonPositive(t *testing.T) {
	for _, actual := range []string{"0", "-1.5"} {
		_, err := NormalizeWeight(decimal.RequireFromString(actual), testRounding())
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.TypeInvalidWeight))
	}
}

func TestRoundingPolicyValidate(t *testing.T) {
	assert.NoError(t, testRounding().Validate())

	bad := testRounding()
	bad.IncrementBelowKg = decimal.Zero
	assert.Error(t, bad.Validate())

	bad = testRounding()
	bad.ThresholdKg = decimal.RequireFromString("-1")
	assert.Error(t, bad.Validate())
}
