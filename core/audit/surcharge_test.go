package audit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-audit/core/ratecard"
)

func flatRule(code, value string) ratecard.SurchargeRule {
	return ratecard.SurchargeRule{Code: code, Kind: ratecard.SurchargeFlat, Value: decimal.RequireFromString(value)}
}

func pctRule(code, value string, base ratecard.PercentBase) ratecard.SurchargeRule {
	return ratecard.SurchargeRule{Code: code, Kind: ratecard.SurchargePercentage, Value: decimal.RequireFromString(value), PercentBase: base}
}

func TestApplySurchargesFlat(t *testing.T) {
	subtotal, apps := ApplySurcharges(decimal.RequireFromString("100"), decimal.RequireFromString("5"),
		[]ratecard.SurchargeRule{flatRule("RAS", "20")})

	assert.True(t, subtotal.Equal(decimal.RequireFromString("120")))
	require.Len(t, apps, 1)
	assert.False(t, apps[0].Clamped)
}

func TestApplySurchargesPerKg(t *testing.T) {
	rule := ratecard.SurchargeRule{Code: "HND", Kind: ratecard.SurchargePerKg, Value: decimal.RequireFromString("0.5")}
	subtotal, _ := ApplySurcharges(decimal.RequireFromString("100"), decimal.RequireFromString("12"),
		[]ratecard.SurchargeRule{rule})

	assert.True(t, subtotal.Equal(decimal.RequireFromString("106")))
}

func TestApplySurchargesPercentageOfRunningCompounds(t *testing.T) {
	// 100 + 20 flat, then 10% of the running 120
	subtotal, apps := ApplySurcharges(decimal.RequireFromString("100"), decimal.Zero,
		[]ratecard.SurchargeRule{flatRule("RAS", "20"), pctRule("FSC", "10", ratecard.PercentOfRunning)})

	assert.True(t, subtotal.Equal(decimal.RequireFromString("132")))
	assert.True(t, apps[1].Applied.Equal(decimal.RequireFromString("12")))
}

func TestApplySurchargesPercentageOfBaseIgnoresEarlierRules(t *testing.T) {
	// 100 + 20 flat, then 10% of the base 100
	subtotal, apps := ApplySurcharges(decimal.RequireFromString("100"), decimal.Zero,
		[]ratecard.SurchargeRule{flatRule("RAS", "20"), pctRule("VAT", "10", ratecard.PercentOfBase)})

	assert.True(t, subtotal.Equal(decimal.RequireFromString("130")))
	assert.True(t, apps[1].Applied.Equal(decimal.RequireFromString("10")))
}

func TestApplySurchargesOrderMatters(t *testing.T) {
	rules := []ratecard.SurchargeRule{flatRule("RAS", "20"), pctRule("FSC", "10", ratecard.PercentOfRunning)}
	reversed := []ratecard.SurchargeRule{rules[1], rules[0]}

	a, _ := ApplySurcharges(decimal.RequireFromString("100"), decimal.Zero, rules)
	b, _ := ApplySurcharges(decimal.RequireFromString("100"), decimal.Zero, reversed)

	assert.True(t, a.Equal(decimal.RequireFromString("132")))
	assert.True(t, b.Equal(decimal.RequireFromString("130")))
	assert.False(t, a.Equal(b))
}

func TestApplySurchargesClampsToMinimum(t *testing.T) {
	min := decimal.RequireFromString("15")
	rule := pctRule("FSC", "10", ratecard.PercentOfRunning)
	rule.Minimum = &min

	subtotal, apps := ApplySurcharges(decimal.RequireFromString("100"), decimal.Zero,
		[]ratecard.SurchargeRule{rule})

	assert.True(t, subtotal.Equal(decimal.RequireFromString("115")))
	require.Len(t, apps, 1)
	assert.True(t, apps[0].Clamped)
	assert.True(t, apps[0].Raw.Equal(decimal.RequireFromString("10")))
	assert.True(t, apps[0].Applied.Equal(min))
}

func TestApplySurchargesClampsToMaximum(t *testing.T) {
	max := decimal.RequireFromString("5")
	rule := pctRule("FSC", "10", ratecard.PercentOfRunning)
	rule.Maximum = &max

	subtotal, apps := ApplySurcharges(decimal.RequireFromString("100"), decimal.Zero,
		[]ratecard.SurchargeRule{rule})

	assert.True(t, subtotal.Equal(decimal.RequireFromString("105")))
	assert.True(t, apps[0].Clamped)
}

func TestApplySurchargesNoRules(t *testing.T) {
	base := decimal.RequireFromString("42.42")
	subtotal, apps := ApplySurcharges(base, decimal.Zero, nil)

	assert.True(t, subtotal.Equal(base))
	assert.Empty(t, apps)
}
