package audit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-audit/core/types"
)

func testThresholds() Thresholds {
	return Thresholds{
		PassPercent:   decimal.RequireFromString("2"),
		ReviewPercent: decimal.RequireFromString("10"),
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		invoiced string
		want     types.AuditStatus
	}{
		{"exact match", "100", "100", types.StatusPass},
		{"within pass band", "100", "101.50", types.StatusPass},
		{"at pass boundary", "100", "102", types.StatusPass},
		{"in review band", "100", "105", types.StatusReview},
		{"at review boundary", "100", "110", types.StatusReview},
		{"beyond review, positive", "100", "125", types.StatusOvercharge},
		{"beyond review, negative", "100", "80", types.StatusUndercharge},
		{"negative within pass", "100", "98.50", types.StatusPass},
		{"negative in review band", "100", "92", types.StatusReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(decimal.RequireFromString(tt.expected), decimal.RequireFromString(tt.invoiced), testThresholds())
			assert.Equal(t, tt.want, d.Status)
		})
	}
}

func TestClassifySignSymmetry(t *testing.T) {
	expected := decimal.RequireFromString("100")

	over := Classify(expected, decimal.RequireFromString("105"), testThresholds())
	under := Classify(expected, decimal.RequireFromString("95"), testThresholds())

	// Same magnitude either side of expected lands in the same band
	assert.Equal(t, over.Status, under.Status)
	require.NotNil(t, over.VariancePercent)
	require.NotNil(t, under.VariancePercent)
	assert.True(t, over.VariancePercent.Abs().Equal(under.VariancePercent.Abs()))
}

func TestClassifyZeroExpectedGoesToReview(t *testing.T) {
	d := Classify(decimal.Zero, decimal.RequireFromString("50"), testThresholds())

	assert.Equal(t, types.StatusReview, d.Status)
	assert.Nil(t, d.VariancePercent, "zero expected cannot anchor a percentage")
	assert.True(t, d.Variance.Equal(decimal.RequireFromString("50")))
}

func TestClassifyVarianceArithmetic(t *testing.T) {
	d := Classify(decimal.RequireFromString("200"), decimal.RequireFromString("250"), testThresholds())

	assert.True(t, d.Variance.Equal(decimal.RequireFromString("50")))
	require.NotNil(t, d.VariancePercent)
	assert.True(t, d.VariancePercent.Equal(decimal.RequireFromString("25")))
	assert.Equal(t, types.StatusOvercharge, d.Status)
}

func TestThresholdsValidate(t *testing.T) {
	assert.NoError(t, testThresholds().Validate())

	inverted := Thresholds{
		PassPercent:   decimal.RequireFromString("10"),
		ReviewPercent: decimal.RequireFromString("2"),
	}
	assert.Error(t, inverted.Validate())

	negative := Thresholds{
		PassPercent:   decimal.RequireFromString("-1"),
		ReviewPercent: decimal.RequireFromString("10"),
	}
	assert.Error(t, negative.Validate())
}
