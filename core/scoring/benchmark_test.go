package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/greenscore/schema"
)

// TestCompareBenchmark tests deltas, tiers and totals against an industry.
func TestCompareBenchmark(t *testing.T) {
	scores := map[schema.PillarCode]float64{
		schema.Environmental: 72,
		schema.Social:        65,
		schema.Governance:    80,
	}
	res := CompareBenchmark(scores, "technology")

	assert.Equal(t, "technology", res.Industry)
	assert.InDelta(t, 7.0, res.Pillars[schema.Environmental].Delta, 0.001)
	assert.InDelta(t, -5.0, res.Pillars[schema.Social].Delta, 0.001)
	assert.InDelta(t, 5.0, res.Pillars[schema.Governance].Delta, 0.001)
	assert.Equal(t, schema.TierGood, res.Pillars[schema.Environmental].Tier)
	assert.Equal(t, schema.TierNeedsImprovement, res.Pillars[schema.Social].Tier)
	assert.Equal(t, schema.TierGood, res.Pillars[schema.Governance].Tier)
	assert.Len(t, res.Recommendations, 1)
	assert.Contains(t, res.Recommendations[0], "Social")

	assert.InDelta(t, 71.61, res.Totals.Company, 0.001)
	assert.InDelta(t, 69.3, res.Totals.Benchmark, 0.001)
	assert.InDelta(t, 2.31, res.Totals.Difference, 0.001)
}

// TestCompareBenchmarkIndustryResolution tests case-insensitive lookup and fallback.
func TestCompareBenchmarkIndustryResolution(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"technology", "technology"},
		{"  FINANCE ", "finance"},
		{"Healthcare", "healthcare"},
		{"aerospace", DefaultIndustry},
		{"", DefaultIndustry},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompareBenchmark(nil, tt.input).Industry)
		})
	}
}

// TestCompareBenchmarkMissingPillars tests that absent pillars count as zero.
func TestCompareBenchmarkMissingPillars(t *testing.T) {
	res := CompareBenchmark(map[schema.PillarCode]float64{}, "unknown")
	env := res.Pillars[schema.Environmental]
	assert.Zero(t, env.Company)
	assert.InDelta(t, -60.0, env.Delta, 0.001)
	assert.Equal(t, schema.TierWeak, env.Tier)
	assert.Len(t, res.Recommendations, 3)
}

// TestTierFor tests tier boundaries.
func TestTierFor(t *testing.T) {
	tests := []struct {
		delta float64
		want  schema.PerformanceTier
	}{
		{25, schema.TierOutstanding},
		{10, schema.TierOutstanding},
		{9.99, schema.TierGood},
		{0, schema.TierGood},
		{-0.01, schema.TierNeedsImprovement},
		{-10, schema.TierNeedsImprovement},
		{-10.01, schema.TierWeak},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.delta), "delta=%v", tt.delta)
	}
}

// TestIndustries tests that the benchmark keys are listed in order.
func TestIndustries(t *testing.T) {
	assert.Equal(t, []string{"default", "energy", "finance", "healthcare", "manufacturing", "retail", "technology"}, Industries())
}
