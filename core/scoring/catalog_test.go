package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/greenscore/schema"
)

// TestDefaultCatalog tests the reference pillars and metrics.
func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()
	assert.Same(t, cat, DefaultCatalog())

	pillars := cat.Pillars()
	require.Len(t, pillars, 3)
	assert.Equal(t, schema.Environmental, pillars[0].Code)
	assert.Equal(t, schema.Governance, pillars[2].Code)
	assert.InDelta(t, 0.30, pillars[2].Weight, 1e-9)

	assert.Len(t, cat.Metrics(), 14)
	assert.Len(t, cat.MetricsOf(schema.Environmental), 5)
	assert.Len(t, cat.MetricsOf(schema.Social), 5)
	assert.Len(t, cat.MetricsOf(schema.Governance), 4)

	g2, ok := cat.Lookup("G2")
	require.True(t, ok)
	assert.True(t, g2.Mandatory)
	assert.Equal(t, "Business ethics", g2.Name)

	_, ok = cat.Lookup("X9")
	assert.False(t, ok)

	var mandatory []string
	for _, m := range cat.Metrics() {
		if m.Mandatory {
			mandatory = append(mandatory, m.Code)
		}
	}
	assert.Equal(t, []string{"E1", "G2"}, mandatory)
	assert.Equal(t, "Social", cat.PillarName(schema.Social))
	assert.Equal(t, "X", cat.PillarName("X"))
}

// TestCatalogAccessorsReturnCopies tests that callers cannot mutate the catalog.
func TestCatalogAccessorsReturnCopies(t *testing.T) {
	cat := DefaultCatalog()
	metrics := cat.Metrics()
	metrics[0].Weight = 0.99
	pillars := cat.Pillars()
	pillars[0].Weight = 0.99

	e1, _ := cat.Lookup("E1")
	assert.InDelta(t, 0.40, e1.Weight, 1e-9)
	assert.InDelta(t, 0.35, cat.Pillars()[0].Weight, 1e-9)
}

// TestNewCatalogValidation tests rejection of inconsistent catalogs.
func TestNewCatalogValidation(t *testing.T) {
	withPillarWeight := func(code schema.PillarCode, w float64) []schema.Pillar {
		ps := DefaultPillars()
		for i := range ps {
			if ps[i].Code == code {
				ps[i].Weight = w
			}
		}
		return ps
	}
	withMetric := func(mutate func([]schema.Metric) []schema.Metric) []schema.Metric {
		return mutate(DefaultMetrics())
	}

	tests := []struct {
		name    string
		pillars []schema.Pillar
		metrics []schema.Metric
		errMsg  string
	}{
		{
			name:    "pillar weights off",
			pillars: withPillarWeight(schema.Governance, 0.5),
			metrics: DefaultMetrics(),
			errMsg:  "pillar weights must sum to 1.0",
		},
		{
			name:    "missing pillar",
			pillars: DefaultPillars()[:2],
			metrics: DefaultMetrics(),
			errMsg:  "exactly 3 pillars",
		},
		{
			name:    "metric weights off",
			pillars: DefaultPillars(),
			metrics: withMetric(func(ms []schema.Metric) []schema.Metric { ms[0].Weight = 0.5; return ms }),
			errMsg:  "metric weights of pillar E",
		},
		{
			name:    "duplicate code",
			pillars: DefaultPillars(),
			metrics: withMetric(func(ms []schema.Metric) []schema.Metric { ms[1].Code = "E1"; return ms }),
			errMsg:  "duplicate metric code E1",
		},
		{
			name:    "unknown pillar",
			pillars: DefaultPillars(),
			metrics: withMetric(func(ms []schema.Metric) []schema.Metric { return append(ms, schema.Metric{Code: "X1", Pillar: "X", Weight: 1}) }),
			errMsg:  "unknown pillars",
		},
		{
			name:    "zero weight",
			pillars: DefaultPillars(),
			metrics: withMetric(func(ms []schema.Metric) []schema.Metric { ms[4].Weight = 0; return ms }),
			errMsg:  "must be in (0, 1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.pillars, tt.metrics)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

// TestNewCatalogCustomWeights tests that a reweighted catalog drives aggregation.
func TestNewCatalogCustomWeights(t *testing.T) {
	pillars := DefaultPillars()
	pillars[0].Weight = 0.5
	pillars[1].Weight = 0.25
	pillars[2].Weight = 0.25

	cat, err := NewCatalog(pillars, DefaultMetrics())
	require.NoError(t, err)

	res := Aggregate(cat, schema.RawScoreSet{"E1": 80, "S1": 40, "G2": 40}, nil)
	assert.InDelta(t, 60.0, res.TotalScore, 0.001)
}
