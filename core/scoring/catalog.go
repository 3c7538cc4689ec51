// Package scoring is the deterministic ESG scoring engine. It performs no I/O.
package scoring

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/huangsam/greenscore/schema"
)

// weightTolerance is the allowed drift when checking that weights sum to 1.
const weightTolerance = 0.001

// Catalog is an immutable set of pillars and metrics. Build one with NewCatalog
// or use DefaultCatalog.
type Catalog struct {
	pillars []schema.Pillar
	metrics []schema.Metric
	byCode  map[string]int
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultPillars returns the reference pillar definitions.
func DefaultPillars() []schema.Pillar {
	return []schema.Pillar{
		{Code: schema.Environmental, Name: "Environmental", Weight: 0.35},
		{Code: schema.Social, Name: "Social", Weight: 0.35},
		{Code: schema.Governance, Name: "Governance", Weight: 0.30},
	}
}

// DefaultMetrics returns the reference metric definitions.
func DefaultMetrics() []schema.Metric {
	return []schema.Metric{
		{Code: "E1", Name: "GHG emissions", Pillar: schema.Environmental, Weight: 0.40, Mandatory: true},
		{Code: "E2", Name: "Energy", Pillar: schema.Environmental, Weight: 0.20},
		{Code: "E3", Name: "Water management", Pillar: schema.Environmental, Weight: 0.15},
		{Code: "E4", Name: "Waste", Pillar: schema.Environmental, Weight: 0.15},
		{Code: "E5", Name: "Green certification", Pillar: schema.Environmental, Weight: 0.10},

		{Code: "S1", Name: "Occupational safety", Pillar: schema.Social, Weight: 0.30},
		{Code: "S2", Name: "Gender diversity", Pillar: schema.Social, Weight: 0.20},
		{Code: "S3", Name: "Training", Pillar: schema.Social, Weight: 0.20},
		{Code: "S4", Name: "Supply chain", Pillar: schema.Social, Weight: 0.15},
		{Code: "S5", Name: "Community", Pillar: schema.Social, Weight: 0.15},

		{Code: "G1", Name: "Board independence", Pillar: schema.Governance, Weight: 0.40},
		{Code: "G2", Name: "Business ethics", Pillar: schema.Governance, Weight: 0.30, Mandatory: true},
		{Code: "G3", Name: "Tax transparency", Pillar: schema.Governance, Weight: 0.15},
		{Code: "G4", Name: "Data security", Pillar: schema.Governance, Weight: 0.15},
	}
}

// DefaultCatalog returns the process-wide reference catalog.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		cat, err := NewCatalog(DefaultPillars(), DefaultMetrics())
		if err != nil {
			panic(fmt.Sprintf("reference catalog is invalid: %v", err))
		}
		defaultCatalog = cat
	})
	return defaultCatalog
}

// NewCatalog validates and builds a catalog. Pillar weights must sum to 1 and the
// metric weights inside each pillar must sum to 1.
func NewCatalog(pillars []schema.Pillar, metrics []schema.Metric) (*Catalog, error) {
	if len(pillars) != len(schema.AllPillars) {
		return nil, fmt.Errorf("catalog needs exactly %d pillars, got %d", len(schema.AllPillars), len(pillars))
	}

	ordered := make([]schema.Pillar, 0, len(pillars))
	pillarSum := 0.0
	for _, code := range schema.AllPillars {
		idx := slices.IndexFunc(pillars, func(p schema.Pillar) bool { return p.Code == code })
		if idx < 0 {
			return nil, fmt.Errorf("catalog is missing pillar %s", code)
		}
		p := pillars[idx]
		if p.Weight <= 0 || p.Weight > 1 {
			return nil, fmt.Errorf("pillar %s weight %.3f must be in (0, 1]", code, p.Weight)
		}
		pillarSum += p.Weight
		ordered = append(ordered, p)
	}
	if math.Abs(pillarSum-1.0) > weightTolerance {
		return nil, fmt.Errorf("pillar weights must sum to 1.0, got %.3f", pillarSum)
	}

	cat := &Catalog{
		pillars: ordered,
		byCode:  make(map[string]int, len(metrics)),
	}
	metricSums := make(map[schema.PillarCode]float64, len(ordered))
	// Keep metrics grouped by pillar in canonical order, stable within a pillar.
	for _, code := range schema.AllPillars {
		for _, m := range metrics {
			if m.Pillar != code {
				continue
			}
			if m.Code == "" {
				return nil, fmt.Errorf("metric in pillar %s has an empty code", code)
			}
			if _, dup := cat.byCode[m.Code]; dup {
				return nil, fmt.Errorf("duplicate metric code %s", m.Code)
			}
			if m.Weight <= 0 || m.Weight > 1 {
				return nil, fmt.Errorf("metric %s weight %.3f must be in (0, 1]", m.Code, m.Weight)
			}
			cat.byCode[m.Code] = len(cat.metrics)
			cat.metrics = append(cat.metrics, m)
			metricSums[code] += m.Weight
		}
	}
	if len(cat.metrics) != len(metrics) {
		return nil, fmt.Errorf("catalog has metrics assigned to unknown pillars")
	}
	for _, code := range schema.AllPillars {
		if sum := metricSums[code]; math.Abs(sum-1.0) > weightTolerance {
			return nil, fmt.Errorf("metric weights of pillar %s must sum to 1.0, got %.3f", code, sum)
		}
	}
	return cat, nil
}

// Pillars returns the pillars in canonical order.
func (c *Catalog) Pillars() []schema.Pillar {
	return slices.Clone(c.pillars)
}

// Pillar returns a pillar definition by code.
func (c *Catalog) Pillar(code schema.PillarCode) (schema.Pillar, bool) {
	for _, p := range c.pillars {
		if p.Code == code {
			return p, true
		}
	}
	return schema.Pillar{}, false
}

// Metrics returns every metric in catalog order.
func (c *Catalog) Metrics() []schema.Metric {
	return slices.Clone(c.metrics)
}

// MetricsOf returns the metrics of a pillar in catalog order.
func (c *Catalog) MetricsOf(pillar schema.PillarCode) []schema.Metric {
	var out []schema.Metric
	for _, m := range c.metrics {
		if m.Pillar == pillar {
			out = append(out, m)
		}
	}
	return out
}

// Lookup returns the metric with the given code.
func (c *Catalog) Lookup(code string) (schema.Metric, bool) {
	idx, ok := c.byCode[code]
	if !ok {
		return schema.Metric{}, false
	}
	return c.metrics[idx], true
}

// PillarName returns the display name of a pillar, or its code when unknown.
func (c *Catalog) PillarName(code schema.PillarCode) string {
	if p, ok := c.Pillar(code); ok {
		return p.Name
	}
	return code.Name()
}
