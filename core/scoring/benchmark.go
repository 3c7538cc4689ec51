package scoring

import (
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/greenscore/schema"
)

// DefaultIndustry is the benchmark profile used for unknown industries.
const DefaultIndustry = "default"

// flatPillarWeight is the equal weight used for benchmark totals, not the catalog weights.
const flatPillarWeight = 0.33

// industryBenchmarks holds reference pillar scores per industry.
var industryBenchmarks = map[string]map[schema.PillarCode]float64{
	"technology":    {schema.Environmental: 65, schema.Social: 70, schema.Governance: 75},
	"finance":       {schema.Environmental: 60, schema.Social: 68, schema.Governance: 80},
	"manufacturing": {schema.Environmental: 55, schema.Social: 62, schema.Governance: 65},
	"retail":        {schema.Environmental: 58, schema.Social: 65, schema.Governance: 68},
	"energy":        {schema.Environmental: 45, schema.Social: 60, schema.Governance: 70},
	"healthcare":    {schema.Environmental: 62, schema.Social: 72, schema.Governance: 73},
	DefaultIndustry: {schema.Environmental: 60, schema.Social: 65, schema.Governance: 70},
}

// Industries returns the known benchmark keys in sorted order.
func Industries() []string {
	keys := make([]string, 0, len(industryBenchmarks))
	for k := range industryBenchmarks {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ResolveIndustry normalizes an industry name and falls back to the default profile.
func ResolveIndustry(industry string) string {
	key := strings.ToLower(strings.TrimSpace(industry))
	if _, ok := industryBenchmarks[key]; ok {
		return key
	}
	return DefaultIndustry
}

// CompareBenchmark compares pillar scores with the industry reference. Missing pillars count as 0.
func CompareBenchmark(scores map[schema.PillarCode]float64, industry string) schema.BenchmarkComparison {
	key := ResolveIndustry(industry)
	bench := industryBenchmarks[key]

	res := schema.BenchmarkComparison{
		Industry:        key,
		Pillars:         make(map[schema.PillarCode]schema.PillarComparison, len(schema.AllPillars)),
		Recommendations: []string{},
	}

	var companyTotal, benchTotal float64
	for _, p := range schema.AllPillars {
		company := scores[p]
		reference := bench[p]
		delta := round2(company - reference)
		tier := TierFor(delta)

		res.Pillars[p] = schema.PillarComparison{
			Company:   company,
			Benchmark: reference,
			Delta:     delta,
			Tier:      tier,
		}
		if rec := recommendationFor(tier, p.Name(), delta); rec != "" {
			res.Recommendations = append(res.Recommendations, rec)
		}
		companyTotal += company * flatPillarWeight
		benchTotal += reference * flatPillarWeight
	}

	res.Totals = schema.ComparisonTotals{
		Company:    round2(companyTotal),
		Benchmark:  round2(benchTotal),
		Difference: round2(companyTotal - benchTotal),
	}
	return res
}

// TierFor maps a benchmark delta to a performance tier.
func TierFor(delta float64) schema.PerformanceTier {
	switch {
	case delta >= 10:
		return schema.TierOutstanding
	case delta >= 0:
		return schema.TierGood
	case delta >= -10:
		return schema.TierNeedsImprovement
	default:
		return schema.TierWeak
	}
}

func recommendationFor(tier schema.PerformanceTier, pillar string, delta float64) string {
	switch tier {
	case schema.TierOutstanding:
		return fmt.Sprintf("Maintain strength in %s (+%.1f vs industry)", pillar, delta)
	case schema.TierNeedsImprovement:
		return fmt.Sprintf("Strengthen %s practices (%.1f vs industry)", pillar, delta)
	case schema.TierWeak:
		return fmt.Sprintf("Urgent action needed on %s (%.1f vs industry)", pillar, delta)
	default:
		return ""
	}
}
