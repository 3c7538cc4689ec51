package scoring

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/greenscore/schema"
)

// TestReportBuilder tests assembling every section into a report.
func TestReportBuilder(t *testing.T) {
	agg := AggregateBlob(DefaultCatalog(), `{"scores":{"E1":90,"S1":60,"G2":100},"insights":{"G":"clean audit"}}`)
	text := "Solar expansion and a bribery investigation. Emitted 300 tons CO2."
	sent := AnalyzeSentiment(text, 0)
	bench := CompareBenchmark(agg.PillarScoreMap(), "energy")
	risk := DetectRisks(text, agg.PillarScoreMap())
	meta := schema.Metadata{EvaluationID: "abc", Timestamp: time.Unix(0, 0).UTC(), Company: "Acme"}

	report := NewReportBuilder(agg).
		WithSentiment(&sent).
		WithBenchmark(&bench).
		WithRisk(&risk).
		WithEvidence(ExtractEvidence(text)).
		WithMetadata(meta).
		Build()

	assert.Equal(t, schema.RankGold, report.Rank)
	assert.Equal(t, "GREENSCORE_GOLD", report.Badge)
	assert.InDelta(t, 82.5, report.TotalScore, 0.001)
	assert.Equal(t, "clean audit", report.Insights[schema.Governance])
	assert.Equal(t, []string{"300"}, report.Evidence["emissions"])
	assert.Equal(t, "energy", report.Benchmark.Industry)
	assert.Equal(t, 6, report.Risk.RiskScore)
	assert.Equal(t, meta, report.Metadata)

	// The report must not alias the aggregate.
	report.PillarScores[schema.Environmental] = schema.PillarResult{Score: 1}
	report.Flags.Add("later")
	assert.InDelta(t, 90.0, agg.PillarScores[schema.Environmental].Score, 0.001)
	assert.False(t, agg.Flags.Has("later"))
}

// TestReportBuilderOmitsOptionalSections tests JSON output without optional sections.
func TestReportBuilderOmitsOptionalSections(t *testing.T) {
	report := NewReportBuilder(Aggregate(DefaultCatalog(), schema.RawScoreSet{}, nil)).
		WithEvidence(schema.EvidenceSet{}).
		Build()

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"sentiment", "benchmark", "risk", "evidence"} {
		assert.NotContains(t, decoded, key)
	}
	assert.Equal(t, "UNRANKED", decoded["rank"])
	assert.Len(t, decoded["flags"], 2)
}
