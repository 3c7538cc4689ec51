package scoring

import (
	"maps"

	"github.com/huangsam/greenscore/schema"
)

// ReportBuilder assembles a FinalReport from an aggregate and optional sections.
type ReportBuilder struct {
	agg       schema.AggregateResult
	sentiment *schema.SentimentResult
	benchmark *schema.BenchmarkComparison
	risk      *schema.RiskReport
	evidence  schema.EvidenceSet
	metadata  schema.Metadata
}

// NewReportBuilder starts a report from an aggregation result.
func NewReportBuilder(agg schema.AggregateResult) *ReportBuilder {
	return &ReportBuilder{agg: agg}
}

// WithSentiment attaches the sentiment section.
func (b *ReportBuilder) WithSentiment(s *schema.SentimentResult) *ReportBuilder {
	b.sentiment = s
	return b
}

// WithBenchmark attaches the benchmark section.
func (b *ReportBuilder) WithBenchmark(c *schema.BenchmarkComparison) *ReportBuilder {
	b.benchmark = c
	return b
}

// WithRisk attaches the risk section.
func (b *ReportBuilder) WithRisk(r *schema.RiskReport) *ReportBuilder {
	b.risk = r
	return b
}

// WithEvidence attaches extracted evidence. An empty set is omitted.
func (b *ReportBuilder) WithEvidence(e schema.EvidenceSet) *ReportBuilder {
	if len(e) > 0 {
		b.evidence = e
	}
	return b
}

// WithMetadata sets the report metadata.
func (b *ReportBuilder) WithMetadata(m schema.Metadata) *ReportBuilder {
	b.metadata = m
	return b
}

// Build returns the assembled report. Maps are copied so the report does not alias its inputs.
func (b *ReportBuilder) Build() schema.FinalReport {
	flags := b.agg.Flags.Clone()
	return schema.FinalReport{
		TotalScore:   b.agg.TotalScore,
		Rank:         b.agg.Rank,
		Badge:        b.agg.Rank.Badge(),
		PillarScores: maps.Clone(b.agg.PillarScores),
		RawScores:    maps.Clone(b.agg.RawScores),
		Flags:        flags,
		Insights:     maps.Clone(b.agg.Insights),
		Sentiment:    b.sentiment,
		Benchmark:    b.benchmark,
		Risk:         b.risk,
		Evidence:     maps.Clone(b.evidence),
		Metadata:     b.metadata,
	}
}
