package core

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/huangsam/greenscore/core/scoring"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// ReportInput is everything needed to turn an evaluator blob into a report.
type ReportInput struct {
	Blob               string
	Text               string
	Company            string
	Industry           string
	Source             string
	Model              string
	SentimentMaxLength int
}

// BuildReport aggregates the blob and runs the keyword modules over the text.
// Sentiment and evidence are attached only when there is text to read.
func BuildReport(cat *scoring.Catalog, in ReportInput) schema.FinalReport {
	if cat == nil {
		cat = scoring.DefaultCatalog()
	}
	agg := scoring.AggregateBlob(cat, in.Blob)
	pillarScores := agg.PillarScoreMap()

	industry := in.Industry
	if industry == "" && in.Company != "" {
		industry, _ = scoring.InferIndustry(in.Company)
	}
	benchmark := scoring.CompareBenchmark(pillarScores, industry)
	risk := scoring.DetectRisks(in.Text, pillarScores)

	builder := scoring.NewReportBuilder(agg).
		WithBenchmark(&benchmark).
		WithRisk(&risk)

	if strings.TrimSpace(in.Text) != "" {
		sentiment := scoring.AnalyzeSentiment(in.Text, in.SentimentMaxLength)
		builder.WithSentiment(&sentiment).
			WithEvidence(scoring.ExtractEvidence(in.Text))
	}

	return builder.WithMetadata(schema.Metadata{
		EvaluationID: uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Source:       in.Source,
		Company:      in.Company,
		Industry:     benchmark.Industry,
		Model:        in.Model,
	}).Build()
}

// EvaluateBlob builds a report from an evaluator blob and records it in history.
func EvaluateBlob(cfg *contract.Config, mgr contract.CacheManager, in ReportInput) schema.FinalReport {
	start := time.Now()
	if in.SentimentMaxLength == 0 {
		in.SentimentMaxLength = cfg.SentimentMaxLength
	}
	report := BuildReport(cfg.Catalog, in)
	recordEvaluation(mgr, report, start)
	return report
}

// catalogOf returns the configured catalog, or the default one.
func catalogOf(cfg *contract.Config) *scoring.Catalog {
	if cfg.Catalog != nil {
		return cfg.Catalog
	}
	return scoring.DefaultCatalog()
}

// pillarRecords flattens a report into history rows.
func pillarRecords(evaluationID int64, report schema.FinalReport) []schema.PillarScoreRecord {
	records := make([]schema.PillarScoreRecord, 0, len(schema.AllPillars))
	for _, p := range schema.AllPillars {
		result := report.PillarScores[p]
		rec := schema.PillarScoreRecord{
			EvaluationID:     evaluationID,
			Pillar:           string(p),
			Score:            result.Score,
			MandatoryMissing: result.MandatoryMissing,
		}
		if report.Benchmark != nil {
			if cmp, ok := report.Benchmark.Pillars[p]; ok {
				rec.Benchmark = &cmp.Benchmark
				rec.Delta = &cmp.Delta
			}
		}
		if report.Sentiment != nil {
			if ps, ok := report.Sentiment.Pillars[p]; ok {
				rec.Sentiment = &ps.Sentiment
			}
		}
		records = append(records, rec)
	}
	return records
}

// recordEvaluation stores a finished report in the history store, if one is configured.
// Failures are reported as warnings and never fail the evaluation.
func recordEvaluation(mgr contract.CacheManager, report schema.FinalReport, start time.Time) {
	if mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}

	m := report.Metadata
	evaluationID, err := store.BeginEvaluation(schema.EvaluationRun{
		UUID:      m.EvaluationID,
		Company:   m.Company,
		Industry:  m.Industry,
		Source:    m.Source,
		Model:     m.Model,
		StartTime: start,
	})
	if err != nil {
		contract.LogWarn("History tracking initialization failed", err)
		return
	}
	if evaluationID <= 0 {
		return
	}

	if err := store.RecordPillarScores(evaluationID, pillarRecords(evaluationID, report)); err != nil {
		contract.LogWarn("Failed to record pillar scores", err)
	}
	if err := store.EndEvaluation(evaluationID, time.Now(), report.TotalScore, report.Rank, report.Flags.Len()); err != nil {
		contract.LogWarn("Failed to finalize history tracking", err)
	}
}
