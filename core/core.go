// Package core has core logic for evaluation, analysis and gating.
package core

import (
	"context"
	"errors"
	"maps"

	"github.com/huangsam/greenscore/core/scoring"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/outwriter"
	"github.com/huangsam/greenscore/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteEvaluate runs the full evaluation pipeline and prints the report.
// Several scores files switch to a batch evaluation with a leaderboard.
func ExecuteEvaluate(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	switch len(cfg.ScoresFiles) {
	case 0:
	case 1:
		cfg.ScoresFile = cfg.ScoresFiles[0]
	default:
		return ExecuteEvaluateBatch(ctx, cfg, mgr, cfg.ScoresFiles)
	}

	report, err := NewEvaluationBuilder(ctx, cfg, mgr, Deps{}).Run()
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteReport(*report, cfg)
}

// ExecuteSentiment scores the text by pillar keywords.
func ExecuteSentiment(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	in, err := requireText(cfg)
	if err != nil {
		return err
	}
	result := scoring.AnalyzeSentiment(in.Combined(), cfg.SentimentMaxLength)
	return outwriter.NewOutWriter().WriteSentiment(result, cfg)
}

// ExecuteBenchmark compares pillar scores against the industry table.
func ExecuteBenchmark(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	scores, err := pillarScoresFor(cfg)
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		return errors.New("benchmark requires --scores or --scores-file. Example: greenscore benchmark --scores E:72,S:65,G:80 --industry technology")
	}
	comparison := scoring.CompareBenchmark(scores, industryFor(cfg))
	return outwriter.NewOutWriter().WriteBenchmark(comparison, cfg)
}

// ExecuteRisk scans the text for risk keywords, plus low pillar scores when given.
func ExecuteRisk(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	in, err := requireText(cfg)
	if err != nil {
		return err
	}
	scores, err := pillarScoresFor(cfg)
	if err != nil {
		return err
	}
	report := scoring.DetectRisks(in.Combined(), scores)
	return outwriter.NewOutWriter().WriteRisk(report, cfg)
}

// ExecuteMetrics prints the active metric catalog and the rank thresholds.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	return outwriter.NewOutWriter().WriteMetrics(catalogOf(cfg), cfg)
}

// pillarScoresFor returns inline --scores, or the pillar scores aggregated from a scores file.
func pillarScoresFor(cfg *contract.Config) (map[schema.PillarCode]float64, error) {
	if len(cfg.Scores) > 0 {
		return maps.Clone(cfg.Scores), nil
	}
	if cfg.ScoresFile == "" {
		return nil, nil
	}
	blob, err := readScoresBlob(cfg.ScoresFile)
	if err != nil {
		return nil, err
	}
	return scoring.AggregateBlob(catalogOf(cfg), blob).PillarScoreMap(), nil
}

// industryFor returns --industry, or the industry inferred from the company name.
func industryFor(cfg *contract.Config) string {
	if cfg.Industry != "" || cfg.Company == "" {
		return cfg.Industry
	}
	industry, _ := scoring.InferIndustry(cfg.Company)
	return industry
}
