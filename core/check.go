package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/outwriter"
	"github.com/huangsam/greenscore/schema"
)

// ErrCheckFailed is returned when a report does not meet the gating thresholds.
var ErrCheckFailed = errors.New("check failed")

// ExecuteCheck runs the check command for CI/CD gating.
// It evaluates a single input and returns ErrCheckFailed when the rank or total
// falls below the configured minimums.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if len(cfg.ScoresFiles) > 0 && cfg.ScoresFile == "" {
		cfg.ScoresFile = cfg.ScoresFiles[0]
	}

	report, err := NewEvaluationBuilder(ctx, cfg, mgr, Deps{}).Run()
	if err != nil {
		return err
	}

	result := CheckReport(*report, cfg.MinRank, cfg.MinScore)
	if err := outwriter.NewOutWriter().WriteCheck(result, cfg); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%w: %d violation(s) found", ErrCheckFailed, len(result.Violations))
	}
	return nil
}

// CheckReport compares a report against a minimum rank and a minimum total score.
// An empty minRank or a zero minScore disables that gate.
func CheckReport(report schema.FinalReport, minRank schema.Rank, minScore float64) schema.CheckResult {
	result := schema.CheckResult{
		TotalScore: report.TotalScore,
		Rank:       report.Rank,
		MinRank:    minRank,
		MinScore:   minScore,
		Violations: []string{},
	}

	if minRank != "" && !report.Rank.AtLeast(minRank) {
		result.Violations = append(result.Violations,
			fmt.Sprintf("rank %s is below required %s", report.Rank, minRank))
	}
	if minScore > 0 && report.TotalScore < minScore {
		result.Violations = append(result.Violations,
			fmt.Sprintf("total score %.2f is below required %.2f", report.TotalScore, minScore))
	}
	result.Passed = len(result.Violations) == 0
	return result
}
