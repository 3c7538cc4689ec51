package core

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/huangsam/greenscore/core/algo"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/outwriter"
	"github.com/huangsam/greenscore/schema"
)

// ExecuteEvaluateBatch aggregates several scores files in parallel and prints a leaderboard.
func ExecuteEvaluateBatch(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, files []string) error {
	start := time.Now()
	logBatchHeader(ctx, cfg, len(files))

	reports, err := evaluateFiles(ctx, cfg, mgr, files)
	if err != nil {
		return err
	}

	entries := leaderboardEntries(reports)
	ranked := algo.RankLeaderboard(entries, cfg.Limit)
	return outwriter.NewOutWriter().WriteLeaderboard(ranked, reports, cfg, time.Since(start))
}

// evaluateFiles builds one report per scores file. Results keep the input order.
func evaluateFiles(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, files []string) ([]schema.FinalReport, error) {
	reports := make([]schema.FinalReport, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fileStart := time.Now()
			blob, err := readScoresBlob(file)
			if err != nil {
				return err
			}
			report := BuildReport(cfg.Catalog, ReportInput{
				Blob:     blob,
				Company:  cfg.Company,
				Industry: cfg.Industry,
				Source:   file,
				Model:    "scores-file",
			})
			recordEvaluation(mgr, report, fileStart)
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// leaderboardEntries projects reports onto leaderboard rows.
func leaderboardEntries(reports []schema.FinalReport) []schema.LeaderboardEntry {
	entries := make([]schema.LeaderboardEntry, 0, len(reports))
	for _, r := range reports {
		entries = append(entries, schema.LeaderboardEntry{
			Source:     r.Metadata.Source,
			TotalScore: r.TotalScore,
			Rank:       r.Rank,
			Pillars:    r.PillarScoreMap(),
			Flags:      r.Flags.Len(),
		})
	}
	return entries
}
