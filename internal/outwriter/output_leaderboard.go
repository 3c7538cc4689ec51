package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/parquet"
	"github.com/huangsam/greenscore/schema"
)

func leaderboardRenderers(entries []schema.LeaderboardEntry, reports []schema.FinalReport, cfg *contract.Config, duration time.Duration) renderers {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	return renderers{
		data: entries,
		text: func(w io.Writer) error {
			return writeLeaderboardTable(w, entries, cfg, duration)
		},
		csvHeader: []string{"position", "source", "total_score", "rank", "e", "s", "g", "flags"},
		csvRows: func(w *csv.Writer) error {
			for _, e := range entries {
				rec := []string{
					intFmt(e.Position),
					e.Source,
					fmtFloat(e.TotalScore),
					string(e.Rank),
					fmtFloat(e.Pillars[schema.Environmental]),
					fmtFloat(e.Pillars[schema.Social]),
					fmtFloat(e.Pillars[schema.Governance]),
					intFmt(e.Flags),
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			return nil
		},
		parquet: func(path string) error {
			return parquet.WriteReportsParquet(parquet.ConvertReports(reports), path)
		},
	}
}

// writeLeaderboardTable renders the ranked batch results.
func writeLeaderboardTable(w io.Writer, entries []schema.LeaderboardEntry, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	sourceWidth := GetMaxTableSourceWidth(cfg)

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Position),
			contract.TruncatePath(e.Source, sourceWidth),
			fmtFloat(e.TotalScore),
			contract.GetRankLabel(e.Rank, cfg.UseColors),
			fmtFloat(e.Pillars[schema.Environmental]),
			fmtFloat(e.Pillars[schema.Social]),
			fmtFloat(e.Pillars[schema.Governance]),
			strconv.Itoa(e.Flags),
		})
	}
	if err := renderTable(w, []string{"#", "Source", "Total", "Rank", "E", "S", "G", "Flags"}, rows); err != nil {
		return err
	}

	counts := make(map[schema.Rank]int)
	for _, e := range entries {
		counts[e.Rank]++
	}
	if _, err := fmt.Fprintf(w, "Showing %d evaluations (GOLD: %d, SILVER: %d, BRONZE: %d, UNRANKED: %d)\n",
		len(entries), counts[schema.RankGold], counts[schema.RankSilver], counts[schema.RankBronze], counts[schema.RankUnranked]); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Scored in %v with %d workers\n", duration.Round(time.Millisecond), cfg.Workers)
	return err
}
