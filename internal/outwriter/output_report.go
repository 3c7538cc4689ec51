package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/parquet"
	"github.com/huangsam/greenscore/schema"
)

var reportCSVHeader = []string{
	"source", "company", "industry", "pillar", "score", "mandatory_missing",
	"benchmark", "delta", "tier", "sentiment", "total_score", "rank",
}

func reportRenderers(report schema.FinalReport, cfg *contract.Config) renderers {
	return renderers{
		data: report,
		text: func(w io.Writer) error {
			return writeReportText(w, report, cfg)
		},
		csvHeader: reportCSVHeader,
		csvRows: func(w *csv.Writer) error {
			return writeReportCSVRows(w, report, cfg)
		},
		parquet: func(path string) error {
			return parquet.WriteReportsParquet(parquet.ConvertReports([]schema.FinalReport{report}), path)
		},
	}
}

// writeReportCSVRows writes one row per pillar so the report stays flat.
func writeReportCSVRows(w *csv.Writer, report schema.FinalReport, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	for _, p := range schema.AllPillars {
		result := report.PillarScores[p]
		var benchmark, delta, tier, sentiment string
		if report.Benchmark != nil {
			if cmp, ok := report.Benchmark.Pillars[p]; ok {
				benchmark = fmtFloat(cmp.Benchmark)
				delta = fmtFloat(cmp.Delta)
				tier = string(cmp.Tier)
			}
		}
		if report.Sentiment != nil {
			if ps, ok := report.Sentiment.Pillars[p]; ok {
				sentiment = string(ps.Label)
			}
		}
		rec := []string{
			report.Metadata.Source,
			report.Metadata.Company,
			report.Metadata.Industry,
			string(p),
			fmtFloat(result.Score),
			fmt.Sprintf("%t", result.MandatoryMissing),
			benchmark,
			delta,
			tier,
			sentiment,
			fmtFloat(report.TotalScore),
			string(report.Rank),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeReportText renders the human-readable report.
func writeReportText(w io.Writer, report schema.FinalReport, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	catalog := cfg.Catalog

	title := "🌿 GreenScore Report"
	if report.Metadata.Company != "" {
		title += ": " + report.Metadata.Company
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("=", len([]rune(title)))); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total Score: %s  Rank: %s  Badge: %s\n\n",
		fmtFloat(report.TotalScore), contract.GetRankLabel(report.Rank, cfg.UseColors), report.Badge); err != nil {
		return err
	}

	header := []string{"Pillar", "Name", "Weight", "Score", "Mandatory"}
	if report.Benchmark != nil {
		header = append(header, "Benchmark", "Delta", "Tier")
	}
	if report.Sentiment != nil {
		header = append(header, "Sentiment")
	}

	var rows [][]string
	for _, p := range schema.AllPillars {
		result := report.PillarScores[p]
		name, weight := string(p), 0.0
		if catalog != nil {
			if pillar, ok := catalog.Pillar(p); ok {
				name, weight = pillar.Name, pillar.Weight
			}
		}
		mandatory := "ok"
		if result.MandatoryMissing {
			mandatory = "missing"
		}
		row := []string{string(p), name, fmt.Sprintf("%.2f", weight), fmtFloat(result.Score), mandatory}
		if report.Benchmark != nil {
			cmp := report.Benchmark.Pillars[p]
			row = append(row, fmtFloat(cmp.Benchmark), fmtSigned(cmp.Delta, cfg.Precision), contract.GetTierLabel(cmp.Tier, cfg.UseColors))
		}
		if report.Sentiment != nil {
			row = append(row, contract.GetSentimentLabel(report.Sentiment.Pillars[p].Label, cfg.UseColors))
		}
		rows = append(rows, row)
	}
	if err := renderTable(w, header, rows); err != nil {
		return err
	}

	if report.Flags.Len() > 0 {
		if _, err := fmt.Fprintln(w, "\n🚩 Flags"); err != nil {
			return err
		}
		for _, flag := range report.Flags.Sorted() {
			if _, err := fmt.Fprintf(w, "  - %s\n", flag); err != nil {
				return err
			}
		}
	}

	if len(report.Insights) > 0 {
		if _, err := fmt.Fprintln(w, "\n💡 Insights"); err != nil {
			return err
		}
		for _, p := range schema.AllPillars {
			if insight, ok := report.Insights[p]; ok && insight != "" {
				if _, err := fmt.Fprintf(w, "  %s: %s\n", p, insight); err != nil {
					return err
				}
			}
		}
	}

	if b := report.Benchmark; b != nil {
		if _, err := fmt.Fprintf(w, "\n📊 Benchmark (%s): company %s vs industry %s (%s)\n",
			b.Industry, fmtFloat(b.Totals.Company), fmtFloat(b.Totals.Benchmark), fmtSigned(b.Totals.Difference, cfg.Precision)); err != nil {
			return err
		}
		for _, rec := range b.Recommendations {
			if _, err := fmt.Fprintf(w, "  - %s\n", rec); err != nil {
				return err
			}
		}
	}

	if r := report.Risk; r != nil {
		if _, err := fmt.Fprintf(w, "\n⚠️  Risk: %s (score %d)\n", contract.GetRiskLabel(r.Level, cfg.UseColors), r.RiskScore); err != nil {
			return err
		}
		for _, action := range r.PriorityActions {
			if _, err := fmt.Fprintf(w, "  - %s\n", action); err != nil {
				return err
			}
		}
	}

	if s := report.Sentiment; s != nil && len(s.Findings) > 0 {
		if _, err := fmt.Fprintf(w, "\n🗞  Sentiment: %s (confidence %s)\n", contract.GetSentimentLabel(s.Overall, cfg.UseColors), fmtFloat(s.Confidence)); err != nil {
			return err
		}
		for _, finding := range s.Findings {
			if _, err := fmt.Fprintf(w, "  - %s\n", finding); err != nil {
				return err
			}
		}
	}

	if len(report.Evidence) > 0 {
		if _, err := fmt.Fprintln(w, "\n🔎 Evidence"); err != nil {
			return err
		}
		for _, category := range slices.Sorted(maps.Keys(report.Evidence)) {
			if _, err := fmt.Fprintf(w, "  %s: %s\n", category, strings.Join(report.Evidence[category], ", ")); err != nil {
				return err
			}
		}
	}

	m := report.Metadata
	footer := fmt.Sprintf("\nEvaluation %s at %s", m.EvaluationID, m.Timestamp.Format(contract.DateTimeFormat))
	if m.Source != "" {
		footer += " from " + m.Source
	}
	if m.Model != "" {
		footer += " using " + m.Model
	}
	_, err := fmt.Fprintln(w, footer)
	return err
}
