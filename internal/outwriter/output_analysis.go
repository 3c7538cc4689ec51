package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

func sentimentRenderers(result schema.SentimentResult, cfg *contract.Config) renderers {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	return renderers{
		data: result,
		text: func(w io.Writer) error {
			rows := make([][]string, 0, len(schema.AllPillars))
			for _, p := range schema.AllPillars {
				ps := result.Pillars[p]
				rows = append(rows, []string{
					string(p),
					strconv.FormatFloat(ps.Sentiment, 'f', 3, 64),
					fmtFloat(ps.Confidence),
					intFmt(ps.PositiveMentions),
					intFmt(ps.NegativeMentions),
					contract.GetSentimentLabel(ps.Label, cfg.UseColors),
				})
			}
			if err := renderTable(w, []string{"Pillar", "Sentiment", "Confidence", "Positive", "Negative", "Label"}, rows); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "Overall: %s (confidence %s), analyzed %d of %d characters\n",
				contract.GetSentimentLabel(result.Overall, cfg.UseColors), fmtFloat(result.Confidence),
				result.AnalyzedLength, result.TextLength); err != nil {
				return err
			}
			return writeBullets(w, result.Findings)
		},
		csvHeader: []string{"pillar", "sentiment", "confidence", "positive_mentions", "negative_mentions", "label"},
		csvRows: func(w *csv.Writer) error {
			for _, p := range schema.AllPillars {
				ps := result.Pillars[p]
				rec := []string{
					string(p),
					strconv.FormatFloat(ps.Sentiment, 'f', -1, 64),
					fmtFloat(ps.Confidence),
					intFmt(ps.PositiveMentions),
					intFmt(ps.NegativeMentions),
					string(ps.Label),
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func benchmarkRenderers(cmp schema.BenchmarkComparison, cfg *contract.Config) renderers {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return renderers{
		data: cmp,
		text: func(w io.Writer) error {
			rows := make([][]string, 0, len(schema.AllPillars))
			for _, p := range schema.AllPillars {
				pc := cmp.Pillars[p]
				rows = append(rows, []string{
					string(p),
					fmtFloat(pc.Company),
					fmtFloat(pc.Benchmark),
					fmtSigned(pc.Delta, cfg.Precision),
					contract.GetTierLabel(pc.Tier, cfg.UseColors),
				})
			}
			if _, err := fmt.Fprintf(w, "Industry: %s\n", cmp.Industry); err != nil {
				return err
			}
			if err := renderTable(w, []string{"Pillar", "Company", "Benchmark", "Delta", "Performance"}, rows); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "Overall: company %s vs industry %s (%s)\n",
				fmtFloat(cmp.Totals.Company), fmtFloat(cmp.Totals.Benchmark), fmtSigned(cmp.Totals.Difference, cfg.Precision)); err != nil {
				return err
			}
			return writeBullets(w, cmp.Recommendations)
		},
		csvHeader: []string{"industry", "pillar", "company_score", "industry_benchmark", "difference", "performance"},
		csvRows: func(w *csv.Writer) error {
			for _, p := range schema.AllPillars {
				pc := cmp.Pillars[p]
				rec := []string{cmp.Industry, string(p), fmtFloat(pc.Company), fmtFloat(pc.Benchmark), fmtFloat(pc.Delta), string(pc.Tier)}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// riskRow flattens a finding for table and CSV output.
func riskRow(severity string, f schema.RiskFinding) []string {
	if f.Type == "" {
		return []string{severity, "keyword", strings.Join(f.KeywordsFound, "|"), strconv.Itoa(f.Count)}
	}
	return []string{severity, f.Type, f.Message, strconv.FormatFloat(f.Score, 'f', -1, 64)}
}

func riskRows(report schema.RiskReport) [][]string {
	var rows [][]string
	for _, f := range report.HighRisks {
		rows = append(rows, riskRow("high", f))
	}
	for _, f := range report.MediumRisks {
		rows = append(rows, riskRow("medium", f))
	}
	for _, f := range report.LowRisks {
		rows = append(rows, riskRow("low", f))
	}
	return rows
}

func riskRenderers(report schema.RiskReport, cfg *contract.Config) renderers {
	return renderers{
		data: report,
		text: func(w io.Writer) error {
			if _, err := fmt.Fprintf(w, "Risk Level: %s (score %d)\n", contract.GetRiskLabel(report.Level, cfg.UseColors), report.RiskScore); err != nil {
				return err
			}
			if rows := riskRows(report); len(rows) > 0 {
				if err := renderTable(w, []string{"Severity", "Type", "Detail", "Value"}, rows); err != nil {
					return err
				}
			}
			return writeBullets(w, report.PriorityActions)
		},
		csvHeader: []string{"severity", "type", "detail", "value"},
		csvRows: func(w *csv.Writer) error {
			for _, rec := range riskRows(report) {
				if err := w.Write(rec); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func writeBullets(w io.Writer, items []string) error {
	for _, item := range items {
		if _, err := fmt.Fprintf(w, "  - %s\n", item); err != nil {
			return err
		}
	}
	return nil
}
