package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/greenscore/core/scoring"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// metricsRenderModel is the printable form of a catalog.
type metricsRenderModel struct {
	Title      string                 `json:"title" yaml:"title"`
	Pillars    []pillarRenderModel    `json:"pillars" yaml:"pillars"`
	Thresholds map[schema.Rank]string `json:"thresholds" yaml:"thresholds"`
	Penalty    float64                `json:"mandatory_penalty" yaml:"mandatory_penalty"`
}

type pillarRenderModel struct {
	schema.Pillar `yaml:",inline"`
	Metrics       []schema.Metric `json:"metrics" yaml:"metrics"`
}

func buildMetricsRenderModel(catalog *scoring.Catalog) metricsRenderModel {
	model := metricsRenderModel{
		Title: "GreenScore Metric Catalog",
		Thresholds: map[schema.Rank]string{
			schema.RankGold:     fmt.Sprintf(">= %g and no missing mandatory metric", schema.GoldThreshold),
			schema.RankSilver:   fmt.Sprintf(">= %g", schema.SilverThreshold),
			schema.RankBronze:   fmt.Sprintf(">= %g", schema.BronzeThreshold),
			schema.RankUnranked: fmt.Sprintf("< %g", schema.BronzeThreshold),
		},
		Penalty: schema.MandatoryPenalty,
	}
	for _, p := range catalog.Pillars() {
		model.Pillars = append(model.Pillars, pillarRenderModel{Pillar: p, Metrics: catalog.MetricsOf(p.Code)})
	}
	return model
}

func metricsRenderers(catalog *scoring.Catalog, cfg *contract.Config) renderers {
	if catalog == nil {
		catalog = scoring.DefaultCatalog()
	}
	model := buildMetricsRenderModel(catalog)
	return renderers{
		data: model,
		text: func(w io.Writer) error {
			if _, err := fmt.Fprintf(w, "🌿 %s\n\n", model.Title); err != nil {
				return err
			}
			var rows [][]string
			for _, p := range model.Pillars {
				for _, m := range p.Metrics {
					mandatory := ""
					if m.Mandatory {
						mandatory = "yes"
					}
					rows = append(rows, []string{
						fmt.Sprintf("%s (%.2f)", p.Name, p.Weight),
						m.Code,
						m.Name,
						strconv.FormatFloat(m.Weight, 'f', 2, 64),
						mandatory,
					})
				}
			}
			if err := renderTable(w, []string{"Pillar", "Code", "Metric", "Weight", "Mandatory"}, rows); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "\nPillar score = sum(score x weight) / sum(weight of scored metrics), x%.1f when a mandatory metric is missing\n", model.Penalty); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, "Ranks:"); err != nil {
				return err
			}
			for _, r := range schema.AllRanks {
				if _, err := fmt.Fprintf(w, "  %s %s\n", contract.GetRankLabel(r, cfg.UseColors), model.Thresholds[r]); err != nil {
					return err
				}
			}
			return nil
		},
		csvHeader: []string{"pillar", "pillar_weight", "code", "name", "weight", "mandatory"},
		csvRows: func(w *csv.Writer) error {
			for _, p := range model.Pillars {
				for _, m := range p.Metrics {
					rec := []string{
						string(p.Code),
						strconv.FormatFloat(p.Weight, 'f', -1, 64),
						m.Code,
						m.Name,
						strconv.FormatFloat(m.Weight, 'f', -1, 64),
						strconv.FormatBool(m.Mandatory),
					}
					if err := w.Write(rec); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}

func checkRenderers(result schema.CheckResult, cfg *contract.Config) renderers {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return renderers{
		data: result,
		text: func(w io.Writer) error {
			status := "✅ PASS"
			if !result.Passed {
				status = "❌ FAIL"
			}
			if _, err := fmt.Fprintf(w, "%s: total %s, rank %s (requires %s, min score %s)\n", status,
				fmtFloat(result.TotalScore), contract.GetRankLabel(result.Rank, cfg.UseColors),
				result.MinRank, fmtFloat(result.MinScore)); err != nil {
				return err
			}
			return writeBullets(w, result.Violations)
		},
		csvHeader: []string{"passed", "total_score", "rank", "min_rank", "min_score", "violations"},
		csvRows: func(w *csv.Writer) error {
			violations := ""
			for i, v := range result.Violations {
				if i > 0 {
					violations += "|"
				}
				violations += v
			}
			return w.Write([]string{
				strconv.FormatBool(result.Passed),
				fmtFloat(result.TotalScore),
				string(result.Rank),
				string(result.MinRank),
				fmtFloat(result.MinScore),
				violations,
			})
		},
	}
}
