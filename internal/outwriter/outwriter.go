// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/greenscore/core/scoring"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// ErrParquetUnsupported is returned when a result has no Parquet representation.
var ErrParquetUnsupported = errors.New("parquet output is only supported for evaluation reports")

// OutWriter provides a unified interface for all output operations.
type OutWriter struct {
	stdout io.Writer
}

// NewOutWriter creates a new instance of the output writer that prints to stdout.
func NewOutWriter() *OutWriter {
	return &OutWriter{stdout: os.Stdout}
}

// NewOutWriterTo creates an output writer that prints to w when no output file is set.
func NewOutWriterTo(w io.Writer) *OutWriter {
	return &OutWriter{stdout: w}
}

// renderers holds the per-format writers of one result type.
type renderers struct {
	data      any
	text      func(io.Writer) error
	csvHeader []string
	csvRows   func(*csv.Writer) error
	parquet   func(path string) error
}

// emit dispatches on the configured output format.
func (ow *OutWriter) emit(cfg *contract.Config, r renderers) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(ow.stdout, cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, r.data)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(ow.stdout, cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, r.data)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(ow.stdout, cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, r.csvHeader, r.csvRows)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if r.parquet == nil {
			return ErrParquetUnsupported
		}
		if cfg.OutputFile == "" {
			return errors.New("parquet output requires --output-file")
		}
		if err := r.parquet(cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(ow.stdout, cfg.OutputFile, r.text, "Wrote text")
	}
}

// WriteReport prints a single evaluation report.
func (ow *OutWriter) WriteReport(report schema.FinalReport, cfg *contract.Config) error {
	return ow.emit(cfg, reportRenderers(report, cfg))
}

// WriteLeaderboard prints ranked batch results. The reports back the Parquet output.
func (ow *OutWriter) WriteLeaderboard(entries []schema.LeaderboardEntry, reports []schema.FinalReport, cfg *contract.Config, duration time.Duration) error {
	return ow.emit(cfg, leaderboardRenderers(entries, reports, cfg, duration))
}

// WriteSentiment prints a sentiment result.
func (ow *OutWriter) WriteSentiment(result schema.SentimentResult, cfg *contract.Config) error {
	return ow.emit(cfg, sentimentRenderers(result, cfg))
}

// WriteBenchmark prints a benchmark comparison.
func (ow *OutWriter) WriteBenchmark(comparison schema.BenchmarkComparison, cfg *contract.Config) error {
	return ow.emit(cfg, benchmarkRenderers(comparison, cfg))
}

// WriteRisk prints a risk report.
func (ow *OutWriter) WriteRisk(report schema.RiskReport, cfg *contract.Config) error {
	return ow.emit(cfg, riskRenderers(report, cfg))
}

// WriteMetrics prints the active metric catalog and rank thresholds.
func (ow *OutWriter) WriteMetrics(catalog *scoring.Catalog, cfg *contract.Config) error {
	return ow.emit(cfg, metricsRenderers(catalog, cfg))
}

// WriteCheck prints the outcome of a gating check.
func (ow *OutWriter) WriteCheck(result schema.CheckResult, cfg *contract.Config) error {
	return ow.emit(cfg, checkRenderers(result, cfg))
}
