// Package parquet provides data structures and functions for exporting greenscore
// evaluations to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/greenscore/schema"
)

// Evaluation maps to the greenscore_evaluations table.
type Evaluation struct {
	EvaluationID int64      `parquet:"evaluation_id,snappy"`
	UUID         string     `parquet:"evaluation_uuid,snappy"`
	Company      string     `parquet:"company,snappy"`
	Industry     string     `parquet:"industry,snappy"`
	Source       string     `parquet:"source,snappy"`
	Model        string     `parquet:"model,snappy"`
	StartTime    time.Time  `parquet:"start_time,snappy"`
	EndTime      *time.Time `parquet:"end_time,optional,snappy"`
	RunTimeMs    *int64     `parquet:"run_time_ms,optional,snappy"`
	TotalScore   *float64   `parquet:"total_score,optional,snappy"`
	Rank         *string    `parquet:"score_rank,optional,snappy"`
	FlagCount    *int32     `parquet:"flag_count,optional,snappy"`
}

// PillarScore maps to the greenscore_pillar_scores table.
type PillarScore struct {
	EvaluationID     int64    `parquet:"evaluation_id,snappy"`
	Pillar           string   `parquet:"pillar,snappy"`
	Score            float64  `parquet:"score,snappy"`
	MandatoryMissing bool     `parquet:"mandatory_missing,snappy"`
	Benchmark        *float64 `parquet:"benchmark,optional,snappy"`
	Delta            *float64 `parquet:"delta,optional,snappy"`
	Sentiment        *float64 `parquet:"sentiment,optional,snappy"`
}

// ReportRow is the flattened form of a final report, one row per evaluated source.
type ReportRow struct {
	EvaluationID string    `parquet:"evaluation_id,snappy"`
	Timestamp    time.Time `parquet:"timestamp,snappy"`
	Source       string    `parquet:"source,snappy"`
	Company      string    `parquet:"company,snappy"`
	Industry     string    `parquet:"industry,snappy"`
	Model        string    `parquet:"model,snappy"`
	TotalScore   float64   `parquet:"total_score,snappy"`
	Rank         string    `parquet:"score_rank,snappy"`
	Badge        string    `parquet:"badge,snappy"`
	Environment  float64   `parquet:"score_e,snappy"`
	Social       float64   `parquet:"score_s,snappy"`
	Governance   float64   `parquet:"score_g,snappy"`
	Flags        string    `parquet:"flags,snappy"`
	RiskLevel    *string   `parquet:"risk_level,optional,snappy"`
	Sentiment    *string   `parquet:"sentiment,optional,snappy"`
}

// writeRows writes a slice of rows to a Parquet file, inferring the schema from T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteEvaluationsParquet writes evaluation rows to a Parquet file.
func WriteEvaluationsParquet(data []Evaluation, outputPath string) error {
	return writeRows(data, outputPath)
}

// WritePillarScoresParquet writes pillar score rows to a Parquet file.
func WritePillarScoresParquet(data []PillarScore, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteReportsParquet writes flattened reports to a Parquet file.
func WriteReportsParquet(data []ReportRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertEvaluationRecords converts history rows for Parquet export.
func ConvertEvaluationRecords(records []schema.EvaluationRecord) []Evaluation {
	result := make([]Evaluation, len(records))
	for i, r := range records {
		result[i] = Evaluation{
			EvaluationID: r.ID,
			UUID:         r.UUID,
			Company:      r.Company,
			Industry:     r.Industry,
			Source:       r.Source,
			Model:        r.Model,
			StartTime:    r.StartTime,
			EndTime:      r.EndTime,
			RunTimeMs:    r.RunTimeMs,
			TotalScore:   r.TotalScore,
			Rank:         r.Rank,
			FlagCount:    r.FlagCount,
		}
	}
	return result
}

// ConvertPillarScoreRecords converts pillar history rows for Parquet export.
func ConvertPillarScoreRecords(records []schema.PillarScoreRecord) []PillarScore {
	result := make([]PillarScore, len(records))
	for i, r := range records {
		result[i] = PillarScore{
			EvaluationID:     r.EvaluationID,
			Pillar:           r.Pillar,
			Score:            r.Score,
			MandatoryMissing: r.MandatoryMissing,
			Benchmark:        r.Benchmark,
			Delta:            r.Delta,
			Sentiment:        r.Sentiment,
		}
	}
	return result
}

// ConvertReports flattens final reports into Parquet rows.
func ConvertReports(reports []schema.FinalReport) []ReportRow {
	result := make([]ReportRow, len(reports))
	for i, r := range reports {
		row := ReportRow{
			TotalScore:  r.TotalScore,
			Rank:        string(r.Rank),
			Badge:       r.Badge,
			Environment: r.PillarScores[schema.Environmental].Score,
			Social:      r.PillarScores[schema.Social].Score,
			Governance:  r.PillarScores[schema.Governance].Score,
			Flags:       strings.Join(r.Flags.Sorted(), "; "),

			EvaluationID: r.Metadata.EvaluationID,
			Timestamp:    r.Metadata.Timestamp,
			Source:       r.Metadata.Source,
			Company:      r.Metadata.Company,
			Industry:     r.Metadata.Industry,
			Model:        r.Metadata.Model,
		}
		if r.Risk != nil {
			level := string(r.Risk.Level)
			row.RiskLevel = &level
		}
		if r.Sentiment != nil {
			overall := string(r.Sentiment.Overall)
			row.Sentiment = &overall
		}
		result[i] = row
	}
	return result
}
