package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/parquet"
)

// ExportHistory writes the evaluation history to two Parquet files derived from outputFile.
func ExportHistory(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized. Set --history-backend to enable tracking")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalEvaluations == 0 {
		return errors.New("no evaluation history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)

	evaluations, err := store.GetAllEvaluations()
	if err != nil {
		return fmt.Errorf("failed to retrieve evaluations: %w", err)
	}
	pillarScores, err := store.GetAllPillarScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve pillar scores: %w", err)
	}

	evaluationsFile := outputFile + ".evaluations.parquet"
	if err := parquet.WriteEvaluationsParquet(parquet.ConvertEvaluationRecords(evaluations), evaluationsFile); err != nil {
		return fmt.Errorf("failed to write evaluations: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d evaluations to: %s\n", len(evaluations), evaluationsFile)

	pillarsFile := outputFile + ".pillar_scores.parquet"
	if err := parquet.WritePillarScoresParquet(parquet.ConvertPillarScoreRecords(pillarScores), pillarsFile); err != nil {
		return fmt.Errorf("failed to write pillar scores: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d pillar scores to: %s\n", len(pillarScores), pillarsFile)

	return nil
}
