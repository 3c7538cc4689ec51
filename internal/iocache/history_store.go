package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// Table names for evaluation history.
const (
	evaluationsTable  = "greenscore_evaluations"
	pillarScoresTable = "greenscore_pillar_scores"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := applySchema(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

func (hs *HistoryStoreImpl) table(name string) string {
	return quoteTableName(name, hs.backend)
}

// BeginEvaluation creates a new evaluation row and returns its ID.
func (hs *HistoryStoreImpl) BeginEvaluation(run schema.EvaluationRun) (int64, error) {
	if hs.db == nil {
		return 0, nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (evaluation_uuid, company, industry, source, model, start_time) VALUES (?, ?, ?, ?, ?, ?)`,
		hs.table(evaluationsTable))
	args := []any{run.UUID, run.Company, run.Industry, run.Source, run.Model, formatTime(run.StartTime, hs.backend)}

	var id int64
	if hs.backend == schema.PostgreSQLBackend {
		query = rebind(query+" RETURNING evaluation_id", hs.backend)
		if err := hs.db.QueryRow(query, args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to insert evaluation: %w", err)
		}
		return id, nil
	}

	result, err := hs.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert evaluation: %w", err)
	}
	if id, err = result.LastInsertId(); err != nil {
		return 0, fmt.Errorf("failed to read evaluation id: %w", err)
	}
	return id, nil
}

// EndEvaluation updates the evaluation with completion data.
func (hs *HistoryStoreImpl) EndEvaluation(evaluationID int64, endTime time.Time, totalScore float64, rank schema.Rank, flagCount int) error {
	if hs.db == nil {
		return nil
	}

	row := hs.db.QueryRow(rebind(fmt.Sprintf(`SELECT start_time FROM %s WHERE evaluation_id = ?`, hs.table(evaluationsTable)), hs.backend), evaluationID)
	startTime, err := hs.scanTime(row)
	if err != nil {
		return fmt.Errorf("failed to get start_time for evaluation %d: %w", evaluationID, err)
	}

	query := rebind(fmt.Sprintf(`UPDATE %s SET end_time = ?, run_time_ms = ?, total_score = ?, score_rank = ?, flag_count = ? WHERE evaluation_id = ?`,
		hs.table(evaluationsTable)), hs.backend)
	_, err = hs.db.Exec(query,
		formatTime(endTime, hs.backend), endTime.Sub(startTime).Milliseconds(), totalScore, string(rank), flagCount, evaluationID)
	if err != nil {
		return fmt.Errorf("failed to update evaluation: %w", err)
	}
	return nil
}

// RecordPillarScores stores the per-pillar results of an evaluation in one transaction.
func (hs *HistoryStoreImpl) RecordPillarScores(evaluationID int64, records []schema.PillarScoreRecord) error {
	if hs.db == nil || len(records) == 0 {
		return nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := rebind(fmt.Sprintf(`INSERT INTO %s (evaluation_id, pillar, score, mandatory_missing, benchmark, delta, sentiment) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		hs.table(pillarScoresTable)), hs.backend)
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare pillar insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.Exec(evaluationID, r.Pillar, r.Score, r.MandatoryMissing, r.Benchmark, r.Delta, r.Sentiment); err != nil {
			return fmt.Errorf("failed to insert pillar %s: %w", r.Pillar, err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.db == nil {
		return status, nil
	}

	for _, table := range []string{evaluationsTable, pillarScoresTable} {
		var count int64
		if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", hs.table(table))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalEvaluations = int(status.TableSizes[evaluationsTable])
	status.TotalPillarRows = int(status.TableSizes[pillarScoresTable])
	if status.TotalEvaluations == 0 {
		return status, nil
	}

	row := hs.db.QueryRow(fmt.Sprintf("SELECT evaluation_id FROM %s ORDER BY evaluation_id DESC LIMIT 1", hs.table(evaluationsTable)))
	if err := row.Scan(&status.LastEvaluationID); err != nil {
		return status, fmt.Errorf("failed to get last evaluation: %w", err)
	}

	var err error
	row = hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY evaluation_id DESC LIMIT 1", hs.table(evaluationsTable)))
	if status.LastRunTime, err = hs.scanTime(row); err != nil {
		return status, fmt.Errorf("failed to get last run time: %w", err)
	}
	row = hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY evaluation_id ASC LIMIT 1", hs.table(evaluationsTable)))
	if status.OldestRunTime, err = hs.scanTime(row); err != nil {
		return status, fmt.Errorf("failed to get oldest run time: %w", err)
	}

	return status, nil
}

// GetAllEvaluations retrieves every evaluation ordered by ID.
func (hs *HistoryStoreImpl) GetAllEvaluations() ([]schema.EvaluationRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT evaluation_id, evaluation_uuid, company, industry, source, model,
		start_time, end_time, run_time_ms, total_score, score_rank, flag_count
		FROM %s ORDER BY evaluation_id`, hs.table(evaluationsTable))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.EvaluationRecord
	for rows.Next() {
		var (
			record                   schema.EvaluationRecord
			company, industry, model sql.NullString
			startRaw, endRaw         any
		)
		if err := rows.Scan(&record.ID, &record.UUID, &company, &industry, &record.Source, &model,
			&startRaw, &endRaw, &record.RunTimeMs, &record.TotalScore, &record.Rank, &record.FlagCount); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		record.Company, record.Industry, record.Model = company.String, industry.String, model.String

		if record.StartTime, err = toTime(startRaw); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if endRaw != nil {
			end, err := toTime(endRaw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &end
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluations: %w", err)
	}
	return results, nil
}

// GetAllPillarScores retrieves every pillar score ordered by evaluation and pillar.
func (hs *HistoryStoreImpl) GetAllPillarScores() ([]schema.PillarScoreRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT evaluation_id, pillar, score, mandatory_missing, benchmark, delta, sentiment
		FROM %s ORDER BY evaluation_id, pillar`, hs.table(pillarScoresTable))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pillar scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PillarScoreRecord
	for rows.Next() {
		var r schema.PillarScoreRecord
		if err := rows.Scan(&r.EvaluationID, &r.Pillar, &r.Score, &r.MandatoryMissing, &r.Benchmark, &r.Delta, &r.Sentiment); err != nil {
			return nil, fmt.Errorf("failed to scan pillar score: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pillar scores: %w", err)
	}
	return results, nil
}

// scanTime reads a single time column, which SQLite stores as RFC3339 text.
func (hs *HistoryStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	var raw any
	if err := row.Scan(&raw); err != nil {
		return time.Time{}, err
	}
	return toTime(raw)
}

// toTime converts a driver value into a time.Time.
func toTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		return parseTime(v)
	case []byte:
		return parseTime(string(v))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value of type %T", raw)
	}
}
