package schema

import "time"

// CacheStatus represents the status of the evaluator response cache.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the evaluation history store.
type HistoryStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalEvaluations int              `json:"total_evaluations"`
	LastEvaluationID int64            `json:"last_evaluation_id"`
	LastRunTime      time.Time        `json:"last_run_time"`
	OldestRunTime    time.Time        `json:"oldest_run_time"`
	TotalPillarRows  int              `json:"total_pillar_rows"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}

// EvaluationRun describes an evaluation at the moment it starts.
type EvaluationRun struct {
	UUID      string
	Company   string
	Industry  string
	Source    string
	Model     string
	StartTime time.Time
}

// EvaluationRecord represents a row from the greenscore_evaluations table.
type EvaluationRecord struct {
	ID         int64
	UUID       string
	Company    string
	Industry   string
	Source     string
	Model      string
	StartTime  time.Time
	EndTime    *time.Time
	RunTimeMs  *int64
	TotalScore *float64
	Rank       *string
	FlagCount  *int32
}

// PillarScoreRecord represents a row from the greenscore_pillar_scores table.
type PillarScoreRecord struct {
	EvaluationID     int64
	Pillar           string
	Score            float64
	MandatoryMissing bool
	Benchmark        *float64
	Delta            *float64
	Sentiment        *float64
}
