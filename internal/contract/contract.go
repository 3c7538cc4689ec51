// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/greenscore/schema"
)

// Evaluator produces the raw evaluator blob (JSON) for a report.
// This allows the LLM layer to be replaced in tests and by offline score files.
type Evaluator interface {
	// Evaluate returns the raw response text and the name of the model that produced it.
	Evaluate(ctx context.Context, req EvaluationRequest) (EvaluationResponse, error)
}

// EvaluationRequest carries everything needed to build an evaluation prompt.
type EvaluationRequest struct {
	Company    string
	Ticker     string
	ReportText string
	NewsText   string
	Metrics    []schema.Metric
}

// EvaluationResponse is the raw output of an evaluator call.
type EvaluationResponse struct {
	Blob     string
	Model    string
	CacheHit bool
}

// SearchResult is a single hit returned by a Searcher.
type SearchResult struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Snippet   string `json:"snippet"`
	Published string `json:"published,omitempty"`
}

// Searcher finds news articles for a query.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// PageFetcher downloads a web page and returns its readable text.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResponseStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking evaluations and their pillar scores.
type HistoryStore interface {
	// BeginEvaluation creates a new evaluation row and returns its ID
	BeginEvaluation(run schema.EvaluationRun) (int64, error)

	// EndEvaluation updates the evaluation with completion data
	EndEvaluation(evaluationID int64, endTime time.Time, totalScore float64, rank schema.Rank, flagCount int) error

	// RecordPillarScores stores the per-pillar results of an evaluation
	RecordPillarScores(evaluationID int64, records []schema.PillarScoreRecord) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllEvaluations returns every evaluation row ordered by ID
	GetAllEvaluations() ([]schema.EvaluationRecord, error)

	// GetAllPillarScores returns every pillar score row ordered by evaluation ID
	GetAllPillarScores() ([]schema.PillarScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}
