package core

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/greenscore/core/scoring"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/iocache"
	"github.com/huangsam/greenscore/internal/news"
	"github.com/huangsam/greenscore/schema"
)

const (
	goldBlob     = `{"scores":{"E1":90,"S1":60,"G2":100},"insights":{"E":"strong targets"}}`
	unrankedBlob = `{"scores":{"E2":80}}`
)

// fakeEvaluator returns a fixed response and records the requests it saw.
type fakeEvaluator struct {
	mu   sync.Mutex
	resp contract.EvaluationResponse
	err  error
	reqs []contract.EvaluationRequest
}

func (f *fakeEvaluator) Evaluate(_ context.Context, req contract.EvaluationRequest) (contract.EvaluationResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return f.resp, f.err
}

// fakeCollector returns fixed signals.
type fakeCollector struct {
	signals news.Signals
	err     error
	calls   int
}

func (f *fakeCollector) Collect(_ context.Context, _ string, _ int) (news.Signals, error) {
	f.calls++
	return f.signals, f.err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func quietContext() context.Context {
	return WithSuppressHeader(context.Background())
}

func noStoresManager() *iocache.MockCacheManager {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetResponseStore").Return(nil).Maybe()
	mgr.On("GetHistoryStore").Return(nil).Maybe()
	return mgr
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

// TestExecuteEvaluateFromScoresFile tests the single evaluation path end to end.
func TestExecuteEvaluateFromScoresFile(t *testing.T) {
	dir := t.TempDir()
	scores := writeFile(t, dir, "acme.json", goldBlob)
	out := filepath.Join(dir, "report.json")

	cfg := &contract.Config{
		ScoresFiles: []string{scores},
		Company:     "Acme Software",
		Text:        "We reduced emissions and improved safety training.",
		Output:      schema.JSONOut,
		OutputFile:  out,
	}
	require.NoError(t, ExecuteEvaluate(quietContext(), cfg, noStoresManager()))

	var report map[string]any
	readJSON(t, out, &report)
	assert.Equal(t, 82.5, report["total_score"])
	assert.Equal(t, "GOLD", report["rank"])
	assert.Equal(t, "GREENSCORE_GOLD", report["badge"])
	assert.Contains(t, report, "sentiment")
	assert.Contains(t, report, "benchmark")
	assert.Contains(t, report, "risk")

	meta := report["metadata"].(map[string]any)
	assert.Equal(t, "technology", meta["industry"])
	assert.Equal(t, "scores-file", meta["model"])
	assert.NotEmpty(t, meta["evaluation_id"])
}

// TestExecuteEvaluateRequiresInput tests the missing input error.
func TestExecuteEvaluateRequiresInput(t *testing.T) {
	err := ExecuteEvaluate(quietContext(), &contract.Config{}, noStoresManager())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--report")
}

// TestExecuteEvaluateBatch tests leaderboard ordering across scores files.
func TestExecuteEvaluateBatch(t *testing.T) {
	dir := t.TempDir()
	low := writeFile(t, dir, "low.json", unrankedBlob)
	high := writeFile(t, dir, "high.json", goldBlob)
	out := filepath.Join(dir, "board.json")

	cfg := &contract.Config{
		ScoresFiles: []string{low, high},
		Workers:     2,
		Output:      schema.JSONOut,
		OutputFile:  out,
	}
	require.NoError(t, ExecuteEvaluate(quietContext(), cfg, noStoresManager()))

	var entries []schema.LeaderboardEntry
	readJSON(t, out, &entries)
	require.Len(t, entries, 2)
	assert.Equal(t, high, entries[0].Source)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, schema.RankGold, entries[0].Rank)
	assert.Equal(t, low, entries[1].Source)
	assert.Equal(t, schema.RankUnranked, entries[1].Rank)
}

// TestExecuteEvaluateBatchMissingFile tests that a missing file fails the batch.
func TestExecuteEvaluateBatchMissingFile(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "ok.json", goldBlob)
	cfg := &contract.Config{
		ScoresFiles: []string{ok, filepath.Join(dir, "missing.json")},
		Workers:     1,
		Output:      schema.JSONOut,
		OutputFile:  filepath.Join(dir, "out.json"),
	}
	err := ExecuteEvaluate(quietContext(), cfg, noStoresManager())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scores file")
}

// TestExecuteSentiment tests the sentiment command over inline text.
func TestExecuteSentiment(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sentiment.json")
	cfg := &contract.Config{
		Text:       "Emissions reduction, renewable energy and efficiency gains offset a pollution fine.",
		Output:     schema.JSONOut,
		OutputFile: out,
	}
	require.NoError(t, ExecuteSentiment(quietContext(), cfg, nil))

	var result map[string]any
	readJSON(t, out, &result)
	assert.Contains(t, result, "overall_sentiment")
}

// TestExecuteSentimentRequiresText tests the empty text error.
func TestExecuteSentimentRequiresText(t *testing.T) {
	err := ExecuteSentiment(quietContext(), &contract.Config{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text to analyze")
}

// TestExecuteBenchmark tests inline scores, scores files and the missing input error.
func TestExecuteBenchmark(t *testing.T) {
	dir := t.TempDir()
	scores := writeFile(t, dir, "scores.json", goldBlob)

	tests := []struct {
		name        string
		cfg         contract.Config
		expectError string
		industry    string
	}{
		{
			name:     "inline scores",
			cfg:      contract.Config{Scores: map[schema.PillarCode]float64{"E": 72, "S": 65, "G": 80}, Industry: "technology"},
			industry: "technology",
		},
		{
			name:     "scores file with inferred industry",
			cfg:      contract.Config{ScoresFile: scores, Company: "Acme Banking"},
			industry: "finance",
		},
		{
			name:        "no scores",
			cfg:         contract.Config{},
			expectError: "--scores",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".json")
			cfg := tt.cfg
			cfg.Output = schema.JSONOut
			cfg.OutputFile = out
			err := ExecuteBenchmark(quietContext(), &cfg, nil)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
			var cmp schema.BenchmarkComparison
			readJSON(t, out, &cmp)
			assert.Equal(t, tt.industry, cmp.Industry)
		})
	}
}

// TestExecuteRisk tests the risk command with and without pillar scores.
func TestExecuteRisk(t *testing.T) {
	out := filepath.Join(t.TempDir(), "risk.json")
	cfg := &contract.Config{
		Text:       "The regulator opened an investigation after a corruption scandal.",
		Scores:     map[schema.PillarCode]float64{"E": 35, "S": 70, "G": 70},
		Output:     schema.JSONOut,
		OutputFile: out,
	}
	require.NoError(t, ExecuteRisk(quietContext(), cfg, nil))

	var report schema.RiskReport
	readJSON(t, out, &report)
	assert.NotEmpty(t, report.HighRisks)
	assert.NotEmpty(t, report.PriorityActions)
}

// TestExecuteMetrics tests that the metrics command falls back to the default catalog.
func TestExecuteMetrics(t *testing.T) {
	out := filepath.Join(t.TempDir(), "metrics.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: out}
	require.NoError(t, ExecuteMetrics(quietContext(), cfg, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "GHG emissions")
}

// TestPillarScoresFor tests inline scores precedence and the scores file fallback.
func TestPillarScoresFor(t *testing.T) {
	dir := t.TempDir()
	scores := writeFile(t, dir, "scores.json", goldBlob)

	inline := map[schema.PillarCode]float64{"E": 10}
	got, err := pillarScoresFor(&contract.Config{Scores: inline, ScoresFile: scores})
	require.NoError(t, err)
	assert.Equal(t, inline, got)

	got, err = pillarScoresFor(&contract.Config{ScoresFile: scores})
	require.NoError(t, err)
	assert.Equal(t, map[schema.PillarCode]float64{"E": 90, "S": 60, "G": 100}, got)

	got, err = pillarScoresFor(&contract.Config{})
	require.NoError(t, err)
	assert.Nil(t, got)
}

// TestReadScoresBlobStdin tests reading a blob from stdin.
func TestReadScoresBlobStdin(t *testing.T) {
	orig := stdin
	t.Cleanup(func() { stdin = orig })
	stdin = strings.NewReader(goldBlob)

	blob, err := readScoresBlob("-")
	require.NoError(t, err)
	assert.Equal(t, goldBlob, blob)
}

// TestRecordEvaluation tests history recording through the store.
func TestRecordEvaluation(t *testing.T) {
	report := BuildReport(nil, ReportInput{Blob: goldBlob, Company: "Acme", Source: "acme.json"})

	t.Run("records pillars and totals", func(t *testing.T) {
		store := &iocache.MockHistoryStore{}
		store.On("BeginEvaluation", mock.MatchedBy(func(run schema.EvaluationRun) bool {
			return run.UUID == report.Metadata.EvaluationID && run.Source == "acme.json"
		})).Return(int64(7), nil)
		store.On("RecordPillarScores", int64(7), mock.MatchedBy(func(records []schema.PillarScoreRecord) bool {
			return len(records) == 3 && records[0].Pillar == "E" && records[0].Benchmark != nil
		})).Return(nil)
		store.On("EndEvaluation", int64(7), mock.Anything, 82.5, schema.RankGold, 0).Return(nil)

		mgr := &iocache.MockCacheManager{}
		mgr.On("GetHistoryStore").Return(store)

		recordEvaluation(mgr, report, report.Metadata.Timestamp)
		store.AssertExpectations(t)
	})

	t.Run("begin failure stops recording", func(t *testing.T) {
		store := &iocache.MockHistoryStore{}
		store.On("BeginEvaluation", mock.Anything).Return(int64(0), errors.New("db down"))

		mgr := &iocache.MockCacheManager{}
		mgr.On("GetHistoryStore").Return(store)

		recordEvaluation(mgr, report, report.Metadata.Timestamp)
		store.AssertNotCalled(t, "RecordPillarScores", mock.Anything, mock.Anything)
	})

	t.Run("nil manager is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() { recordEvaluation(nil, report, report.Metadata.Timestamp) })
	})
}

// TestBuildReport tests which analyses are attached depending on the text.
func TestBuildReport(t *testing.T) {
	withText := BuildReport(scoring.DefaultCatalog(), ReportInput{
		Blob:    goldBlob,
		Text:    "Scope 1 emissions fell 12% to 4,500 tCO2e.",
		Company: "Acme Energy",
	})
	assert.NotNil(t, withText.Sentiment)
	assert.NotNil(t, withText.Benchmark)
	assert.NotNil(t, withText.Risk)
	assert.Equal(t, "energy", withText.Metadata.Industry)

	noText := BuildReport(nil, ReportInput{Blob: goldBlob, Industry: "unknown-sector"})
	assert.Nil(t, noText.Sentiment)
	assert.Nil(t, noText.Evidence)
	assert.NotNil(t, noText.Risk)
	assert.Equal(t, "default", noText.Metadata.Industry)

	broken := BuildReport(nil, ReportInput{Blob: "not json"})
	assert.True(t, broken.Flags.Has(scoring.FlagParseFailure))
	assert.Equal(t, schema.RankUnranked, broken.Rank)
}
