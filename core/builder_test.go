package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/greenscore/core/scoring"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/iocache"
	"github.com/huangsam/greenscore/internal/news"
)

// TestEvaluationBuilderWithEvaluator tests the evaluator path with news signals.
func TestEvaluationBuilderWithEvaluator(t *testing.T) {
	dir := t.TempDir()
	reportPath := writeFile(t, dir, "annual.txt", "Renewable energy reached 40% of consumption, 12,000 MWh.")

	eval := &fakeEvaluator{resp: contract.EvaluationResponse{Blob: "```json\n" + goldBlob + "\n```", Model: "llama-3.3-70b"}}
	collector := &fakeCollector{signals: news.Signals{
		Query:    news.ControversyQuery("Acme"),
		Articles: []news.Article{{Title: "Acme fined", Snippet: "Acme paid a fine over a pollution incident."}},
	}}

	cfg := &contract.Config{
		ReportPath:     reportPath,
		Company:        "Acme Energy",
		Ticker:         "ACM",
		News:           true,
		NewsResults:    3,
		ReportMaxChars: 1000,
	}
	report, err := NewEvaluationBuilder(quietContext(), cfg, noStoresManager(), Deps{Evaluator: eval, Collector: collector}).Run()
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 1, collector.calls)
	require.Len(t, eval.reqs, 1)
	req := eval.reqs[0]
	assert.Equal(t, "Acme Energy", req.Company)
	assert.Equal(t, "ACM", req.Ticker)
	assert.Contains(t, req.ReportText, "Renewable energy")
	assert.Contains(t, req.NewsText, "pollution incident")
	assert.Len(t, req.Metrics, len(scoring.DefaultMetrics()))

	assert.Equal(t, 82.5, report.TotalScore)
	assert.Equal(t, "llama-3.3-70b", report.Metadata.Model)
	assert.Equal(t, reportPath, report.Metadata.Source)
	assert.Equal(t, "energy", report.Metadata.Industry)
	require.NotNil(t, report.Risk)
	assert.NotEmpty(t, report.Risk.HighRisks, "news text feeds the risk scan")
	assert.NotEmpty(t, report.Evidence["energy"])
}

// TestEvaluationBuilderDegradesOnEvaluatorError tests that evaluator failures yield the parse-failure flag.
func TestEvaluationBuilderDegradesOnEvaluatorError(t *testing.T) {
	reportPath := writeFile(t, t.TempDir(), "annual.md", "# Sustainability report")
	eval := &fakeEvaluator{err: errors.New("all models failed")}

	cfg := &contract.Config{ReportPath: reportPath}
	report, err := NewEvaluationBuilder(quietContext(), cfg, noStoresManager(), Deps{Evaluator: eval}).Run()
	require.NoError(t, err)
	assert.True(t, report.Flags.Has(scoring.FlagParseFailure))
	assert.Zero(t, report.TotalScore)
}

// TestEvaluationBuilderCancelled tests that a cancelled context aborts scoring.
func TestEvaluationBuilderCancelled(t *testing.T) {
	reportPath := writeFile(t, t.TempDir(), "annual.txt", "text")
	ctx, cancel := context.WithCancel(quietContext())
	cancel()

	eval := &fakeEvaluator{err: context.Canceled}
	_, err := NewEvaluationBuilder(ctx, &contract.Config{ReportPath: reportPath}, noStoresManager(), Deps{Evaluator: eval}).Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestEvaluationBuilderSkipsNews tests the conditions that disable news collection.
func TestEvaluationBuilderSkipsNews(t *testing.T) {
	tests := []struct {
		name    string
		news    bool
		company string
	}{
		{"news disabled", false, "Acme"},
		{"no company", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector := &fakeCollector{}
			cfg := &contract.Config{News: tt.news, Company: tt.company}
			b := NewEvaluationBuilder(quietContext(), cfg, nil, Deps{Collector: collector}).CollectNews()
			assert.Equal(t, 0, collector.calls)
			assert.Empty(t, b.newsText())
		})
	}
}

// TestEvaluationBuilderNewsFailure tests that a failed collection is skipped.
func TestEvaluationBuilderNewsFailure(t *testing.T) {
	collector := &fakeCollector{err: errors.New("search down")}
	cfg := &contract.Config{News: true, Company: "Acme"}
	b := NewEvaluationBuilder(quietContext(), cfg, nil, Deps{Collector: collector}).CollectNews()
	assert.Equal(t, 1, collector.calls)
	assert.Nil(t, b.signals)
}

// TestEvaluationBuilderMissingReport tests the document read error.
func TestEvaluationBuilderMissingReport(t *testing.T) {
	cfg := &contract.Config{ReportPath: filepath.Join(t.TempDir(), "missing.pdf")}
	_, err := NewEvaluationBuilder(quietContext(), cfg, nil, Deps{}).LoadInputs()
	require.Error(t, err)
}

// TestEvaluationBuilderUsesCacheStore tests that the default evaluator is built with the response store.
func TestEvaluationBuilderUsesCacheStore(t *testing.T) {
	reportPath := writeFile(t, t.TempDir(), "annual.txt", "text")
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetResponseStore").Return(nil).Once()
	mgr.On("GetHistoryStore").Return(nil)

	// No API key: the evaluator cannot be built and the report degrades.
	cfg := &contract.Config{ReportPath: reportPath}
	report, err := NewEvaluationBuilder(quietContext(), cfg, mgr, Deps{}).Run()
	require.NoError(t, err)
	assert.True(t, report.Flags.Has(scoring.FlagParseFailure))
	mgr.AssertExpectations(t)
}
