package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/docs"
	"github.com/huangsam/greenscore/internal/evaluator"
	"github.com/huangsam/greenscore/internal/news"
	"github.com/huangsam/greenscore/schema"
)

// NewsCollector gathers press coverage for a company.
type NewsCollector interface {
	Collect(ctx context.Context, company string, n int) (news.Signals, error)
}

// Deps holds the collaborators of an evaluation. Nil fields are built from the config.
type Deps struct {
	Evaluator contract.Evaluator
	Collector NewsCollector
}

// EvaluationBuilder runs the evaluation pipeline one stage at a time.
type EvaluationBuilder struct {
	ctx   context.Context
	cfg   *contract.Config
	mgr   contract.CacheManager
	deps  Deps
	start time.Time

	text    textInput
	signals *news.Signals
	blob    string
	model   string
	source  string
	report  *schema.FinalReport
}

// NewEvaluationBuilder creates a builder for a single evaluation.
func NewEvaluationBuilder(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, deps Deps) *EvaluationBuilder {
	return &EvaluationBuilder{
		ctx:   ctx,
		cfg:   cfg,
		mgr:   mgr,
		deps:  deps,
		start: time.Now(),
	}
}

// LoadInputs reads the report document and any extra text.
func (b *EvaluationBuilder) LoadInputs() (*EvaluationBuilder, error) {
	if b.cfg.ScoresFile == "" && b.cfg.ReportPath == "" {
		return nil, errors.New("evaluate requires --report or a scores file. Example: greenscore evaluate --report annual-report.pdf --company Acme")
	}

	text, err := loadTextInput(b.cfg)
	if err != nil {
		return nil, err
	}
	b.text = text

	b.source = text.Source
	if b.cfg.ScoresFile != "" {
		b.source = b.cfg.ScoresFile
	}
	logEvaluationHeader(b.ctx, b.cfg, b.source)
	return b, nil
}

// CollectNews fetches news signals when enabled. Failures are logged and skipped.
func (b *EvaluationBuilder) CollectNews() *EvaluationBuilder {
	if !b.cfg.News || b.cfg.Company == "" {
		return b
	}
	collector := b.deps.Collector
	if collector == nil {
		limiter := rate.NewLimiter(rate.Every(time.Second), 2)
		collector = news.NewCollector(
			news.NewSearxngClient(b.cfg.SearchURL, b.cfg.FetchTimeout),
			news.NewReadabilityFetcher(b.cfg.FetchTimeout),
			limiter,
		)
	}
	signals, err := collector.Collect(b.ctx, b.cfg.Company, b.cfg.NewsResults)
	if err != nil {
		contract.LogWarn("News collection failed", err)
		return b
	}
	b.signals = &signals
	return b
}

// Score obtains the evaluator blob from the scores file or the evaluator.
// An evaluator failure degrades to an empty blob so the report carries the parse-failure flag.
func (b *EvaluationBuilder) Score() (*EvaluationBuilder, error) {
	if b.cfg.ScoresFile != "" {
		blob, err := readScoresBlob(b.cfg.ScoresFile)
		if err != nil {
			return nil, err
		}
		b.blob = blob
		b.model = "scores-file"
		return b, nil
	}

	eval := b.deps.Evaluator
	if eval == nil {
		var store contract.CacheStore
		if b.mgr != nil {
			store = b.mgr.GetResponseStore()
		}
		llm, err := evaluator.New(b.ctx, b.cfg.LLM, store)
		if err != nil {
			contract.LogWarn("Evaluator unavailable", err)
			return b, nil
		}
		eval = llm
	}

	resp, err := eval.Evaluate(b.ctx, contract.EvaluationRequest{
		Company:    b.cfg.Company,
		Ticker:     b.cfg.Ticker,
		ReportText: docs.Condense(b.text.Report, b.cfg.ReportMaxChars),
		NewsText:   b.newsText(),
		Metrics:    catalogOf(b.cfg).Metrics(),
	})
	if err != nil {
		if b.ctx.Err() != nil {
			return nil, b.ctx.Err()
		}
		contract.LogWarn("Evaluator failed", err)
		return b, nil
	}
	b.blob = resp.Blob
	b.model = resp.Model
	if resp.CacheHit {
		contract.Logger().Infof("Using cached evaluation from %s", resp.Model)
	}
	return b, nil
}

func (b *EvaluationBuilder) newsText() string {
	if b.signals == nil {
		return ""
	}
	return b.signals.Text()
}

// Assemble aggregates the blob and attaches sentiment, benchmark, risk and evidence.
func (b *EvaluationBuilder) Assemble() *EvaluationBuilder {
	text := strings.TrimSpace(strings.Join([]string{b.text.Combined(), b.newsText()}, "\n"))
	report := BuildReport(b.cfg.Catalog, ReportInput{
		Blob:               b.blob,
		Text:               text,
		Company:            b.cfg.Company,
		Industry:           b.cfg.Industry,
		Source:             b.source,
		Model:              b.model,
		SentimentMaxLength: b.cfg.SentimentMaxLength,
	})
	b.report = &report
	return b
}

// Record stores the report in the history store.
func (b *EvaluationBuilder) Record() *EvaluationBuilder {
	if b.report != nil {
		recordEvaluation(b.mgr, *b.report, b.start)
	}
	return b
}

// GetResult returns the built report, or nil before Assemble.
func (b *EvaluationBuilder) GetResult() *schema.FinalReport {
	return b.report
}

// Run executes every stage in order.
func (b *EvaluationBuilder) Run() (*schema.FinalReport, error) {
	if _, err := b.LoadInputs(); err != nil {
		return nil, err
	}
	b.CollectNews()
	if _, err := b.Score(); err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}
	return b.Assemble().Record().GetResult(), nil
}
