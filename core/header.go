package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsam/greenscore/internal/contract"
)

// logEvaluationHeader prints a concise, 2-line header before an evaluation.
// It goes to stderr so machine-readable output on stdout stays clean.
func logEvaluationHeader(ctx context.Context, cfg *contract.Config, source string) {
	if shouldSuppressHeader(ctx) {
		return
	}
	company := cfg.Company
	if company == "" {
		company = "unknown company"
	}
	industry := cfg.Industry
	if industry == "" {
		industry = "default"
	}
	_, _ = fmt.Fprintf(os.Stderr, "🔎 Company: %s (Industry: %s)\n", company, industry)
	_, _ = fmt.Fprintf(os.Stderr, "📄 Source: %s\n", filepath.Base(source))
}

// logBatchHeader prints the header for a batch evaluation.
func logBatchHeader(ctx context.Context, cfg *contract.Config, files int) {
	if shouldSuppressHeader(ctx) {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "🔎 Batch: %d score files (workers: %d)\n", files, cfg.Workers)
}
