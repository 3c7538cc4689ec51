package news

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/huangsam/greenscore/internal/contract"
)

// MaxArticleChars caps the body kept per article.
const MaxArticleChars = 5000

// maxParallelFetches bounds concurrent page downloads.
const maxParallelFetches = 4

// Article is one collected news item. Error is set when its page could not be fetched.
type Article struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Signals is the news context gathered for one company.
type Signals struct {
	Query    string    `json:"query"`
	Articles []Article `json:"articles"`
}

// Text concatenates titles, snippets and bodies for keyword analysis.
func (s Signals) Text() string {
	var sb strings.Builder
	for _, a := range s.Articles {
		for _, part := range []string{a.Title, a.Snippet, a.Content} {
			if part = strings.TrimSpace(part); part != "" {
				sb.WriteString(part)
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

// Collector searches for controversies and downloads the matching articles.
type Collector struct {
	searcher contract.Searcher
	fetcher  contract.PageFetcher
	limiter  *rate.Limiter
}

// NewCollector wires a searcher and fetcher. A nil limiter means no rate limit.
func NewCollector(searcher contract.Searcher, fetcher contract.PageFetcher, limiter *rate.Limiter) *Collector {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Collector{searcher: searcher, fetcher: fetcher, limiter: limiter}
}

// ControversyQuery builds the search query used for a company.
func ControversyQuery(company string) string {
	return fmt.Sprintf("%s ESG controversy OR scandal OR labor OR emissions OR bribery OR data breach", strings.TrimSpace(company))
}

// Collect searches for up to n articles and fetches them in parallel.
// Per-article fetch failures are recorded on the article.
func (c *Collector) Collect(ctx context.Context, company string, n int) (Signals, error) {
	signals := Signals{Query: ControversyQuery(company)}
	if n <= 0 {
		return signals, nil
	}

	results, err := c.searcher.Search(ctx, signals.Query, n)
	if err != nil {
		return signals, fmt.Errorf("news search failed: %w", err)
	}

	signals.Articles = make([]Article, len(results))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for i, r := range results {
		signals.Articles[i] = Article{Title: r.Title, URL: r.URL, Snippet: r.Snippet}
		g.Go(func() error {
			if err := c.limiter.Wait(gctx); err != nil {
				return err
			}
			content, err := c.fetcher.Fetch(gctx, r.URL)
			if err != nil {
				contract.Logger().Debugf("Skipping article %s: %v", r.URL, err)
				signals.Articles[i].Error = err.Error()
				return nil
			}
			signals.Articles[i].Content = capRunes(content, MaxArticleChars)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return signals, err
	}
	contract.Logger().Infof("Collected %d news articles for %s", len(signals.Articles), company)
	return signals, nil
}

func capRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
