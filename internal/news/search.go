// Package news collects recent press coverage about a company.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/huangsam/greenscore/internal/contract"
)

// userAgent mimics a desktop browser since many news sites reject bare clients.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// SearxngClient queries the JSON API of a SearXNG instance.
type SearxngClient struct {
	baseURL string
	client  *http.Client
}

var _ contract.Searcher = &SearxngClient{}

// NewSearxngClient creates a search client for the instance at baseURL.
func NewSearxngClient(baseURL string, timeout time.Duration) *SearxngClient {
	return &SearxngClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type searxngResponse struct {
	Results []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		Content       string `json:"content"`
		PublishedDate string `json:"publishedDate"`
	} `json:"results"`
}

// Search returns up to maxResults news hits for query.
func (c *SearxngClient) Search(ctx context.Context, query string, maxResults int) ([]contract.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("categories", "news")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var decoded searxngResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]contract.SearchResult, 0, min(len(decoded.Results), maxResults))
	for _, r := range decoded.Results {
		if len(results) >= maxResults {
			break
		}
		if r.URL == "" {
			continue
		}
		results = append(results, contract.SearchResult{
			Title:     r.Title,
			URL:       r.URL,
			Snippet:   r.Content,
			Published: r.PublishedDate,
		})
	}
	return results, nil
}

// ReadabilityFetcher downloads a page and extracts its main article text.
type ReadabilityFetcher struct {
	client *http.Client
}

var _ contract.PageFetcher = &ReadabilityFetcher{}

// NewReadabilityFetcher creates a fetcher with the given request timeout.
func NewReadabilityFetcher(timeout time.Duration) *ReadabilityFetcher {
	return &ReadabilityFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch returns the readable text content of the page at rawURL.
func (f *ReadabilityFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid article URL %q: %w", rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: %s", rawURL, resp.Status)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", rawURL, err)
	}
	return strings.TrimSpace(article.TextContent), nil
}
