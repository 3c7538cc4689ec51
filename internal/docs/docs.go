// Package docs reads annual and sustainability reports into plain text.
package docs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/huangsam/greenscore/internal/contract"
)

// DefaultMaxChars is the report size sent to the evaluator when no limit is configured.
const DefaultMaxChars = 25000

const truncationMarker = "\n\n[... truncated ...]\n\n"

var (
	// ErrUnsupportedDocument is returned for file types other than pdf, txt and md.
	ErrUnsupportedDocument = errors.New("unsupported document type")

	// ErrNoDocument is returned when a directory holds no PDF report.
	ErrNoDocument = errors.New("no PDF document found")
)

// Document is the extracted text of a report.
type Document struct {
	Path  string
	Pages int
	Text  string
}

// ReadDocument extracts the text of a report. A directory resolves to its newest PDF.
func ReadDocument(path string) (Document, error) {
	path = strings.Trim(strings.TrimSpace(path), `"`)
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("cannot read document %s: %w", path, err)
	}
	if info.IsDir() {
		newest, err := newestPDF(path)
		if err != nil {
			return Document{}, err
		}
		path = newest
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return readPDF(path)
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return Document{}, fmt.Errorf("cannot read document %s: %w", path, err)
		}
		return Document{Path: path, Pages: 1, Text: string(data)}, nil
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedDocument, path)
	}
}

// newestPDF returns the most recently modified PDF in dir.
func newestPDF(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("cannot list %s: %w", dir, err)
	}
	var (
		newest  string
		newestT int64
	)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mt := info.ModTime().UnixNano(); newest == "" || mt > newestT {
			newest, newestT = filepath.Join(dir, e.Name()), mt
		}
	}
	if newest == "" {
		return "", fmt.Errorf("%w in %s", ErrNoDocument, dir)
	}
	return newest, nil
}

// readPDF extracts every page and prefixes each with its page number.
func readPDF(path string) (Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("cannot open PDF %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	total := r.NumPage()
	var sb strings.Builder
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			contract.Logger().Warnf("Skipping page %d of %s: %v", i, path, err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(&sb, "\n[PAGE %d]\n%s", i, text)
	}
	contract.Logger().Debugf("Read %d pages (%d chars) from %s", total, sb.Len(), path)
	return Document{Path: path, Pages: total, Text: sb.String()}, nil
}

// Condense shortens text to roughly maxChars runes, keeping the first 70% and the last 30%.
func Condense(text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	head := maxChars * 7 / 10
	tail := maxChars - head
	return string(runes[:head]) + truncationMarker + string(runes[len(runes)-tail:])
}
