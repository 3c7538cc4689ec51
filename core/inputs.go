package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/docs"
)

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

// readScoresBlob reads an evaluator blob from a file, or from stdin when path is "-".
func readScoresBlob(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read scores from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read scores file: %w", err)
	}
	return string(data), nil
}

// textInput is the free text gathered for keyword analysis.
type textInput struct {
	Report string
	Extra  string
	Source string
}

// Combined joins report text and extra text.
func (t textInput) Combined() string {
	return strings.TrimSpace(strings.Join([]string{t.Report, t.Extra}, "\n"))
}

// loadTextInput reads --report, --text-file and --text. All are optional.
func loadTextInput(cfg *contract.Config) (textInput, error) {
	var in textInput
	if cfg.ReportPath != "" {
		doc, err := docs.ReadDocument(cfg.ReportPath)
		if err != nil {
			return in, err
		}
		in.Report = doc.Text
		in.Source = doc.Path
	}

	var extra []string
	if cfg.TextFile != "" {
		data, err := os.ReadFile(cfg.TextFile)
		if err != nil {
			return in, fmt.Errorf("failed to read text file: %w", err)
		}
		extra = append(extra, string(data))
		if in.Source == "" {
			in.Source = cfg.TextFile
		}
	}
	if cfg.Text != "" {
		extra = append(extra, cfg.Text)
		if in.Source == "" {
			in.Source = "inline text"
		}
	}
	in.Extra = strings.Join(extra, "\n")
	return in, nil
}

// requireText loads the text input and fails when nothing was provided.
func requireText(cfg *contract.Config) (textInput, error) {
	in, err := loadTextInput(cfg)
	if err != nil {
		return in, err
	}
	if in.Combined() == "" {
		return in, errors.New("no text to analyze: provide --text, --text-file or --report")
	}
	return in, nil
}
