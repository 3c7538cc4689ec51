package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/huangsam/greenscore/schema"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // CriticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // HighColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // ModerateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)                // LowColor represents informational / low-priority signal.
	GoodColor     = color.New(color.FgGreen, color.Bold)   // GoodColor represents a healthy result.
)

// GetRankLabel returns the rank text, colored for console output when useColors is set.
func GetRankLabel(rank schema.Rank, useColors bool) string {
	text := string(rank)
	if !useColors {
		return text
	}
	switch rank {
	case schema.RankGold:
		return GoodColor.Sprint(text)
	case schema.RankSilver:
		return LowColor.Sprint(text)
	case schema.RankBronze:
		return ModerateColor.Sprint(text)
	default:
		return CriticalColor.Sprint(text)
	}
}

// GetTierLabel returns the benchmark tier text, colored when useColors is set.
func GetTierLabel(tier schema.PerformanceTier, useColors bool) string {
	text := string(tier)
	if !useColors {
		return text
	}
	switch tier {
	case schema.TierOutstanding:
		return GoodColor.Sprint(text)
	case schema.TierGood:
		return LowColor.Sprint(text)
	case schema.TierNeedsImprovement:
		return ModerateColor.Sprint(text)
	default:
		return CriticalColor.Sprint(text)
	}
}

// GetRiskLabel returns the risk level text, colored when useColors is set.
func GetRiskLabel(level schema.RiskLevel, useColors bool) string {
	text := string(level)
	if !useColors {
		return text
	}
	switch level {
	case schema.RiskHigh:
		return CriticalColor.Sprint(text)
	case schema.RiskMedium:
		return HighColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// GetSentimentLabel returns the sentiment label text, colored when useColors is set.
func GetSentimentLabel(label schema.SentimentLabel, useColors bool) string {
	text := string(label)
	if !useColors {
		return text
	}
	switch label {
	case schema.SentimentPositive:
		return GoodColor.Sprint(text)
	case schema.SentimentNegative:
		return CriticalColor.Sprint(text)
	default:
		return ModerateColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger().WithError(err).Error(msg)
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger().WithError(err).Warn(msg)
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the evaluator response cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".greenscore_cache.db"
	}
	return filepath.Join(homeDir, ".greenscore_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for evaluation history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".greenscore_history.db"
	}
	return filepath.Join(homeDir, ".greenscore_history.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so there is room for the prefix and at least one character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
