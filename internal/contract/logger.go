package contract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logMu  sync.RWMutex
	logger = newDefaultLogger()
)

// LineFormatter renders entries as "[time] [LEVL] [file:line] msg key=value".
type LineFormatter struct{}

// Format implements logrus.Formatter.
func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var fileLine string
	if entry.HasCaller() {
		fileLine = fmt.Sprintf("%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}

	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] [%s] [%s] %s", entry.Time.Format("2006-01-02 15:04:05"), level, fileLine, entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, entry.Data[k])
	}
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

func newDefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&LineFormatter{})
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.WarnLevel)
	return l
}

// Logger returns the process-wide logger.
func Logger() *logrus.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

// InitLogger configures the process-wide logger. Output goes to stderr when console is
// set and to filePath when it is not empty. An unknown level falls back to info.
func InitLogger(levelStr, filePath string, console bool) error {
	l := logrus.New()
	l.SetReportCaller(true)
	l.SetFormatter(&LineFormatter{})

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	var writers []io.Writer
	if console {
		writers = append(writers, os.Stderr)
	}
	if filePath != "" {
		if dir := filepath.Dir(filePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, file)
	}
	if len(writers) == 0 {
		l.SetOutput(io.Discard)
	} else {
		l.SetOutput(io.MultiWriter(writers...))
	}

	logMu.Lock()
	logger = l
	logMu.Unlock()
	return nil
}

// SetLogger replaces the process-wide logger. Tests use it to capture output.
func SetLogger(l *logrus.Logger) {
	logMu.Lock()
	logger = l
	logMu.Unlock()
}
