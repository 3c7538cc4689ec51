package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		precision int
		value     float64
		expected  string
	}{
		{2, 82.5, "82.50"},
		{0, 54.9, "55"},
		{1, 35.04, "35.0"},
		{3, -7.12345, "-7.123"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "3", intFmt(3))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"rank": "GOLD", "total_score": 82.5}))
	assert.Equal(t, "{\n  \"rank\": \"GOLD\",\n  \"total_score\": 82.5\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	err := writeYAML(&buf, map[string]any{"rank": "GOLD", "pillars": []string{"E", "S"}})
	require.NoError(t, err)
	assert.Equal(t, "pillars:\n  - E\n  - S\nrank: GOLD\n", buf.String())
}

func TestFmtSigned(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{12.345, "+12.3"},
		{-4.26, "-4.3"},
		{0, "0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, fmtSigned(tt.value, 1))
		})
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	err := renderTable(&buf, []string{"Pillar", "Score"}, [][]string{{"E", "72.5"}, {"G", "40.0"}})
	require.NoError(t, err)
	out := strings.ToUpper(buf.String())
	assert.Contains(t, out, "PILLAR")
	assert.Contains(t, out, "72.5")
	assert.Contains(t, out, "40.0")
}

func TestWriteCSVWithHeader(t *testing.T) {
	rows := [][]string{
		{"acme.json", "82.50", "GOLD"},
		{"globex.json", "41.00", "Needs work, see flags"},
	}

	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"source", "total", "note"}, func(w *csv.Writer) error {
		for _, row := range rows {
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "source,total,note\nacme.json,82.50,GOLD\nglobex.json,41.00,\"Needs work, see flags\"\n", buf.String())

	err = writeCSVWithHeader(io.Discard, []string{"source"}, func(*csv.Writer) error {
		return assert.AnError
	})
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	write := func(w io.Writer) error {
		_, err := w.Write([]byte("rank,GOLD\n"))
		return err
	}

	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeWithFile(&buf, "", write, "Wrote report"))
		assert.Equal(t, "rank,GOLD\n", buf.String())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.csv")
		var buf bytes.Buffer
		require.NoError(t, writeWithFile(&buf, path, write, "Wrote report"))
		assert.Empty(t, buf.String())

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "rank,GOLD\n", string(content))
	})

	t.Run("writer error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.csv")
		err := writeWithFile(io.Discard, path, func(io.Writer) error { return assert.AnError }, "Wrote report")
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("invalid path", func(t *testing.T) {
		err := writeWithFile(io.Discard, filepath.Join(t.TempDir(), "missing", "report.csv"), write, "Wrote report")
		require.Error(t, err)
	})
}
