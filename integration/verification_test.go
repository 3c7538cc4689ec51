//go:build basic

// Package integration contains integration tests for greenscore.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/greenscore/schema"
)

// noStores keeps the tests away from the default SQLite files in $HOME.
var noStores = map[string]string{
	"GREENSCORE_CACHE_BACKEND":   "none",
	"GREENSCORE_HISTORY_BACKEND": "none",
}

// TestEvaluateVerification checks the JSON report of a scores file end to end.
func TestEvaluateVerification(t *testing.T) {
	out, err := runCommand(t, noStores, "evaluate", "--scores-file", "gold.json", "--company", "Acme Software", "--output", "json")
	require.NoError(t, err)

	var report schema.FinalReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, schema.RankGold, report.Rank)
	assert.Equal(t, "GREENSCORE_GOLD", report.Badge)
	assert.Equal(t, "technology", report.Metadata.Industry)
	for _, p := range schema.AllPillars {
		score := report.PillarScores[p].Score
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
	}
}

// TestLeaderboardVerification checks the batch ordering.
func TestLeaderboardVerification(t *testing.T) {
	out, err := runCommand(t, noStores, "evaluate", "unranked.json", "gold.json", "--output", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "1,gold.json,"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "2,unranked.json,"), lines[2])
}

// TestCheckExitCode checks that the gate maps to the process exit code.
func TestCheckExitCode(t *testing.T) {
	_, err := runCommand(t, noStores, "check", "gold.json", "--min-rank", "silver")
	require.NoError(t, err)

	_, err = runCommand(t, noStores, "check", "unranked.json", "--min-rank", "bronze")
	require.Error(t, err)
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
}

// TestMetricsVerification checks the catalog listing.
func TestMetricsVerification(t *testing.T) {
	out, err := runCommand(t, noStores, "metrics", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "E1")
	assert.Contains(t, out, "G2")
}
