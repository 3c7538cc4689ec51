package core

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// TestCheckReport tests the rank and score gates.
func TestCheckReport(t *testing.T) {
	report := schema.FinalReport{TotalScore: 65, Rank: schema.RankSilver}

	tests := []struct {
		name       string
		minRank    schema.Rank
		minScore   float64
		passed     bool
		violations int
	}{
		{"no gates", "", 0, true, 0},
		{"rank met", schema.RankSilver, 0, true, 0},
		{"lower rank met", schema.RankBronze, 60, true, 0},
		{"rank not met", schema.RankGold, 0, false, 1},
		{"score not met", "", 70, false, 1},
		{"both not met", schema.RankGold, 90, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckReport(report, tt.minRank, tt.minScore)
			assert.Equal(t, tt.passed, result.Passed)
			assert.Len(t, result.Violations, tt.violations)
			assert.Equal(t, schema.RankSilver, result.Rank)
			assert.Equal(t, tt.minRank, result.MinRank)
		})
	}
}

// TestExecuteCheck tests pass and fail exits from a scores file.
func TestExecuteCheck(t *testing.T) {
	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.json", goldBlob)
	unranked := writeFile(t, dir, "unranked.json", unrankedBlob)

	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{"passes", gold, false},
		{"fails", unranked, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{
				ScoresFiles: []string{tt.file},
				MinRank:     schema.RankBronze,
				Output:      schema.JSONOut,
				OutputFile:  filepath.Join(dir, tt.name+".json"),
			}
			err := ExecuteCheck(quietContext(), cfg, noStoresManager())
			if tt.wantErr {
				require.ErrorIs(t, err, ErrCheckFailed)
				return
			}
			require.NoError(t, err)

			var result schema.CheckResult
			readJSON(t, cfg.OutputFile, &result)
			assert.True(t, result.Passed)
		})
	}
}
