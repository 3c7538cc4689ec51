package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFlagSet tests set semantics and deterministic serialization.
func TestFlagSet(t *testing.T) {
	a := NewFlagSet("b", "a", "b", "")
	b := NewFlagSet("a", "b")

	assert.Equal(t, 2, a.Len())
	assert.True(t, a.Has("a"))
	assert.False(t, a.Has(""))
	assert.Equal(t, a.Sorted(), b.Sorted())

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(data))

	var decoded FlagSet
	require.NoError(t, json.Unmarshal([]byte(`["z","z","y"]`), &decoded))
	assert.Equal(t, []string{"y", "z"}, decoded.Sorted())
}

// TestFlagSetNilAndClone tests nil receivers and independence of clones.
func TestFlagSetNilAndClone(t *testing.T) {
	var nilSet *FlagSet
	assert.Equal(t, 0, nilSet.Len())
	assert.False(t, nilSet.Has("x"))
	assert.Empty(t, nilSet.Sorted())

	var zero FlagSet
	zero.Add("x")
	assert.True(t, zero.Has("x"))

	orig := NewFlagSet("one")
	clone := orig.Clone()
	clone.Add("two")
	assert.Equal(t, 1, orig.Len())
	assert.Equal(t, 2, clone.Len())
}

// TestRankOrdering tests rank comparisons and badges.
func TestRankOrdering(t *testing.T) {
	tests := []struct {
		rank, min Rank
		want      bool
	}{
		{RankGold, RankSilver, true},
		{RankSilver, RankSilver, true},
		{RankBronze, RankSilver, false},
		{RankUnranked, RankBronze, false},
		{RankUnranked, RankUnranked, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.rank)+">="+string(tt.min), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rank.AtLeast(tt.min))
		})
	}
	assert.Equal(t, "GREENSCORE_GOLD", RankGold.Badge())
	assert.Equal(t, len(AllRanks), RankOrder("PLATINUM"))
}

// TestPillarScoreMap tests flattening aggregate pillar results.
func TestPillarScoreMap(t *testing.T) {
	agg := AggregateResult{PillarScores: map[PillarCode]PillarResult{
		Environmental: {Score: 40, MandatoryMissing: true},
		Social:        {Score: 70},
	}}
	assert.Equal(t, map[PillarCode]float64{Environmental: 40, Social: 70}, agg.PillarScoreMap())
}

// TestPillarCodeName tests display names of the pillar codes.
func TestPillarCodeName(t *testing.T) {
	tests := map[PillarCode]string{
		Environmental: "Environmental",
		Social:        "Social",
		Governance:    "Governance",
		"X":           "X",
	}
	for code, want := range tests {
		assert.Equal(t, want, code.Name())
	}
}
