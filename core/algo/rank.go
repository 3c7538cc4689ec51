// Package algo holds ordering helpers shared by the batch commands.
package algo

import (
	"sort"

	"github.com/huangsam/greenscore/schema"
)

// RankLeaderboard sorts entries by total score in descending order, breaking ties by rank
// and then by source, assigns 1-based positions and returns the top 'limit' entries.
// A limit of zero or less returns every entry.
func RankLeaderboard(entries []schema.LeaderboardEntry, limit int) []schema.LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		if ri, rj := schema.RankOrder(entries[i].Rank), schema.RankOrder(entries[j].Rank); ri != rj {
			return ri < rj
		}
		return entries[i].Source < entries[j].Source
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}
