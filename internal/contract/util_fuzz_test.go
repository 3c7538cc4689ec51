package contract

import (
	"testing"
)

// FuzzParsePillarScoresString fuzzes pillar score parsing and checks the range invariant.
func FuzzParsePillarScoresString(f *testing.F) {
	seeds := []string{
		"E:72,S:65,G:80",
		"e:0, g:100",
		"E:101",
		"X:5",
		"E:abc",
		"",
		",,,",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		scores, err := ParsePillarScoresString(s)
		if err != nil {
			return
		}
		for p, v := range scores {
			if v < 0 || v > 100 {
				t.Fatalf("pillar %s out of range: %v", p, v)
			}
		}
	})
}
