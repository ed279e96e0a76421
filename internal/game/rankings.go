package game

import (
	"fmt"
	"strings"
)

// FormatRankings renders the final standings as plain text, one player per
// line in the order the authority ranked them. Ties share a place.
func FormatRankings(rankings []Ranking) string {
	var sb strings.Builder
	place := 0
	for i, r := range rankings {
		if i == 0 || r.Score != rankings[i-1].Score {
			place = i + 1
		}
		fmt.Fprintf(&sb, "%d. Player %d  %d\n", place, r.PlayerID, r.Score)
	}
	return sb.String()
}

// Winners returns the ids sharing the top score.
func Winners(rankings []Ranking) []int {
	if len(rankings) == 0 {
		return nil
	}
	best := rankings[0].Score
	for _, r := range rankings[1:] {
		if r.Score > best {
			best = r.Score
		}
	}
	var out []int
	for _, r := range rankings {
		if r.Score == best {
			out = append(out, r.PlayerID)
		}
	}
	return out
}
