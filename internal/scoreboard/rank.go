package scoreboard

import (
	"sort"

	"github.com/scoreit/scoreit"
)

// Rank orders scores by points, highest first, and numbers them from 1.
// Ties are broken by player id so the same scores always produce the same
// board.
//
// A limit of zero returns every rank. Otherwise the first limit ranks are
// returned, and when pivot names a player ranked below the cut that
// player's own entry is appended so they can always see where they stand.
func Rank(scores []scoreit.PlayerScore, limit uint, pivot string) scoreit.Board {
	sorted := make([]scoreit.PlayerScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		return sorted[i].ID < sorted[j].ID
	})

	max := len(sorted)
	if limit > 0 && int(limit) < max {
		max = int(limit)
	}

	board := make(scoreit.Board, 0, max+1)
	for i, score := range sorted {
		rank := i + 1
		if rank <= max {
			board = append(board, scoreit.RankedScore{Rank: rank, PlayerScore: score})
			continue
		}
		if pivot == "" {
			break
		}
		if score.ID == pivot {
			board = append(board, scoreit.RankedScore{Rank: rank, PlayerScore: score})
			break
		}
	}
	return board
}
