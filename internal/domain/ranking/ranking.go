// Package ranking computes leaderboard positions over score record sets.
//
// Rank is a derived, set-wide property: it is always assigned against a
// fully materialized record set, never a partial one.
package ranking

import (
	"sort"

	"github.com/hackfest/vibeboard/internal/domain/model"
)

// Assign stable-sorts records by Total descending (ties keep their input
// order) and sets CurrentRank to the 1-based position. The input slice is
// sorted in place and returned.
func Assign(records []model.ScoreRecord) []model.ScoreRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Total > records[j].Total
	})
	for i := range records {
		rank := i + 1
		records[i].CurrentRank = &rank
	}
	return records
}

// CarryPrevious copies each prior record's CurrentRank into the matching
// incoming record's PreviousRank, keyed by team id. Teams without a prior
// record keep a nil PreviousRank.
func CarryPrevious(prior, incoming []model.ScoreRecord) {
	prevRanks := make(map[string]*int, len(prior))
	for _, r := range prior {
		prevRanks[r.TeamID] = r.CurrentRank
	}
	for i := range incoming {
		if rank, ok := prevRanks[incoming[i].TeamID]; ok && rank != nil {
			v := *rank
			incoming[i].PreviousRank = &v
		} else {
			incoming[i].PreviousRank = nil
		}
	}
}
