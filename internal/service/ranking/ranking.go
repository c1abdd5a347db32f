package ranking

import (
	"sort"

	"github.com/google/uuid"
	"github.com/reelmatch/core/internal/model"
)

// FinalistCount is how many pool items get promoted into the final round.
const FinalistCount = 3

// Tallies folds every participant's swipe map into per-item like/dislike
// counts, keeping pool order. Items nobody voted on still get a zero tally.
func Tallies(pool []model.PoolItem, votes map[uuid.UUID]map[string]model.Vote) []model.Tally {
	tallies := make([]model.Tally, len(pool))
	index := make(map[string]int, len(pool))
	for i, item := range pool {
		tallies[i] = model.Tally{Item: item}
		index[item.Key()] = i
	}

	for _, participantVotes := range votes {
		for key, vote := range participantVotes {
			i, ok := index[key]
			if !ok {
				continue
			}
			switch vote {
			case model.VoteLiked:
				tallies[i].Liked++
			case model.VoteDisliked:
				tallies[i].Disliked++
			}
		}
	}

	return tallies
}

// SelectFinalists ranks the pool by likes desc, then dislikes asc, then
// original pool order, and returns the top FinalistCount items. When fewer
// than 2 items collected any like the ranking carries no signal, so the
// finalists fall back to plain pool order.
func SelectFinalists(pool []model.PoolItem, votes map[uuid.UUID]map[string]model.Vote) []model.PoolItem {
	tallies := Tallies(pool, votes)

	likedItems := 0
	for _, t := range tallies {
		if t.Liked > 0 {
			likedItems++
		}
	}

	if likedItems >= 2 {
		sort.Slice(tallies, func(i, j int) bool {
			if tallies[i].Liked != tallies[j].Liked {
				return tallies[i].Liked > tallies[j].Liked
			}
			if tallies[i].Disliked != tallies[j].Disliked {
				return tallies[i].Disliked < tallies[j].Disliked
			}
			return tallies[i].Item.Position < tallies[j].Item.Position
		})
	}

	n := min(FinalistCount, len(tallies))
	finalists := make([]model.PoolItem, 0, n)
	for _, t := range tallies[:n] {
		finalists = append(finalists, t.Item)
	}
	return finalists
}

// ResolveWinner picks the finalist with the most final votes. Ties fall back
// to finalist order, which already encodes the liked/disliked/pool-order
// ranking, so resolution stays deterministic even on an empty or partial
// final vote set (forced completion).
func ResolveWinner(finalists []model.PoolItem, finalVotes map[uuid.UUID]string) (model.PoolItem, bool) {
	if len(finalists) == 0 {
		return model.PoolItem{}, false
	}

	counts := make(map[string]int, len(finalists))
	for _, titleID := range finalVotes {
		counts[titleID]++
	}

	winner := finalists[0]
	for _, f := range finalists[1:] {
		if counts[f.TitleID] > counts[winner.TitleID] {
			winner = f
		}
	}
	return winner, true
}

// IsFinalist reports whether titleID is eligible for a final vote.
func IsFinalist(finalistIDs []string, titleID string) bool {
	for _, id := range finalistIDs {
		if id == titleID {
			return true
		}
	}
	return false
}
