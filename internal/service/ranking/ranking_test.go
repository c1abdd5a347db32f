package ranking

import (
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/reelmatch/core/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poolOf(n int) []model.PoolItem {
	pool := make([]model.PoolItem, 0, n)
	for i := 0; i < n; i++ {
		id := strconv.Itoa(i + 1)
		pool = append(pool, model.PoolItem{
			TitleID:   id,
			MediaType: model.MediaMovie,
			Position:  i,
			Title:     "title " + id,
		})
	}
	return pool
}

func likes(pool []model.PoolItem, positions ...int) map[string]model.Vote {
	votes := make(map[string]model.Vote)
	for _, item := range pool {
		votes[item.Key()] = model.VoteNeutral
	}
	for _, p := range positions {
		votes[pool[p].Key()] = model.VoteLiked
	}
	return votes
}

func TestSelectFinalists(t *testing.T) {
	t.Run("ranks by likes then pool order", func(t *testing.T) {
		// p1 likes {1,2}, p2 likes {2,3}, p3 likes {2}: item 2 carries
		// 3 likes, items 1 and 3 tie with one like each.
		pool := poolOf(5)
		votes := map[uuid.UUID]map[string]model.Vote{
			uuid.New(): likes(pool, 0, 1),
			uuid.New(): likes(pool, 1, 2),
			uuid.New(): likes(pool, 1),
		}

		finalists := SelectFinalists(pool, votes)

		require.Len(t, finalists, 3)
		assert.Equal(t, "2", finalists[0].TitleID)
		assert.Equal(t, "1", finalists[1].TitleID)
		assert.Equal(t, "3", finalists[2].TitleID)
	})

	t.Run("breaks like ties by fewer dislikes", func(t *testing.T) {
		pool := poolOf(3)
		p1, p2 := uuid.New(), uuid.New()
		votes := map[uuid.UUID]map[string]model.Vote{
			p1: {
				pool[0].Key(): model.VoteLiked,
				pool[1].Key(): model.VoteLiked,
				pool[2].Key(): model.VoteNeutral,
			},
			p2: {
				pool[0].Key(): model.VoteDisliked,
				pool[1].Key(): model.VoteNeutral,
				pool[2].Key(): model.VoteLiked,
			},
		}

		finalists := SelectFinalists(pool, votes)

		require.Len(t, finalists, 3)
		// Items 1, 2 and 3 all hold one like; item 1 carries a dislike.
		assert.Equal(t, "2", finalists[0].TitleID)
		assert.Equal(t, "3", finalists[1].TitleID)
		assert.Equal(t, "1", finalists[2].TitleID)
	})

	t.Run("falls back to pool order when fewer than two items have likes", func(t *testing.T) {
		pool := poolOf(5)
		votes := map[uuid.UUID]map[string]model.Vote{
			uuid.New(): likes(pool, 3),
		}

		finalists := SelectFinalists(pool, votes)

		require.Len(t, finalists, 3)
		assert.Equal(t, "1", finalists[0].TitleID)
		assert.Equal(t, "2", finalists[1].TitleID)
		assert.Equal(t, "3", finalists[2].TitleID)
	})

	t.Run("is deterministic across reruns", func(t *testing.T) {
		pool := poolOf(10)
		votes := map[uuid.UUID]map[string]model.Vote{
			uuid.New(): likes(pool, 0, 4, 7),
			uuid.New(): likes(pool, 4, 7),
			uuid.New(): likes(pool, 7, 9),
		}

		first := SelectFinalists(pool, votes)
		for i := 0; i < 50; i++ {
			assert.Equal(t, first, SelectFinalists(pool, votes))
		}
	})

	t.Run("handles empty vote set", func(t *testing.T) {
		pool := poolOf(5)

		finalists := SelectFinalists(pool, map[uuid.UUID]map[string]model.Vote{})

		require.Len(t, finalists, 3)
		assert.Equal(t, "1", finalists[0].TitleID)
	})

	t.Run("short pool yields short finalist set", func(t *testing.T) {
		pool := poolOf(2)

		finalists := SelectFinalists(pool, map[uuid.UUID]map[string]model.Vote{})

		assert.Len(t, finalists, 2)
	})
}

func TestResolveWinner(t *testing.T) {
	t.Run("picks the title with most final votes", func(t *testing.T) {
		pool := poolOf(5)
		finalists := []model.PoolItem{pool[1], pool[0], pool[2]} // {2,1,3}
		finalVotes := map[uuid.UUID]string{
			uuid.New(): "2",
			uuid.New(): "2",
			uuid.New(): "1",
		}

		winner, ok := ResolveWinner(finalists, finalVotes)

		require.True(t, ok)
		assert.Equal(t, "2", winner.TitleID)
	})

	t.Run("breaks vote ties by finalist order", func(t *testing.T) {
		pool := poolOf(5)
		finalists := []model.PoolItem{pool[1], pool[0], pool[2]}
		finalVotes := map[uuid.UUID]string{
			uuid.New(): "1",
			uuid.New(): "2",
		}

		winner, ok := ResolveWinner(finalists, finalVotes)

		require.True(t, ok)
		assert.Equal(t, "2", winner.TitleID)
	})

	t.Run("tolerates an empty final vote set", func(t *testing.T) {
		pool := poolOf(3)
		finalists := []model.PoolItem{pool[2], pool[0]}

		winner, ok := ResolveWinner(finalists, nil)

		require.True(t, ok)
		assert.Equal(t, "3", winner.TitleID)
	})

	t.Run("fails on empty finalist set", func(t *testing.T) {
		_, ok := ResolveWinner(nil, nil)

		assert.False(t, ok)
	})
}

func TestTallies(t *testing.T) {
	pool := poolOf(3)
	p1 := uuid.New()
	votes := map[uuid.UUID]map[string]model.Vote{
		p1: {
			pool[0].Key(): model.VoteLiked,
			pool[1].Key(): model.VoteDisliked,
			"999:movie":   model.VoteLiked, // not in pool, ignored
		},
	}

	tallies := Tallies(pool, votes)

	require.Len(t, tallies, 3)
	assert.Equal(t, 1, tallies[0].Liked)
	assert.Equal(t, 1, tallies[1].Disliked)
	assert.Equal(t, 0, tallies[2].Liked)
}
