package projection

import (
	"testing"

	"github.com/google/uuid"
	"github.com/reelmatch/core/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureSession(status model.SessionStatus) (*model.Session, []model.Participant) {
	host := uuid.New()
	guest := uuid.New()
	pool := []model.PoolItem{
		{TitleID: "10", MediaType: model.MediaMovie, Position: 0, Title: "first"},
		{TitleID: "20", MediaType: model.MediaMovie, Position: 1, Title: "second"},
		{TitleID: "30", MediaType: model.MediaTV, Position: 2, Title: "third"},
	}

	s := &model.Session{
		ID:     uuid.New(),
		Code:   "ABCDE",
		HostID: host,
		Status: status,
		Config: model.SessionConfig{
			MediaFilter:     model.FilterBoth,
			ProviderRegion:  "US",
			MinParticipants: 2,
		},
		Pool: pool,
		Votes: map[uuid.UUID]map[string]model.Vote{
			host: {
				pool[0].Key(): model.VoteLiked,
				pool[1].Key(): model.VoteDisliked,
			},
			guest: {
				pool[0].Key(): model.VoteNeutral,
			},
		},
		FinalVotes:  map[uuid.UUID]string{guest: "20"},
		FinalistIDs: []string{"20", "10"},
		FinalPick:   &pool[1],
	}

	participants := []model.Participant{
		{ID: host, SessionID: s.ID, DisplayName: "host"},
		{ID: guest, SessionID: s.ID, DisplayName: "guest"},
	}
	return s, participants
}

func TestBuild(t *testing.T) {
	t.Run("exposes pool while swiping, hides finalists and pick", func(t *testing.T) {
		s, participants := fixtureSession(model.StatusSwiping)

		v := Build(s, participants, s.HostID)

		assert.Len(t, v.Pool, 3)
		assert.Empty(t, v.Finalists)
		assert.Nil(t, v.FinalPick)
	})

	t.Run("exposes finalists during final voting, hides pool and pick", func(t *testing.T) {
		s, participants := fixtureSession(model.StatusFinalVoting)

		v := Build(s, participants, s.HostID)

		assert.Empty(t, v.Pool)
		require.Len(t, v.Finalists, 2)
		assert.Equal(t, "20", v.Finalists[0].TitleID)
		assert.Equal(t, "10", v.Finalists[1].TitleID)
		assert.Nil(t, v.FinalPick)
	})

	t.Run("exposes final pick only once completed", func(t *testing.T) {
		s, participants := fixtureSession(model.StatusCompleted)

		v := Build(s, participants, s.HostID)

		require.NotNil(t, v.FinalPick)
		assert.Equal(t, "20", v.FinalPick.TitleID)
		assert.Empty(t, v.Pool)
	})

	t.Run("returns only the requester's own votes", func(t *testing.T) {
		s, participants := fixtureSession(model.StatusSwiping)
		guest := participants[1].ID

		v := Build(s, participants, guest)

		assert.Len(t, v.MyVotes, 1)
		assert.Equal(t, model.VoteNeutral, v.MyVotes["10:movie"])
		assert.Equal(t, "20", v.MyFinalVote)
	})

	t.Run("counts votes per participant without leaking choices", func(t *testing.T) {
		s, participants := fixtureSession(model.StatusSwiping)

		v := Build(s, participants, participants[1].ID)

		require.Len(t, v.Participants, 2)
		assert.Equal(t, 2, v.Participants[0].VoteCount)
		assert.Equal(t, 1, v.Participants[1].VoteCount)
		assert.False(t, v.Participants[0].FinalVoted)
		assert.True(t, v.Participants[1].FinalVoted)
	})

	t.Run("copies session metadata through", func(t *testing.T) {
		s, participants := fixtureSession(model.StatusLobby)

		v := Build(s, participants, s.HostID)

		assert.Equal(t, s.ID, v.SessionID)
		assert.Equal(t, "ABCDE", v.Code)
		assert.Equal(t, model.StatusLobby, v.Status)
		assert.Equal(t, s.HostID, v.HostID)
		assert.Equal(t, 2, v.MinParticipants)
	})
}
