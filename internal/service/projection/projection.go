package projection

import (
	"github.com/google/uuid"
	"github.com/reelmatch/core/internal/model"
)

// View is everything a polling client gets to see. Rebuilt from scratch on
// every poll; holds no state of its own.
type View struct {
	SessionID       uuid.UUID         `json:"session_id"`
	Code            string            `json:"code"`
	Status          string            `json:"status"`
	MediaFilter     string            `json:"media_filter"`
	ProviderRegion  string            `json:"provider_region"`
	MinParticipants int               `json:"min_participants"`
	HostID          uuid.UUID         `json:"host_id"`
	Participants    []ParticipantView `json:"participants"`

	MyVotes     map[string]model.Vote `json:"my_votes"`
	MyFinalVote string                `json:"my_final_vote,omitempty"`

	// Phase-gated: pool only up to swiping, finalists only from
	// final_voting, final pick only once completed.
	Pool      []model.PoolItem `json:"pool,omitempty"`
	Finalists []model.PoolItem `json:"finalists,omitempty"`
	FinalPick *model.PoolItem  `json:"final_pick,omitempty"`
}

type ParticipantView struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	VoteCount   int       `json:"vote_count"`
	FinalVoted  bool      `json:"final_voted"`
}

// Build projects raw session state into what requesterID may observe.
func Build(s *model.Session, participants []model.Participant, requesterID uuid.UUID) View {
	v := View{
		SessionID:       s.ID,
		Code:            s.Code,
		Status:          s.Status,
		MediaFilter:     s.Config.MediaFilter,
		ProviderRegion:  s.Config.ProviderRegion,
		MinParticipants: s.Config.MinParticipants,
		HostID:          s.HostID,
		Participants:    make([]ParticipantView, 0, len(participants)),
		MyVotes:         map[string]model.Vote{},
	}

	for _, p := range participants {
		_, finalVoted := s.FinalVotes[p.ID]
		v.Participants = append(v.Participants, ParticipantView{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			VoteCount:   len(s.Votes[p.ID]),
			FinalVoted:  finalVoted,
		})
	}

	for key, vote := range s.Votes[requesterID] {
		v.MyVotes[key] = vote
	}
	v.MyFinalVote = s.FinalVotes[requesterID]

	switch s.Status {
	case model.StatusLobby, model.StatusPoolReady, model.StatusSwiping:
		v.Pool = s.Pool
	case model.StatusFinalVoting:
		v.Finalists = finalists(s)
	case model.StatusCompleted:
		v.Finalists = finalists(s)
		v.FinalPick = s.FinalPick
	}

	return v
}

// finalists resolves FinalistIDs against the pool, keeping finalist order.
func finalists(s *model.Session) []model.PoolItem {
	out := make([]model.PoolItem, 0, len(s.FinalistIDs))
	for _, id := range s.FinalistIDs {
		for _, item := range s.Pool {
			if item.TitleID == id {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
