package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus = string

// Forward-only. A session never revisits a status.
const (
	StatusLobby       SessionStatus = "lobby"
	StatusPoolReady   SessionStatus = "pool_ready"
	StatusSwiping     SessionStatus = "swiping"
	StatusFinalVoting SessionStatus = "final_voting"
	StatusCompleted   SessionStatus = "completed"
)

type MediaFilter = string

const (
	FilterMovie MediaFilter = "movie"
	FilterTV    MediaFilter = "tv"
	FilterBoth  MediaFilter = "both"
)

type SessionConfig struct {
	MediaFilter     MediaFilter
	ProviderRegion  string
	MinParticipants int
}

type Session struct {
	ID     uuid.UUID
	Code   string
	HostID uuid.UUID
	Status SessionStatus

	Config SessionConfig

	Pool        []PoolItem
	Votes       map[uuid.UUID]map[string]Vote
	FinalVotes  map[uuid.UUID]string
	FinalistIDs []string
	FinalPick   *PoolItem

	CreatedAt time.Time
}

type Participant struct {
	ID          uuid.UUID
	SessionID   uuid.UUID
	DisplayName string
	ProviderIDs []string
	JoinedAt    time.Time
}
