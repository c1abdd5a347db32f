package usecase_session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/reelmatch/core/internal/model"
	"github.com/reelmatch/core/internal/service/codegen"
	"github.com/reelmatch/core/internal/service/projection"
)

var (
	ErrNoCodesAvailable   = errors.New("no available codes")
	ErrInternal           = errors.New("internal error")
	ErrNotHost            = errors.New("only the host can do this")
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// Shared with the session driver so errors.Is matches across layers.
	ErrCodeConflict     = model.ErrCodeConflict
	ErrResourceNotFound = model.ErrNotFound
	ErrInvalidPhase     = model.ErrInvalidPhase
	ErrPhaseConflict    = model.ErrPhaseConflict
	ErrForbidden        = model.ErrForbidden
	ErrInvalidInput     = model.ErrInvalidInput
	ErrNotEnoughJoined  = model.ErrNotEnough
	ErrUnavailable      = model.ErrUnavailable
)

//go:generate mockery --name=SessionRepository --output=./mocks/repository --filename=repository.go
type SessionRepository interface {
	CreateSession(ctx context.Context, session model.Session, host model.Participant) error
	JoinSession(ctx context.Context, code string, participant model.Participant) (model.Session, []model.Participant, error)
	SessionByID(ctx context.Context, id uuid.UUID) (model.Session, error)
	Participants(ctx context.Context, id uuid.UUID) ([]model.Participant, error)

	// FreezePool writes the pool and moves lobby -> pool_ready as one
	// conditional update, guarded by the participant-count minimum.
	FreezePool(ctx context.Context, id uuid.UUID, pool []model.PoolItem) error
	// AdvanceStatus is a bare conditional status flip (pool_ready -> swiping).
	AdvanceStatus(ctx context.Context, id uuid.UUID, from, to model.SessionStatus) error
	// PromoteFinalists computes and stores finalists while moving
	// swiping -> final_voting; guard and ranking run in one transaction.
	PromoteFinalists(ctx context.Context, id uuid.UUID) (model.Session, error)
	// CompleteSession resolves the winner while moving final_voting -> completed.
	CompleteSession(ctx context.Context, id uuid.UUID) (model.Session, error)
}

//go:generate mockery --name=CatalogClient --output=./mocks/catalog --filename=catalog.go
type CatalogClient interface {
	BuildPool(ctx context.Context, filter model.MediaFilter, providerIDs []string, region string) ([]model.PoolItem, error)
}

type Usecase struct {
	repository SessionRepository
	catalog    CatalogClient
}

func New(repository SessionRepository, catalog CatalogClient) *Usecase {
	return &Usecase{
		repository: repository,
		catalog:    catalog,
	}
}

type HostInfo struct {
	DisplayName string
	ProviderIDs []string
}

// Create books a session in lobby with the creator as first participant.
// Codes are only unique among non-completed sessions, so a clash is
// retried with a fresh draw before giving up.
func (u *Usecase) Create(ctx context.Context, cfg model.SessionConfig, host HostInfo) (model.Session, model.Participant, error) {
	if err := validateConfig(&cfg); err != nil {
		return model.Session{}, model.Participant{}, err
	}

	hostParticipant := model.Participant{
		ID:          uuid.New(),
		DisplayName: host.DisplayName,
		ProviderIDs: host.ProviderIDs,
	}

	var retries = 5
	for retries > 0 {
		session := model.Session{
			ID:     uuid.New(),
			Code:   codegen.Generate(),
			HostID: hostParticipant.ID,
			Status: model.StatusLobby,
			Config: cfg,
		}
		hostParticipant.SessionID = session.ID

		if err := u.repository.CreateSession(ctx, session, hostParticipant); err != nil {
			if errors.Is(err, ErrCodeConflict) {
				retries--
				continue
			}
			return model.Session{}, model.Participant{}, errors.Join(ErrInternal, err)
		}
		return session, hostParticipant, nil
	}
	return model.Session{}, model.Participant{}, ErrNoCodesAvailable
}

type JoinInfo struct {
	DisplayName string
	ProviderIDs []string
}

// Join is idempotent per participant id: a returning participant gets the
// current roster back, never a duplicate row.
func (u *Usecase) Join(ctx context.Context, code string, participantID uuid.UUID, info JoinInfo) (model.Session, []model.Participant, error) {
	participant := model.Participant{
		ID:          participantID,
		DisplayName: info.DisplayName,
		ProviderIDs: info.ProviderIDs,
	}

	session, roster, err := u.repository.JoinSession(ctx, code, participant)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) || errors.Is(err, ErrInvalidPhase) {
			return model.Session{}, nil, err
		}
		return model.Session{}, nil, errors.Join(ErrInternal, err)
	}
	return session, roster, nil
}

// Start drives lobby -> pool_ready -> swiping. The catalog call happens
// while the session still sits in lobby; the pool write and the first flip
// are one conditional update, so two racing hosts cannot freeze two pools.
func (u *Usecase) Start(ctx context.Context, sessionID, requesterID uuid.UUID) (model.Session, error) {
	session, err := u.sessionForHost(ctx, sessionID, requesterID)
	if err != nil {
		return model.Session{}, err
	}

	switch session.Status {
	case model.StatusLobby:
		participants, err := u.repository.Participants(ctx, sessionID)
		if err != nil {
			return model.Session{}, errors.Join(ErrInternal, err)
		}

		pool, err := u.catalog.BuildPool(ctx, session.Config.MediaFilter, unionProviderIDs(participants), session.Config.ProviderRegion)
		if err != nil {
			return model.Session{}, errors.Join(ErrCatalogUnavailable, err)
		}

		if err := u.repository.FreezePool(ctx, sessionID, pool); err != nil {
			if errors.Is(err, ErrInvalidPhase) || errors.Is(err, ErrPhaseConflict) || errors.Is(err, ErrNotEnoughJoined) {
				return model.Session{}, err
			}
			return model.Session{}, errors.Join(ErrInternal, err)
		}
	case model.StatusPoolReady:
		// Crash-recovery path: pool already frozen, only the flip left.
	default:
		return model.Session{}, ErrInvalidPhase
	}

	if err := u.repository.AdvanceStatus(ctx, sessionID, model.StatusPoolReady, model.StatusSwiping); err != nil {
		if errors.Is(err, ErrPhaseConflict) {
			return model.Session{}, err
		}
		return model.Session{}, errors.Join(ErrInternal, err)
	}

	session, err = u.repository.SessionByID(ctx, sessionID)
	if err != nil {
		return model.Session{}, errors.Join(ErrInternal, err)
	}
	return session, nil
}

// AdvanceToFinalVoting is the host override for swiping -> final_voting.
// Finalist computation tolerates a partial vote set.
func (u *Usecase) AdvanceToFinalVoting(ctx context.Context, sessionID, requesterID uuid.UUID) (model.Session, error) {
	if _, err := u.sessionForHost(ctx, sessionID, requesterID); err != nil {
		return model.Session{}, err
	}

	session, err := u.repository.PromoteFinalists(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrInvalidPhase) || errors.Is(err, ErrResourceNotFound) {
			return model.Session{}, err
		}
		return model.Session{}, errors.Join(ErrInternal, err)
	}
	return session, nil
}

// Complete is the host override for final_voting -> completed.
func (u *Usecase) Complete(ctx context.Context, sessionID, requesterID uuid.UUID) (model.Session, error) {
	if _, err := u.sessionForHost(ctx, sessionID, requesterID); err != nil {
		return model.Session{}, err
	}

	session, err := u.repository.CompleteSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrInvalidPhase) || errors.Is(err, ErrResourceNotFound) {
			return model.Session{}, err
		}
		return model.Session{}, errors.Join(ErrInternal, err)
	}
	return session, nil
}

// View projects session state for one polling participant. Read-only.
func (u *Usecase) View(ctx context.Context, sessionID, requesterID uuid.UUID) (projection.View, error) {
	session, err := u.repository.SessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return projection.View{}, ErrResourceNotFound
		}
		return projection.View{}, errors.Join(ErrInternal, err)
	}

	participants, err := u.repository.Participants(ctx, sessionID)
	if err != nil {
		return projection.View{}, errors.Join(ErrInternal, err)
	}

	if !isParticipant(participants, requesterID) {
		return projection.View{}, ErrForbidden
	}

	return projection.Build(&session, participants, requesterID), nil
}

// Roster is the plain participant list, used by delivery to rebuild views
// after a transition.
func (u *Usecase) Roster(ctx context.Context, sessionID uuid.UUID) ([]model.Participant, error) {
	participants, err := u.repository.Participants(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, errors.Join(ErrInternal, err)
	}
	return participants, nil
}

func (u *Usecase) sessionForHost(ctx context.Context, sessionID, requesterID uuid.UUID) (model.Session, error) {
	session, err := u.repository.SessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return model.Session{}, ErrResourceNotFound
		}
		return model.Session{}, errors.Join(ErrInternal, err)
	}
	if session.HostID != requesterID {
		return model.Session{}, ErrNotHost
	}
	return session, nil
}

func validateConfig(cfg *model.SessionConfig) error {
	switch cfg.MediaFilter {
	case model.FilterMovie, model.FilterTV, model.FilterBoth:
	default:
		return ErrInvalidInput
	}
	if cfg.MinParticipants <= 0 {
		cfg.MinParticipants = 2
	}
	return nil
}

func unionProviderIDs(participants []model.Participant) []string {
	seen := make(map[string]struct{})
	union := make([]string, 0)
	for _, p := range participants {
		for _, id := range p.ProviderIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			union = append(union, id)
		}
	}
	return union
}

func isParticipant(participants []model.Participant, id uuid.UUID) bool {
	for _, p := range participants {
		if p.ID == id {
			return true
		}
	}
	return false
}
