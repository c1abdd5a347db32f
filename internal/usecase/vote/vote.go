package usecase_vote

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/reelmatch/core/internal/model"
)

var (
	ErrInternal = errors.New("internal error")

	// Shared with the session driver so errors.Is matches across layers.
	ErrResourceNotFound = model.ErrNotFound
	ErrInvalidPhase     = model.ErrInvalidPhase
	ErrPhaseConflict    = model.ErrPhaseConflict
	ErrForbidden        = model.ErrForbidden
	ErrInvalidInput     = model.ErrInvalidInput
	ErrInvalidChoice    = model.ErrInvalidChoice
	ErrUnavailable      = model.ErrUnavailable
)

//go:generate mockery --name=VoteRepository --output=./mocks/repository --filename=repository.go
type VoteRepository interface {
	// ApplyVote upserts one leaf of the vote map under the swiping-phase
	// guard and returns the participant's distinct-key count after the write.
	ApplyVote(ctx context.Context, sessionID, participantID uuid.UUID, key string, vote model.Vote) (int, error)
	// SwipeProgress reports per-participant vote counts and the pool size.
	SwipeProgress(ctx context.Context, sessionID uuid.UUID) (map[uuid.UUID]int, int, error)
	// ApplyFinalVote upserts the participant's single final choice under the
	// final_voting guard. Overwritable until completion.
	ApplyFinalVote(ctx context.Context, sessionID, participantID uuid.UUID, titleID string) error
	// FinalVoteProgress reports how many of the roster have a final vote in.
	FinalVoteProgress(ctx context.Context, sessionID uuid.UUID) (voted int, total int, err error)

	PromoteFinalists(ctx context.Context, sessionID uuid.UUID) (model.Session, error)
	CompleteSession(ctx context.Context, sessionID uuid.UUID) (model.Session, error)
}

type Usecase struct {
	repository VoteRepository

	// Swipes per participant before the session may auto-advance.
	// 0 means the whole pool.
	minSwipes int

	logger *slog.Logger
}

func New(repository VoteRepository, minSwipes int) *Usecase {
	return &Usecase{
		repository: repository,
		minSwipes:  minSwipes,
		logger:     slog.Default(),
	}
}

// SubmitVote records one swipe. Last write wins per key. Once every
// participant hits the completion threshold the session auto-advances to
// final voting; losing that race to a concurrent caller is not an error.
func (u *Usecase) SubmitVote(ctx context.Context, sessionID, participantID uuid.UUID, key string, vote model.Vote) (int, error) {
	if !model.IsValidVote(vote) || !isValidKey(key) {
		return 0, ErrInvalidInput
	}

	count, err := u.repository.ApplyVote(ctx, sessionID, participantID, key, vote)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) ||
			errors.Is(err, ErrInvalidPhase) ||
			errors.Is(err, ErrForbidden) ||
			errors.Is(err, ErrInvalidInput) {
			return 0, err
		}
		return 0, errors.Join(ErrInternal, err)
	}

	u.maybeAdvance(ctx, sessionID)

	return count, nil
}

// SubmitFinalVote records the participant's one final choice.
func (u *Usecase) SubmitFinalVote(ctx context.Context, sessionID, participantID uuid.UUID, titleID string) error {
	if titleID == "" {
		return ErrInvalidInput
	}

	if err := u.repository.ApplyFinalVote(ctx, sessionID, participantID, titleID); err != nil {
		if errors.Is(err, ErrResourceNotFound) ||
			errors.Is(err, ErrInvalidPhase) ||
			errors.Is(err, ErrForbidden) ||
			errors.Is(err, ErrInvalidChoice) {
			return err
		}
		return errors.Join(ErrInternal, err)
	}

	u.maybeComplete(ctx, sessionID)

	return nil
}

// maybeAdvance promotes finalists once every participant reached the
// threshold. The vote itself already landed, so failures here only get
// logged; a phase conflict just means somebody else won the promotion.
func (u *Usecase) maybeAdvance(ctx context.Context, sessionID uuid.UUID) {
	counts, poolSize, err := u.repository.SwipeProgress(ctx, sessionID)
	if err != nil {
		u.logger.Error("failed to check swipe progress",
			slog.String("session_id", sessionID.String()), slog.String("error", err.Error()))
		return
	}

	threshold := poolSize
	if u.minSwipes > 0 && u.minSwipes < poolSize {
		threshold = u.minSwipes
	}

	if len(counts) == 0 {
		return
	}
	for _, c := range counts {
		if c < threshold {
			return
		}
	}

	if _, err := u.repository.PromoteFinalists(ctx, sessionID); err != nil &&
		!errors.Is(err, ErrInvalidPhase) && !errors.Is(err, ErrPhaseConflict) {
		u.logger.Error("failed to auto-advance to final voting",
			slog.String("session_id", sessionID.String()), slog.String("error", err.Error()))
	}
}

func (u *Usecase) maybeComplete(ctx context.Context, sessionID uuid.UUID) {
	voted, total, err := u.repository.FinalVoteProgress(ctx, sessionID)
	if err != nil {
		u.logger.Error("failed to check final vote progress",
			slog.String("session_id", sessionID.String()), slog.String("error", err.Error()))
		return
	}
	if total == 0 || voted < total {
		return
	}

	if _, err := u.repository.CompleteSession(ctx, sessionID); err != nil &&
		!errors.Is(err, ErrInvalidPhase) && !errors.Is(err, ErrPhaseConflict) {
		u.logger.Error("failed to auto-complete session",
			slog.String("session_id", sessionID.String()), slog.String("error", err.Error()))
	}
}

// Vote keys look like "<title id>:<media type>".
func isValidKey(key string) bool {
	id, media, ok := strings.Cut(key, ":")
	if !ok || id == "" {
		return false
	}
	return media == model.MediaMovie || media == model.MediaTV
}
