package usecase_vote

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/reelmatch/core/internal/model"
	repo_mocks "github.com/reelmatch/core/internal/usecase/vote/mocks/repository"
	"github.com/stretchr/testify/assert"
)

type UsecaseVoteUnitSuite struct {
	suite.Suite
}

type resources struct {
	usecase *Usecase
	repo    *repo_mocks.VoteRepository
	ctx     context.Context
}

func initResources(t provider.T, minSwipes int) *resources {
	repo := repo_mocks.NewVoteRepository(t)
	usecase := New(repo, minSwipes)

	return &resources{
		usecase: usecase,
		repo:    repo,
		ctx:     context.Background(),
	}
}

func (suite *UsecaseVoteUnitSuite) TestSubmitVote(t provider.T) {
	t.Parallel()

	sessionID := uuid.New()
	participantID := uuid.New()

	testCases := []struct {
		name          string
		key           string
		vote          model.Vote
		setupMocks    func(r *resources)
		expectedCount int
		expectError   bool
		expectedError error
	}{
		{
			name: "Should record swipe and report vote count",
			key:  "100:movie",
			vote: model.VoteLiked,
			setupMocks: func(r *resources) {
				r.repo.On("ApplyVote", r.ctx, sessionID, participantID, "100:movie", model.VoteLiked).
					Return(3, nil).Once()
				r.repo.On("SwipeProgress", r.ctx, sessionID).
					Return(map[uuid.UUID]int{participantID: 3, uuid.New(): 1}, 5, nil).Once()
			},
			expectedCount: 3,
			expectError:   false,
		},
		{
			name:          "Should reject unknown vote value without touching storage",
			key:           "100:movie",
			vote:          "maybe",
			setupMocks:    func(r *resources) {},
			expectError:   true,
			expectedError: ErrInvalidInput,
		},
		{
			name:          "Should reject malformed key without touching storage",
			key:           "100",
			vote:          model.VoteLiked,
			setupMocks:    func(r *resources) {},
			expectError:   true,
			expectedError: ErrInvalidInput,
		},
		{
			name:          "Should reject key with unknown media type",
			key:           "100:book",
			vote:          model.VoteLiked,
			setupMocks:    func(r *resources) {},
			expectError:   true,
			expectedError: ErrInvalidInput,
		},
		{
			name: "Should pass through a phase error from storage",
			key:  "100:movie",
			vote: model.VoteNeutral,
			setupMocks: func(r *resources) {
				r.repo.On("ApplyVote", r.ctx, sessionID, participantID, "100:movie", model.VoteNeutral).
					Return(0, ErrInvalidPhase).Once()
			},
			expectError:   true,
			expectedError: ErrInvalidPhase,
		},
		{
			name: "Should pass through forbidden for a stranger",
			key:  "100:movie",
			vote: model.VoteDisliked,
			setupMocks: func(r *resources) {
				r.repo.On("ApplyVote", r.ctx, sessionID, participantID, "100:movie", model.VoteDisliked).
					Return(0, ErrForbidden).Once()
			},
			expectError:   true,
			expectedError: ErrForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t, 0)
			tc.setupMocks(r)

			count, err := r.usecase.SubmitVote(r.ctx, sessionID, participantID, tc.key, tc.vote)

			if tc.expectError {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Zero(t, count)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedCount, count)
			}
			r.repo.AssertExpectations(t)
		})
	}
}

func (suite *UsecaseVoteUnitSuite) TestSubmitVoteAutoAdvance(t provider.T) {
	t.Parallel()

	sessionID := uuid.New()
	p1 := uuid.New()
	p2 := uuid.New()

	testCases := []struct {
		name       string
		minSwipes  int
		setupMocks func(r *resources)
	}{
		{
			name:      "Should promote finalists once everybody swiped the whole pool",
			minSwipes: 0,
			setupMocks: func(r *resources) {
				r.repo.On("ApplyVote", r.ctx, sessionID, p1, "100:movie", model.VoteLiked).
					Return(5, nil).Once()
				r.repo.On("SwipeProgress", r.ctx, sessionID).
					Return(map[uuid.UUID]int{p1: 5, p2: 5}, 5, nil).Once()
				r.repo.On("PromoteFinalists", r.ctx, sessionID).
					Return(model.Session{ID: sessionID, Status: model.StatusFinalVoting}, nil).Once()
			},
		},
		{
			name:      "Should honor the configured swipe threshold",
			minSwipes: 3,
			setupMocks: func(r *resources) {
				r.repo.On("ApplyVote", r.ctx, sessionID, p1, "100:movie", model.VoteLiked).
					Return(3, nil).Once()
				r.repo.On("SwipeProgress", r.ctx, sessionID).
					Return(map[uuid.UUID]int{p1: 3, p2: 4}, 5, nil).Once()
				r.repo.On("PromoteFinalists", r.ctx, sessionID).
					Return(model.Session{ID: sessionID, Status: model.StatusFinalVoting}, nil).Once()
			},
		},
		{
			name:      "Should hold while anybody is behind the threshold",
			minSwipes: 0,
			setupMocks: func(r *resources) {
				r.repo.On("ApplyVote", r.ctx, sessionID, p1, "100:movie", model.VoteLiked).
					Return(5, nil).Once()
				r.repo.On("SwipeProgress", r.ctx, sessionID).
					Return(map[uuid.UUID]int{p1: 5, p2: 2}, 5, nil).Once()
			},
		},
		{
			name:      "Should swallow a lost promotion race",
			minSwipes: 0,
			setupMocks: func(r *resources) {
				r.repo.On("ApplyVote", r.ctx, sessionID, p1, "100:movie", model.VoteLiked).
					Return(5, nil).Once()
				r.repo.On("SwipeProgress", r.ctx, sessionID).
					Return(map[uuid.UUID]int{p1: 5, p2: 5}, 5, nil).Once()
				r.repo.On("PromoteFinalists", r.ctx, sessionID).
					Return(model.Session{}, ErrPhaseConflict).Once()
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t, tc.minSwipes)
			tc.setupMocks(r)

			count, err := r.usecase.SubmitVote(r.ctx, sessionID, p1, "100:movie", model.VoteLiked)

			// The swipe itself always lands; auto-advance runs best effort.
			assert.NoError(t, err)
			assert.NotZero(t, count)
			r.repo.AssertExpectations(t)
		})
	}
}

func (suite *UsecaseVoteUnitSuite) TestSubmitFinalVote(t provider.T) {
	t.Parallel()

	sessionID := uuid.New()
	participantID := uuid.New()

	testCases := []struct {
		name          string
		titleID       string
		setupMocks    func(r *resources)
		expectError   bool
		expectedError error
	}{
		{
			name:    "Should record final vote",
			titleID: "200",
			setupMocks: func(r *resources) {
				r.repo.On("ApplyFinalVote", r.ctx, sessionID, participantID, "200").
					Return(nil).Once()
				r.repo.On("FinalVoteProgress", r.ctx, sessionID).
					Return(1, 3, nil).Once()
			},
			expectError: false,
		},
		{
			name:          "Should reject empty title id",
			titleID:       "",
			setupMocks:    func(r *resources) {},
			expectError:   true,
			expectedError: ErrInvalidInput,
		},
		{
			name:    "Should pass through a non-finalist choice",
			titleID: "999",
			setupMocks: func(r *resources) {
				r.repo.On("ApplyFinalVote", r.ctx, sessionID, participantID, "999").
					Return(ErrInvalidChoice).Once()
			},
			expectError:   true,
			expectedError: ErrInvalidChoice,
		},
		{
			name:    "Should pass through a phase error",
			titleID: "200",
			setupMocks: func(r *resources) {
				r.repo.On("ApplyFinalVote", r.ctx, sessionID, participantID, "200").
					Return(ErrInvalidPhase).Once()
			},
			expectError:   true,
			expectedError: ErrInvalidPhase,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t, 0)
			tc.setupMocks(r)

			err := r.usecase.SubmitFinalVote(r.ctx, sessionID, participantID, tc.titleID)

			if tc.expectError {
				assert.ErrorIs(t, err, tc.expectedError)
			} else {
				assert.NoError(t, err)
			}
			r.repo.AssertExpectations(t)
		})
	}
}

func (suite *UsecaseVoteUnitSuite) TestSubmitFinalVoteAutoComplete(t provider.T) {
	t.Parallel()

	sessionID := uuid.New()
	participantID := uuid.New()

	testCases := []struct {
		name       string
		setupMocks func(r *resources)
	}{
		{
			name: "Should complete once the last final vote lands",
			setupMocks: func(r *resources) {
				r.repo.On("ApplyFinalVote", r.ctx, sessionID, participantID, "200").
					Return(nil).Once()
				r.repo.On("FinalVoteProgress", r.ctx, sessionID).
					Return(3, 3, nil).Once()
				r.repo.On("CompleteSession", r.ctx, sessionID).
					Return(model.Session{ID: sessionID, Status: model.StatusCompleted}, nil).Once()
			},
		},
		{
			name: "Should swallow a lost completion race",
			setupMocks: func(r *resources) {
				r.repo.On("ApplyFinalVote", r.ctx, sessionID, participantID, "200").
					Return(nil).Once()
				r.repo.On("FinalVoteProgress", r.ctx, sessionID).
					Return(3, 3, nil).Once()
				r.repo.On("CompleteSession", r.ctx, sessionID).
					Return(model.Session{}, ErrPhaseConflict).Once()
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t, 0)
			tc.setupMocks(r)

			err := r.usecase.SubmitFinalVote(r.ctx, sessionID, participantID, "200")

			assert.NoError(t, err)
			r.repo.AssertExpectations(t)
		})
	}
}

func TestUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseVoteUnitSuite))
}
