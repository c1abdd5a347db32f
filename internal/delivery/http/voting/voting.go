package http_voting

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/reelmatch/core/internal/delivery/http/common"
	http_auth_middleware "github.com/reelmatch/core/internal/delivery/http/middleware/auth"
	usecase_vote "github.com/reelmatch/core/internal/usecase/vote"
)

type Controller struct {
	uc   *usecase_vote.Usecase
	auth *http_auth_middleware.Middleware

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(
	uc *usecase_vote.Usecase,
	auth *http_auth_middleware.Middleware,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		uc:     uc,
		auth:   auth,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	voting := router.Group("/sessions/:session_id", c.auth.ParticipantRequired())
	voting.POST("/votes", c.vote)
	voting.POST("/final-votes", c.finalVote)
}

// VoteRequestDTO is one swipe.
type VoteRequestDTO struct {
	Key  string `json:"key" binding:"required" example:"550:movie"`
	Vote string `json:"vote" binding:"required" enums:"liked,neutral,disliked"`
}

type VoteResponseDTO struct {
	Accepted    bool `json:"accepted"`
	MyVoteCount int  `json:"my_vote_count"`
}

// Vote records one swipe for a pool item
// @Summary Submit a swipe vote
// @Description Applies liked/neutral/disliked for one pool item; resubmitting a key overwrites
// @Tags Voting
// @Accept json
// @Produce json
// @Param session_id path string true "Session id"
// @Param request body VoteRequestDTO true "Swipe vote"
// @Success 200 {object} VoteResponseDTO "Vote applied"
// @Failure 400 {object} http_common.ErrorResponse "Malformed vote or key not in pool"
// @Failure 401 {object} http_common.ErrorResponse "No valid identity"
// @Failure 403 {object} http_common.ErrorResponse "Not a participant"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Failure 409 {object} http_common.ErrorResponse "Session is not in swiping"
// @Failure 500 {object} http_common.ErrorResponse "Internal error"
// @Security UserToken
// @Router /sessions/{session_id}/votes [post]
func (c *Controller) vote(ctx *gin.Context) {
	sessionID, err := uuid.Parse(ctx.Param("session_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid session id"})
		return
	}

	var req VoteRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid request format"})
		return
	}

	count, err := c.uc.SubmitVote(ctx, sessionID, http_auth_middleware.ParticipantID(ctx), req.Key, req.Vote)
	if err != nil {
		c.respondError(ctx, "failed to submit vote", sessionID, err)
		return
	}

	ctx.JSON(http.StatusOK, VoteResponseDTO{
		Accepted:    true,
		MyVoteCount: count,
	})
}

// FinalVoteRequestDTO picks one finalist.
type FinalVoteRequestDTO struct {
	TitleID string `json:"title_id" binding:"required" example:"550"`
}

type FinalVoteResponseDTO struct {
	Accepted bool `json:"accepted"`
}

// FinalVote records the participant's final choice
// @Summary Submit a final vote
// @Description Applies the participant's single finalist choice; overwritable until completion
// @Tags Voting
// @Accept json
// @Produce json
// @Param session_id path string true "Session id"
// @Param request body FinalVoteRequestDTO true "Final vote"
// @Success 200 {object} FinalVoteResponseDTO "Final vote applied"
// @Failure 400 {object} http_common.ErrorResponse "Title is not a finalist"
// @Failure 401 {object} http_common.ErrorResponse "No valid identity"
// @Failure 403 {object} http_common.ErrorResponse "Not a participant"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Failure 409 {object} http_common.ErrorResponse "Session is not in final voting"
// @Failure 500 {object} http_common.ErrorResponse "Internal error"
// @Security UserToken
// @Router /sessions/{session_id}/final-votes [post]
func (c *Controller) finalVote(ctx *gin.Context) {
	sessionID, err := uuid.Parse(ctx.Param("session_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid session id"})
		return
	}

	var req FinalVoteRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid request format"})
		return
	}

	if err := c.uc.SubmitFinalVote(ctx, sessionID, http_auth_middleware.ParticipantID(ctx), req.TitleID); err != nil {
		c.respondError(ctx, "failed to submit final vote", sessionID, err)
		return
	}

	ctx.JSON(http.StatusOK, FinalVoteResponseDTO{Accepted: true})
}

func (c *Controller) respondError(ctx *gin.Context, msg string, sessionID uuid.UUID, err error) {
	c.logger.Error(msg, slog.String("session_id", sessionID.String()), slog.String("error", err.Error()))
	switch {
	case errors.Is(err, usecase_vote.ErrResourceNotFound):
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "not found"})
	case errors.Is(err, usecase_vote.ErrForbidden):
		ctx.JSON(http.StatusForbidden, http_common.ErrorResponse{Message: "not a participant of this session"})
	case errors.Is(err, usecase_vote.ErrInvalidPhase), errors.Is(err, usecase_vote.ErrPhaseConflict):
		ctx.JSON(http.StatusConflict, http_common.ErrorResponse{Message: "not allowed in current phase"})
	case errors.Is(err, usecase_vote.ErrInvalidInput), errors.Is(err, usecase_vote.ErrInvalidChoice):
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid vote"})
	case errors.Is(err, usecase_vote.ErrUnavailable):
		ctx.JSON(http.StatusServiceUnavailable, http_common.ErrorResponse{Message: "temporarily unavailable"})
	default:
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
	}
}
