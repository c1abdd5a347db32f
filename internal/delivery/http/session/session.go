package http_session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/reelmatch/core/internal/delivery/http/common"
	http_auth_middleware "github.com/reelmatch/core/internal/delivery/http/middleware/auth"
	"github.com/reelmatch/core/internal/model"
	"github.com/reelmatch/core/internal/service/projection"
	usecase_session "github.com/reelmatch/core/internal/usecase/session"
)

type TokenIssuer interface {
	Issue(participantID uuid.UUID) (string, error)
	Resolve(token string) (uuid.UUID, error)
}

type Controller struct {
	usecase  *usecase_session.Usecase
	identity TokenIssuer
	auth     *http_auth_middleware.Middleware
	logger   *slog.Logger
}

func New(
	usecase *usecase_session.Usecase,
	identity TokenIssuer,
	auth *http_auth_middleware.Middleware,
) *Controller {
	return &Controller{
		usecase:  usecase,
		identity: identity,
		auth:     auth,
		logger:   slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	{
		sessions.POST("", c.create)
		sessions.POST("/join", c.join)

		authed := sessions.Group("", c.auth.ParticipantRequired())
		authed.GET("/:session_id/view", c.view)
		authed.POST("/:session_id/start", c.start)
		authed.POST("/:session_id/advance", c.advance)
		authed.POST("/:session_id/complete", c.complete)
	}
}

// CreateSessionRequestDTO is the host's session configuration.
type CreateSessionRequestDTO struct {
	DisplayName     string   `json:"display_name" binding:"required"`
	MediaFilter     string   `json:"media_filter" binding:"required" enums:"movie,tv,both"`
	ProviderRegion  string   `json:"provider_region" example:"US"`
	MinParticipants int      `json:"min_participants" example:"2"`
	ProviderIDs     []string `json:"provider_ids" example:"netflix,hulu"`
}

type CreateSessionResponseDTO struct {
	SessionID string `json:"session_id"`
	Code      string `json:"code"`
}

// Create books a new session with the caller as host
// @Summary Create a session
// @Description Creates a group matching session and returns its join code
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body CreateSessionRequestDTO true "Session configuration"
// @Success 201 {object} CreateSessionResponseDTO "Session created"
// @Header 201 {string} X-user-token "Host identity token"
// @Failure 400 {object} http_common.ErrorResponse "Invalid configuration"
// @Failure 500 {object} http_common.ErrorResponse "Internal error"
// @Failure 503 {object} http_common.ErrorResponse "No join codes available"
// @Router /sessions [post]
func (c *Controller) create(ctx *gin.Context) {
	var req CreateSessionRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	session, host, err := c.usecase.Create(ctx, model.SessionConfig{
		MediaFilter:     req.MediaFilter,
		ProviderRegion:  req.ProviderRegion,
		MinParticipants: req.MinParticipants,
	}, usecase_session.HostInfo{
		DisplayName: req.DisplayName,
		ProviderIDs: req.ProviderIDs,
	})
	if err != nil {
		c.logger.Error("failed to create session", slog.String("error", err.Error()))
		switch {
		case errors.Is(err, usecase_session.ErrInvalidInput):
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "invalid configuration"})
		case errors.Is(err, usecase_session.ErrNoCodesAvailable), errors.Is(err, usecase_session.ErrUnavailable):
			ctx.JSON(http.StatusServiceUnavailable, http_common.ErrorResponse{Message: "unavailable"})
		default:
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		}
		return
	}

	token, err := c.identity.Issue(host.ID)
	if err != nil {
		c.logger.Error("failed to issue host token", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	ctx.Header(http_auth_middleware.TokenHeader, token)
	ctx.JSON(http.StatusCreated, CreateSessionResponseDTO{
		SessionID: session.ID.String(),
		Code:      session.Code,
	})
}

// JoinSessionRequestDTO identifies the session by code.
type JoinSessionRequestDTO struct {
	Code        string   `json:"code" binding:"required" example:"AB3D9"`
	DisplayName string   `json:"display_name" binding:"required"`
	ProviderIDs []string `json:"provider_ids" example:"netflix"`
}

type JoinSessionResponseDTO struct {
	SessionID    string           `json:"session_id"`
	Participants []ParticipantDTO `json:"participants"`
}

type ParticipantDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Join adds the caller to a lobby session
// @Summary Join a session by code
// @Description Joins the caller into the session; idempotent for a returning token
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body JoinSessionRequestDTO true "Join request"
// @Success 200 {object} JoinSessionResponseDTO "Current roster"
// @Header 200 {string} X-user-token "Participant identity token"
// @Failure 400 {object} http_common.ErrorResponse "Invalid request"
// @Failure 404 {object} http_common.ErrorResponse "Unknown code"
// @Failure 409 {object} http_common.ErrorResponse "Session already started"
// @Failure 500 {object} http_common.ErrorResponse "Internal error"
// @Router /sessions/join [post]
func (c *Controller) join(ctx *gin.Context) {
	var req JoinSessionRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}

	// A returning client presents its token and keeps its participant id;
	// everyone else gets a fresh identity.
	participantID := uuid.New()
	issueToken := true
	if t := ctx.GetHeader(http_auth_middleware.TokenHeader); t != "" {
		if id, err := c.identity.Resolve(t); err == nil {
			participantID = id
			issueToken = false
		}
	}

	session, roster, err := c.usecase.Join(ctx, req.Code, participantID, usecase_session.JoinInfo{
		DisplayName: req.DisplayName,
		ProviderIDs: req.ProviderIDs,
	})
	if err != nil {
		c.logger.Error("failed to join session", slog.String("code", req.Code), slog.String("error", err.Error()))
		switch {
		case errors.Is(err, usecase_session.ErrResourceNotFound):
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "not found"})
		case errors.Is(err, usecase_session.ErrInvalidPhase):
			ctx.JSON(http.StatusConflict, http_common.ErrorResponse{Message: "session already started"})
		case errors.Is(err, usecase_session.ErrUnavailable):
			ctx.JSON(http.StatusServiceUnavailable, http_common.ErrorResponse{Message: "temporarily unavailable"})
		default:
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		}
		return
	}

	if issueToken {
		token, err := c.identity.Issue(participantID)
		if err != nil {
			c.logger.Error("failed to issue token", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
			return
		}
		ctx.Header(http_auth_middleware.TokenHeader, token)
	}

	resp := JoinSessionResponseDTO{
		SessionID:    session.ID.String(),
		Participants: make([]ParticipantDTO, 0, len(roster)),
	}
	for _, p := range roster {
		resp.Participants = append(resp.Participants, ParticipantDTO{
			ID:          p.ID.String(),
			DisplayName: p.DisplayName,
		})
	}
	ctx.JSON(http.StatusOK, resp)
}

// View returns the requester's projection of the session
// @Summary Poll session state
// @Description Side-effect-free projection for the polling client
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session id"
// @Success 200 {object} projection.View "Projected view"
// @Failure 401 {object} http_common.ErrorResponse "No valid identity"
// @Failure 403 {object} http_common.ErrorResponse "Not a participant"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Failure 500 {object} http_common.ErrorResponse "Internal error"
// @Security UserToken
// @Router /sessions/{session_id}/view [get]
func (c *Controller) view(ctx *gin.Context) {
	sessionID, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	view, err := c.usecase.View(ctx, sessionID, http_auth_middleware.ParticipantID(ctx))
	if err != nil {
		c.respondError(ctx, "failed to build view", sessionID, err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

// Start freezes the pool and opens swiping
// @Summary Start swiping (host only)
// @Description Builds the pool from the catalog and moves the session to swiping
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session id"
// @Success 200 {object} projection.View "Updated view"
// @Failure 401 {object} http_common.ErrorResponse "No valid identity"
// @Failure 403 {object} http_common.ErrorResponse "Caller is not the host"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Failure 409 {object} http_common.ErrorResponse "Wrong phase or not enough participants"
// @Failure 503 {object} http_common.ErrorResponse "Catalog unavailable"
// @Security UserToken
// @Router /sessions/{session_id}/start [post]
func (c *Controller) start(ctx *gin.Context) {
	c.transition(ctx, c.usecase.Start)
}

// Advance promotes finalists and opens final voting
// @Summary Force final voting (host only)
// @Description Computes finalists from current votes and moves to final_voting
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session id"
// @Success 200 {object} projection.View "Updated view"
// @Failure 401 {object} http_common.ErrorResponse "No valid identity"
// @Failure 403 {object} http_common.ErrorResponse "Caller is not the host"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Failure 409 {object} http_common.ErrorResponse "Wrong phase"
// @Security UserToken
// @Router /sessions/{session_id}/advance [post]
func (c *Controller) advance(ctx *gin.Context) {
	c.transition(ctx, c.usecase.AdvanceToFinalVoting)
}

// Complete resolves the winner and closes the session
// @Summary Force completion (host only)
// @Description Resolves the final pick from current final votes and completes the session
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session id"
// @Success 200 {object} projection.View "Updated view"
// @Failure 401 {object} http_common.ErrorResponse "No valid identity"
// @Failure 403 {object} http_common.ErrorResponse "Caller is not the host"
// @Failure 404 {object} http_common.ErrorResponse "Session not found"
// @Failure 409 {object} http_common.ErrorResponse "Wrong phase"
// @Security UserToken
// @Router /sessions/{session_id}/complete [post]
func (c *Controller) complete(ctx *gin.Context) {
	c.transition(ctx, c.usecase.Complete)
}

func (c *Controller) transition(ctx *gin.Context, op func(ctx context.Context, sessionID, requesterID uuid.UUID) (model.Session, error)) {
	sessionID, ok := c.sessionID(ctx)
	if !ok {
		return
	}
	requesterID := http_auth_middleware.ParticipantID(ctx)

	session, err := op(ctx, sessionID, requesterID)
	if err != nil {
		c.respondError(ctx, "failed to advance session", sessionID, err)
		return
	}

	participants, err := c.usecase.Roster(ctx, sessionID)
	if err != nil {
		c.respondError(ctx, "failed to load roster", sessionID, err)
		return
	}

	ctx.JSON(http.StatusOK, projection.Build(&session, participants, requesterID))
}

func (c *Controller) sessionID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("session_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid session id",
		})
		return uuid.Nil, false
	}
	return id, true
}

func (c *Controller) respondError(ctx *gin.Context, msg string, sessionID uuid.UUID, err error) {
	c.logger.Error(msg, slog.String("session_id", sessionID.String()), slog.String("error", err.Error()))
	switch {
	case errors.Is(err, usecase_session.ErrResourceNotFound):
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "not found"})
	case errors.Is(err, usecase_session.ErrForbidden):
		ctx.JSON(http.StatusForbidden, http_common.ErrorResponse{Message: "not a participant of this session"})
	case errors.Is(err, usecase_session.ErrNotHost):
		ctx.JSON(http.StatusForbidden, http_common.ErrorResponse{Message: "host only"})
	case errors.Is(err, usecase_session.ErrInvalidPhase), errors.Is(err, usecase_session.ErrPhaseConflict):
		ctx.JSON(http.StatusConflict, http_common.ErrorResponse{Message: "not allowed in current phase"})
	case errors.Is(err, usecase_session.ErrNotEnoughJoined):
		ctx.JSON(http.StatusConflict, http_common.ErrorResponse{Message: "not enough participants"})
	case errors.Is(err, usecase_session.ErrCatalogUnavailable):
		ctx.JSON(http.StatusServiceUnavailable, http_common.ErrorResponse{Message: "catalog unavailable"})
	case errors.Is(err, usecase_session.ErrUnavailable):
		ctx.JSON(http.StatusServiceUnavailable, http_common.ErrorResponse{Message: "temporarily unavailable"})
	default:
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
	}
}
