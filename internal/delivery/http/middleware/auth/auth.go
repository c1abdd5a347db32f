package http_auth_middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/reelmatch/core/internal/delivery/http/common"
	service_identity "github.com/reelmatch/core/internal/service/identity"
)

const (
	// TokenHeader carries the participant's bearer token on every call.
	TokenHeader = "X-user-token"

	contextParticipantID = "participant_id"
)

type IdentityResolver interface {
	Resolve(token string) (uuid.UUID, error)
}

type Middleware struct {
	identity IdentityResolver
	logger   *slog.Logger
}

func New(
	identity IdentityResolver,
) *Middleware {
	return &Middleware{
		identity: identity,
		logger:   slog.Default(),
	}
}

// ParticipantRequired resolves X-user-token into a participant id and stores
// it on the request context. Handlers behind it read the id via ParticipantID.
func (m *Middleware) ParticipantRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		t := ctx.GetHeader(TokenHeader)
		if t == "" {
			ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
				Message: TokenHeader + " header required",
			})
			ctx.Abort()
			return
		}

		id, err := m.identity.Resolve(t)
		if err != nil {
			if errors.Is(err, service_identity.ErrUnauthorized) {
				ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
					Message: "invalid token",
				})
				ctx.Abort()
				return
			}
			m.logger.Error("failed to resolve token", slog.String("error", err.Error()))
			ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: "internal error",
			})
			ctx.Abort()
			return
		}

		ctx.Set(contextParticipantID, id)
		ctx.Next()
	}
}

// ParticipantID reads the id stored by ParticipantRequired.
func ParticipantID(ctx *gin.Context) uuid.UUID {
	v, ok := ctx.Get(contextParticipantID)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}
