package service_identity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unknown or expired token")
)

type TokenCache interface {
	Set(key string, value string, ttl time.Duration) error
	Get(key string) (string, error)
}

// Service maps bearer tokens to participant ids. Tokens are minted at
// create/join time and live in redis with a TTL; there is no refresh, a
// stale client just joins again with the same participant id.
type Service struct {
	tokenCache TokenCache
	ttl        time.Duration
}

func New(tokenCache TokenCache, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}

	return &Service{
		tokenCache: tokenCache,
		ttl:        ttl,
	}
}

// Issue mints a fresh token for participantID.
func (s *Service) Issue(participantID uuid.UUID) (string, error) {
	token := uuid.New().String()
	if err := s.tokenCache.Set(token, participantID.String(), s.ttl); err != nil {
		return "", errors.Join(ErrInternal, err)
	}
	return token, nil
}

// Resolve returns the participant id behind a token.
func (s *Service) Resolve(token string) (uuid.UUID, error) {
	v, err := s.tokenCache.Get(token)
	if err != nil {
		return uuid.Nil, errors.Join(ErrInternal, err)
	}
	if v == "" {
		return uuid.Nil, ErrUnauthorized
	}

	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, errors.Join(ErrInternal, err)
	}
	return id, nil
}
