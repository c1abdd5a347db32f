package service_identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	store map[string]string
	ttls  map[string]time.Duration
	err   error
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Set(key string, value string, ttl time.Duration) error {
	if c.err != nil {
		return c.err
	}
	c.store[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) Get(key string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.store[key], nil
}

func TestIssueAndResolve(t *testing.T) {
	cache := newFakeCache()
	svc := New(cache, time.Hour)
	participantID := uuid.New()

	token, err := svc.Issue(participantID)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, time.Hour, cache.ttls[token])

	resolved, err := svc.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, participantID, resolved)
}

func TestResolveUnknownToken(t *testing.T) {
	svc := New(newFakeCache(), time.Hour)

	_, err := svc.Resolve(uuid.New().String())

	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestResolveCacheFailure(t *testing.T) {
	cache := newFakeCache()
	cache.err = assert.AnError
	svc := New(cache, time.Hour)

	_, err := svc.Resolve("whatever")

	assert.ErrorIs(t, err, ErrInternal)
}

func TestDefaultTTL(t *testing.T) {
	cache := newFakeCache()
	svc := New(cache, 0)

	token, err := svc.Issue(uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 4*time.Hour, cache.ttls[token])
}
