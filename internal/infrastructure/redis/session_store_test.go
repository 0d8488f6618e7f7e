package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

func TestSessionStore_IssueAndResolve(t *testing.T) {
	c, mr := newTestClient(t)
	s := NewSessionStore(c)
	ctx := context.Background()

	tok1, err := s.Issue(ctx, "draft-1", time.Hour)
	require.NoError(t, err)
	tok2, err := s.Issue(ctx, "draft-1", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, tok1, tok2)

	for _, tok := range []string{tok1, tok2} {
		id, ok, err := s.Resolve(ctx, tok)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "draft-1", id)
	}

	assert.Equal(t, time.Hour, mr.TTL("obs:"+tok1))
}

func TestSessionStore_ExpiredAndUnknown(t *testing.T) {
	c, mr := newTestClient(t)
	s := NewSessionStore(c)
	ctx := context.Background()

	tok, err := s.Issue(ctx, "draft-1", time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, ok, err := s.Resolve(ctx, tok)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.Resolve(ctx, "never-issued")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.Resolve(ctx, "  ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_NilClient(t *testing.T) {
	s := NewSessionStore(nil)
	ctx := context.Background()

	_, err := s.Issue(ctx, "draft-1", time.Hour)
	assert.True(t, domain.Is(err, "redis_unavailable"))

	_, _, err = s.Resolve(ctx, "tok")
	assert.True(t, domain.Is(err, "redis_unavailable"))

	_, err = s.Issue(ctx, " ", time.Hour)
	assert.True(t, domain.Is(err, "missing_field"))
}

func TestSessionStore_RedisDown(t *testing.T) {
	c, mr := newTestClient(t)
	s := NewSessionStore(c)
	mr.Close()

	_, _, err := s.Resolve(context.Background(), "tok")
	assert.True(t, domain.Is(err, "redis_unavailable"))
}
