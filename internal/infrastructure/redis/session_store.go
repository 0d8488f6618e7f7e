package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/infrastructure/security"
)

// SessionStore maps onboarding session tokens to draft ids:
// - obs:<token> -> <draftID> with TTL
// Tokens are independent keys, so issuing one never touches another.
type SessionStore struct {
	rdb    *goredis.Client
	prefix string

	tokenBytes int
}

func NewSessionStore(c *Client) *SessionStore {
	var rdb *goredis.Client
	if c != nil {
		rdb = c.rdb
	}
	return &SessionStore{
		rdb:        rdb,
		prefix:     "obs:",
		tokenBytes: security.SessionTokenBytes,
	}
}

var errNotConfigured = errors.New("redis session store not configured")

func (s *SessionStore) Issue(ctx context.Context, draftID string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(draftID) == "" {
		return "", domain.ErrMissingField("draft_id")
	}
	if s.rdb == nil {
		return "", domain.ErrRedisUnavailable(errNotConfigured)
	}

	token, err := security.NewOpaqueToken(s.tokenBytes)
	if err != nil {
		return "", domain.ErrRandomFailed(err)
	}

	if err := s.rdb.Set(ctx, s.prefix+token, draftID, ttl).Err(); err != nil {
		return "", domain.ErrRedisUnavailable(err)
	}
	return token, nil
}

func (s *SessionStore) Resolve(ctx context.Context, token string) (string, bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false, nil
	}
	if s.rdb == nil {
		return "", false, domain.ErrRedisUnavailable(errNotConfigured)
	}

	draftID, err := s.rdb.Get(ctx, s.prefix+token).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, domain.ErrRedisUnavailable(err)
	}
	return draftID, true, nil
}
