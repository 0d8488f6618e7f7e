package memory

import (
	"context"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/infrastructure/security"
)

// sessionEntry holds the draft ID and expiration time for a session token
type sessionEntry struct {
	draftID   string
	expiresAt time.Time
}

// sweepInterval bounds how often Issue walks the map for expired tokens.
const sweepInterval = time.Minute

// SessionStore is also the fallback when redis is unreachable, so Issue
// evicts expired tokens that were never resolved.
type SessionStore struct {
	mu sync.RWMutex
	// token -> sessionEntry
	tokens    map[string]sessionEntry
	now       func() time.Time
	lastSweep time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		tokens: make(map[string]sessionEntry),
		now:    time.Now,
	}
}

func (s *SessionStore) Issue(ctx context.Context, draftID string, ttl time.Duration) (string, error) {
	tok, err := security.NewOpaqueToken(security.SessionTokenBytes)
	if err != nil {
		return "", domain.ErrRandomFailed(err)
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= sweepInterval {
		s.sweepLocked(now)
	}
	s.tokens[tok] = sessionEntry{
		draftID:   draftID,
		expiresAt: now.Add(ttl),
	}
	return tok, nil
}

func (s *SessionStore) sweepLocked(now time.Time) {
	for tok, e := range s.tokens {
		if now.After(e.expiresAt) {
			delete(s.tokens, tok)
		}
	}
	s.lastSweep = now
}

func (s *SessionStore) Resolve(ctx context.Context, token string) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.tokens[token]
	s.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.tokens, token)
		s.mu.Unlock()
		return "", false, nil
	}
	return entry.draftID, true, nil
}
