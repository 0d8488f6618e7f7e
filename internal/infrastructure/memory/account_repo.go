package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

type AccountRepo struct {
	mu      sync.RWMutex
	byEmail map[string]domain.Account
}

func NewAccountRepo() *AccountRepo {
	return &AccountRepo{byEmail: make(map[string]domain.Account)}
}

func (r *AccountRepo) Upsert(ctx context.Context, a domain.Account) (domain.Account, error) {
	a.Email = domain.NormalizeEmail(a.Email)
	if a.Email == "" {
		return domain.Account{}, domain.ErrMissingField("email")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.byEmail[a.Email]; ok {
		cur.CredentialHash = a.CredentialHash
		cur.UpdatedAt = a.UpdatedAt
		r.byEmail[a.Email] = cur
		return cur, nil
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	r.byEmail[a.Email] = a
	return a, nil
}

func (r *AccountRepo) exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.byEmail {
		if a.ID == id {
			return true
		}
	}
	return false
}

// list returns every account, newest first.
func (r *AccountRepo) list() []domain.Account {
	r.mu.RLock()
	out := make([]domain.Account, 0, len(r.byEmail))
	for _, a := range r.byEmail {
		out = append(out, a)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
