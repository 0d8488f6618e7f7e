package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

type DraftRepo struct {
	mu       sync.RWMutex
	byID     map[string]domain.Draft
	accounts *AccountRepo
}

// NewDraftRepo checks account ownership against accounts when it is non-nil.
func NewDraftRepo(accounts *AccountRepo) *DraftRepo {
	return &DraftRepo{byID: make(map[string]domain.Draft), accounts: accounts}
}

func (r *DraftRepo) Create(ctx context.Context, d domain.Draft) (domain.Draft, error) {
	if strings.TrimSpace(d.ID) == "" {
		return domain.Draft{}, domain.ErrMissingField("id")
	}
	if r.accounts != nil && !r.accounts.exists(d.AccountID) {
		return domain.Draft{}, domain.ErrAccountNotFound()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[d.ID] = cloneDraft(d)
	return cloneDraft(d), nil
}

func (r *DraftRepo) GetByID(ctx context.Context, id string) (domain.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return domain.Draft{}, domain.ErrDraftNotFound()
	}
	return cloneDraft(d), nil
}

// Update mirrors the conditional UPDATE of the postgres repo: the write
// applies only while the stored draft still awaits expectedStep.
func (r *DraftRepo) Update(ctx context.Context, d domain.Draft, expectedStep domain.Step) (domain.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[d.ID]
	if !ok {
		return domain.Draft{}, domain.ErrDraftNotFound()
	}
	if err := cur.Accepts(expectedStep); err != nil {
		return domain.Draft{}, err
	}
	r.byID[d.ID] = cloneDraft(d)
	return cloneDraft(d), nil
}

// latestFor returns the newest draft of an account.
func (r *DraftRepo) latestFor(accountID string) (domain.Draft, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best  domain.Draft
		found bool
	)
	for _, d := range r.byID {
		if d.AccountID != accountID {
			continue
		}
		if !found || d.CreatedAt.After(best.CreatedAt) ||
			(d.CreatedAt.Equal(best.CreatedAt) && d.ID > best.ID) {
			best, found = d, true
		}
	}
	return cloneDraft(best), found
}

// cloneDraft copies the pointer fields so callers never alias stored state.
func cloneDraft(d domain.Draft) domain.Draft {
	cp := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	out := d
	out.AboutMe = cp(d.AboutMe)
	out.Street = cp(d.Street)
	out.City = cp(d.City)
	out.State = cp(d.State)
	out.Zip = cp(d.Zip)
	out.Birthdate = cp(d.Birthdate)
	if d.CompletedAt != nil {
		t := *d.CompletedAt
		out.CompletedAt = &t
	}
	return out
}
