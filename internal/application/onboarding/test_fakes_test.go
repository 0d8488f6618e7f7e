package onboarding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

type auditSink struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *auditSink) fn(action string, fields map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{action: action, fields: fields})
}

func (a *auditSink) last(action string) (auditEntry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.entries) - 1; i >= 0; i-- {
		if a.entries[i].action == action {
			return a.entries[i], true
		}
	}
	return auditEntry{}, false
}

/*
Fakes for ports
*/

type fakePartitionStore struct {
	mu sync.Mutex

	stored *domain.Partition
	inits  int
	writes int

	readErr  error
	writeErr error
	clock    func() time.Time
}

func (f *fakePartitionStore) Read(ctx context.Context) (domain.Partition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.readErr != nil {
		return domain.Partition{}, f.readErr
	}
	if f.stored == nil {
		p := domain.DefaultPartition()
		p.UpdatedAt = f.clock()
		f.stored = &p
		f.inits++
	}
	return *f.stored, nil
}

func (f *fakePartitionStore) Write(ctx context.Context, p domain.Partition) (domain.Partition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writeErr != nil {
		return domain.Partition{}, f.writeErr
	}
	if err := p.Validate(); err != nil {
		return domain.Partition{}, err
	}
	p.UpdatedAt = f.clock()
	f.stored = &p
	f.writes++
	return p, nil
}

func (f *fakePartitionStore) set(p domain.Partition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = &p
}

type fakeAccountRepo struct {
	mu sync.Mutex

	byEmail   map[string]domain.Account
	upsertErr error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byEmail: map[string]domain.Account{}}
}

func (f *fakeAccountRepo) Upsert(ctx context.Context, a domain.Account) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.upsertErr != nil {
		return domain.Account{}, f.upsertErr
	}
	if existing, ok := f.byEmail[a.Email]; ok {
		existing.CredentialHash = a.CredentialHash
		existing.UpdatedAt = a.UpdatedAt
		f.byEmail[a.Email] = existing
		return existing, nil
	}
	f.byEmail[a.Email] = a
	return a, nil
}

type fakeDraftRepo struct {
	mu sync.Mutex

	byID map[string]domain.Draft

	createErr error
	getErr    error
	updateErr error

	updates int
	// beforeUpdate runs inside Update before the step check, to simulate a
	// concurrent writer.
	beforeUpdate func(d *domain.Draft)
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{byID: map[string]domain.Draft{}}
}

func (f *fakeDraftRepo) Create(ctx context.Context, d domain.Draft) (domain.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.Draft{}, f.createErr
	}
	f.byID[d.ID] = d
	return d, nil
}

func (f *fakeDraftRepo) GetByID(ctx context.Context, id string) (domain.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.Draft{}, f.getErr
	}
	d, ok := f.byID[id]
	if !ok {
		return domain.Draft{}, domain.ErrDraftNotFound()
	}
	return d, nil
}

func (f *fakeDraftRepo) Update(ctx context.Context, d domain.Draft, expectedStep domain.Step) (domain.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return domain.Draft{}, f.updateErr
	}
	cur, ok := f.byID[d.ID]
	if !ok {
		return domain.Draft{}, domain.ErrDraftNotFound()
	}
	if f.beforeUpdate != nil {
		f.beforeUpdate(&cur)
		f.byID[d.ID] = cur
	}
	if err := cur.Accepts(expectedStep); err != nil {
		return domain.Draft{}, err
	}
	f.byID[d.ID] = d
	f.updates++
	return d, nil
}

func (f *fakeDraftRepo) get(id string) domain.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

type fakeSessionStore struct {
	mu sync.Mutex

	tokens map[string]string
	n      int

	issueErr   error
	resolveErr error
	lastTTL    time.Duration
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{tokens: map[string]string{}}
}

func (f *fakeSessionStore) Issue(ctx context.Context, draftID string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.issueErr != nil {
		return "", f.issueErr
	}
	f.n++
	tok := fmt.Sprintf("tok-%d", f.n)
	f.tokens[tok] = draftID
	f.lastTTL = ttl
	return tok, nil
}

func (f *fakeSessionStore) Resolve(ctx context.Context, token string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.resolveErr != nil {
		return "", false, f.resolveErr
	}
	id, ok := f.tokens[token]
	return id, ok, nil
}

type fakeHasher struct {
	err error
}

func (f fakeHasher) Hash(secret string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "hashed:" + secret, nil
}

type fakeReportRepo struct {
	rows      []domain.UserDataRow
	err       error
	lastLimit int
}

func (f *fakeReportRepo) ListUserData(ctx context.Context, limit int) ([]domain.UserDataRow, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if len(f.rows) > limit {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

type fakePublisher struct {
	mu sync.Mutex

	configUpdated  []ConfigUpdatedEvent
	draftStarted   []DraftStartedEvent
	draftCompleted []DraftCompletedEvent

	err error
}

func (f *fakePublisher) PublishConfigUpdated(ctx context.Context, evt ConfigUpdatedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.configUpdated = append(f.configUpdated, evt)
	return nil
}

func (f *fakePublisher) PublishDraftStarted(ctx context.Context, evt DraftStartedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.draftStarted = append(f.draftStarted, evt)
	return nil
}

func (f *fakePublisher) PublishDraftCompleted(ctx context.Context, evt DraftCompletedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.draftCompleted = append(f.draftCompleted, evt)
	return nil
}

/*
Harness
*/

var fixedNow = time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)

type harness struct {
	svc        *Service
	partitions *fakePartitionStore
	accounts   *fakeAccountRepo
	drafts     *fakeDraftRepo
	sessions   *fakeSessionStore
	reports    *fakeReportRepo
	pub        *fakePublisher
	audit      *auditSink
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clock := func() time.Time { return fixedNow }
	var (
		idMu sync.Mutex
		ids  int
	)
	h := &harness{
		partitions: &fakePartitionStore{clock: clock},
		accounts:   newFakeAccountRepo(),
		drafts:     newFakeDraftRepo(),
		sessions:   newFakeSessionStore(),
		reports:    &fakeReportRepo{},
		pub:        &fakePublisher{},
		audit:      &auditSink{},
	}
	h.svc = NewService(
		h.partitions, h.accounts, h.drafts, h.sessions, fakeHasher{}, h.reports, h.pub,
		Config{
			Clock: clock,
			IDGen: func() string {
				idMu.Lock()
				defer idMu.Unlock()
				ids++
				return fmt.Sprintf("id-%d", ids)
			},
		},
	).WithAudit(h.audit.fn)
	return h
}

// seedDraft stores a draft at the given step and returns its id.
func (h *harness) seedDraft(t *testing.T, step domain.Step, mutate func(*domain.Draft)) string {
	t.Helper()
	d := domain.NewDraft(fmt.Sprintf("draft-%d", len(h.drafts.byID)+1), "acc-1", fixedNow)
	d.CurrentStep = step
	if mutate != nil {
		mutate(&d)
	}
	if _, err := h.drafts.Create(context.Background(), d); err != nil {
		t.Fatalf("seed draft: %v", err)
	}
	return d.ID
}

var errBoom = errors.New("boom")
