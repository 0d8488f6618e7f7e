package onboarding

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

/*
PartitionStore
--------------
Holds the singleton step 2 / step 3 assignment.
Read materialises the default on first use; Write must be atomic.
*/
type PartitionStore interface {
	Read(ctx context.Context) (domain.Partition, error)
	Write(ctx context.Context, p domain.Partition) (domain.Partition, error)
}

/*
AccountRepo
-----------
Step 1 boundary. Upsert is idempotent on (normalised) email and returns the
stored account, keeping its original id on conflict.
*/
type AccountRepo interface {
	Upsert(ctx context.Context, a domain.Account) (domain.Account, error)
}

/*
DraftRepo
---------
Point lookups and single statement updates.
Update applies only when the stored draft is still at expectedStep and not
completed; otherwise it returns step_mismatch (or draft_not_found).
*/
type DraftRepo interface {
	Create(ctx context.Context, d domain.Draft) (domain.Draft, error)
	GetByID(ctx context.Context, id string) (domain.Draft, error)
	Update(ctx context.Context, d domain.Draft, expectedStep domain.Step) (domain.Draft, error)
}

/*
SessionStore
------------
Opaque token -> draft id. Issuing never revokes earlier tokens.
Resolve returns ok=false for unknown or expired tokens.
*/
type SessionStore interface {
	Issue(ctx context.Context, draftID string, ttl time.Duration) (token string, err error)
	Resolve(ctx context.Context, token string) (draftID string, ok bool, err error)
}

/*
CredentialHasher
----------------
One-way hash of the step 1 secret. Verification is not needed here.
*/
type CredentialHasher interface {
	Hash(secret string) (string, error)
}

/*
ReportRepo
----------
Read-only projection of accounts joined with their latest draft.
*/
type ReportRepo interface {
	ListUserData(ctx context.Context, limit int) ([]domain.UserDataRow, error)
}

/*
EventPublisher
--------------
Publishes domain events after the state change is persisted.
Failures are logged by the caller, never surfaced to the user.
*/
type EventPublisher interface {
	PublishConfigUpdated(ctx context.Context, evt ConfigUpdatedEvent) error
	PublishDraftStarted(ctx context.Context, evt DraftStartedEvent) error
	PublishDraftCompleted(ctx context.Context, evt DraftCompletedEvent) error
}

/*
Event payloads
--------------
*/
type ConfigUpdatedEvent struct {
	StepTwo   []string  `json:"step_two"`
	StepThree []string  `json:"step_three"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DraftStartedEvent struct {
	DraftID   string `json:"draft_id"`
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

type DraftCompletedEvent struct {
	DraftID     string    `json:"draft_id"`
	AccountID   string    `json:"account_id"`
	CompletedAt time.Time `json:"completed_at"`
}
