package memory

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/application/onboarding"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/logger"
)

// NoopPublisher logs events instead of sending them. Used in dev when no
// broker is reachable.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishConfigUpdated(ctx context.Context, evt onboarding.ConfigUpdatedEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("publisher", "noop").
		Str("step_two", strings.Join(evt.StepTwo, ",")).
		Str("step_three", strings.Join(evt.StepThree, ",")).
		Msg("config updated")
	return nil
}

func (p *NoopPublisher) PublishDraftStarted(ctx context.Context, evt onboarding.DraftStartedEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("publisher", "noop").
		Str("draft_id", evt.DraftID).
		Str("account_id", evt.AccountID).
		Msg("draft started")
	return nil
}

func (p *NoopPublisher) PublishDraftCompleted(ctx context.Context, evt onboarding.DraftCompletedEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("publisher", "noop").
		Str("draft_id", evt.DraftID).
		Time("completed_at", evt.CompletedAt).
		Msg("draft completed")
	return nil
}
