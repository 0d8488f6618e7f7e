package rabbitmq

import "time"

const (
	EnvelopeVersion = 1
	Producer        = "onboarding-service"
)

// Envelope is the cross-service event wrapper. Consumers ignore unknown
// fields, so payloads may grow without a version bump.
type Envelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

const (
	RoutingConfigUpdated  = "onboarding.config.updated"
	RoutingDraftStarted   = "onboarding.draft.started"
	RoutingDraftCompleted = "onboarding.draft.completed"
)
