package context

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	draftIDKey   contextKey = "draft_id"
)

// WithRequestID injects ID
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID extracts ID
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// WithDraftID stores the draft resolved from the onboarding session.
func WithDraftID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, draftIDKey, id)
}

func GetDraftID(ctx context.Context) string {
	return stringValue(ctx, draftIDKey)
}

func stringValue(ctx context.Context, k contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(k).(string); ok {
		return v
	}
	return ""
}
