package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/logger"
)

type AdminVerifier interface {
	Verify(raw string) (security.AdminClaims, error)
}

type ctxKey string

const adminIDKey ctxKey = "admin_id"

func WithAdmin(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, adminIDKey, userID)
}

func AdminIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(adminIDKey).(string)
	return v, ok && v != ""
}

// AdminOnly accepts an Authorization: Bearer token issued by the auth
// service carrying role=admin. A nil verifier disables the check (local dev
// without a shared secret).
func AdminOnly(verifier AdminVerifier, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			h := r.Header.Get("Authorization")
			if h == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			parts := strings.SplitN(h, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				logger.WithCtx(r.Context()).Debug().Err(err).Msg("admin token rejected")
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}
			if claims.Role != security.RoleAdmin {
				writeErr(w, r, domain.ErrForbidden())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), claims.UserID)))
		})
	}
}
