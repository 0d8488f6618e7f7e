package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	appctx "github.com/baechuer/real-time-ressys/services/onboarding-service/internal/pkg/context"
)

const HeaderXRequestID = "X-Request-Id"

// incoming ids longer than this are replaced
const maxRequestIDLen = 128

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := strings.TrimSpace(r.Header.Get(HeaderXRequestID))
		if reqID == "" || len(reqID) > maxRequestIDLen {
			reqID = uuid.NewString()
		}

		w.Header().Set(HeaderXRequestID, reqID)

		ctx := appctx.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
