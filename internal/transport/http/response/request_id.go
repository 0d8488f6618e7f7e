package response

import (
	"net/http"

	appctx "github.com/baechuer/real-time-ressys/services/onboarding-service/internal/pkg/context"
)

func RequestIDFromContext(r *http.Request) string {
	return appctx.GetRequestID(r.Context())
}
