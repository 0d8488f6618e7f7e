package onboarding

import (
	"testing"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}

func str(v string) *string { return &v }
