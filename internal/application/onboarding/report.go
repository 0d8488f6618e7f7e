package onboarding

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

// ListUserData returns the admin listing, newest account first.
func (s *Service) ListUserData(ctx context.Context) ([]domain.UserDataRow, error) {
	return s.reports.ListUserData(ctx, s.reportLimit)
}
