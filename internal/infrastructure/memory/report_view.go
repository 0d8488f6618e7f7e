package memory

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

// ReportView computes the user_data projection from the memory repos.
type ReportView struct {
	accounts *AccountRepo
	drafts   *DraftRepo
}

func NewReportView(accounts *AccountRepo, drafts *DraftRepo) *ReportView {
	return &ReportView{accounts: accounts, drafts: drafts}
}

func (v *ReportView) ListUserData(ctx context.Context, limit int) ([]domain.UserDataRow, error) {
	accs := v.accounts.list()
	if limit > 0 && len(accs) > limit {
		accs = accs[:limit]
	}

	out := make([]domain.UserDataRow, 0, len(accs))
	for _, a := range accs {
		if d, ok := v.drafts.latestFor(a.ID); ok {
			out = append(out, domain.UserDataRowFrom(a, &d))
			continue
		}
		out = append(out, domain.UserDataRowFrom(a, nil))
	}
	return out, nil
}
