package postgres

import (
	"context"
	"database/sql"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

// ReportRepo reads the user_data view.
type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

const listUserDataSQL = `
SELECT account_id, email, draft_id, about_me, birthdate, address, step, completed_at, created_at
FROM user_data
ORDER BY created_at DESC, account_id
LIMIT $1;
`

func (r *ReportRepo) ListUserData(ctx context.Context, limit int) ([]domain.UserDataRow, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, listUserDataSQL, limit)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.UserDataRow, 0)
	for rows.Next() {
		var ur userDataRow
		if err := rows.Scan(
			&ur.AccountID, &ur.Email, &ur.DraftID, &ur.AboutMe, &ur.Birthdate,
			&ur.Address, &ur.Step, &ur.CompletedAt, &ur.CreatedAt,
		); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, toDomainUserData(ur))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

// Ping backs the readiness probe.
func (r *ReportRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
