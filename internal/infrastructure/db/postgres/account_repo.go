package postgres

import (
	"context"
	"database/sql"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// On conflict the original id and created_at are kept; only the credential
// hash is replaced.
const upsertAccountSQL = `
INSERT INTO accounts (id, email, credential_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)
ON CONFLICT (email) DO UPDATE
SET credential_hash = EXCLUDED.credential_hash,
    updated_at      = EXCLUDED.updated_at
RETURNING id, email, credential_hash, created_at, updated_at;
`

func (r *AccountRepo) Upsert(ctx context.Context, a domain.Account) (domain.Account, error) {
	email := domain.NormalizeEmail(a.Email)
	if email == "" {
		return domain.Account{}, domain.ErrMissingField("email")
	}

	var row accountRow
	err := r.db.QueryRowContext(ctx, upsertAccountSQL, a.ID, email, a.CredentialHash, a.CreatedAt).
		Scan(&row.ID, &row.Email, &row.CredentialHash, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			// id collision, not email: the email conflict is handled above
			return domain.Account{}, domain.ErrEmailAlreadyExists()
		}
		return domain.Account{}, domain.ErrDBUnavailable(err)
	}
	return toDomainAccount(row), nil
}
