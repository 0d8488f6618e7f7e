package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

type DraftRepo struct {
	db *sql.DB
}

func NewDraftRepo(db *sql.DB) *DraftRepo {
	return &DraftRepo{db: db}
}

const draftColumns = `
id, account_id, current_step,
about_me, street, city, state, zip, to_char(birthdate, 'YYYY-MM-DD'),
completed_at, created_at, updated_at`

const insertDraftSQL = `
INSERT INTO drafts (id, account_id, current_step, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4);
`

const selectDraftSQL = `SELECT ` + draftColumns + `
FROM drafts
WHERE id = $1
LIMIT 1;
`

// The step guard makes a stale concurrent submit match zero rows.
const updateDraftSQL = `
UPDATE drafts
SET current_step = $2,
    about_me     = $3,
    street       = $4,
    city         = $5,
    state        = $6,
    zip          = $7,
    birthdate    = $8::date,
    completed_at = $9,
    updated_at   = $10
WHERE id = $1
  AND current_step = $11
  AND completed_at IS NULL
RETURNING ` + draftColumns + `;
`

func (r *DraftRepo) Create(ctx context.Context, d domain.Draft) (domain.Draft, error) {
	if strings.TrimSpace(d.ID) == "" {
		return domain.Draft{}, domain.ErrMissingField("id")
	}
	if !d.CurrentStep.Valid() {
		d.CurrentStep = domain.StepTwo
	}

	_, err := r.db.ExecContext(ctx, insertDraftSQL, d.ID, d.AccountID, int(d.CurrentStep), d.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Draft{}, domain.ErrAccountNotFound()
		}
		return domain.Draft{}, domain.ErrDBUnavailable(err)
	}
	return d, nil
}

func (r *DraftRepo) GetByID(ctx context.Context, id string) (domain.Draft, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Draft{}, domain.ErrMissingField("id")
	}

	var row draftRow
	if err := r.db.QueryRowContext(ctx, selectDraftSQL, id).Scan(row.dest()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Draft{}, domain.ErrDraftNotFound()
		}
		return domain.Draft{}, domain.ErrDBUnavailable(err)
	}
	return toDomainDraft(row), nil
}

func (r *DraftRepo) Update(ctx context.Context, d domain.Draft, expectedStep domain.Step) (domain.Draft, error) {
	var row draftRow
	err := r.db.QueryRowContext(ctx, updateDraftSQL,
		d.ID,
		int(d.CurrentStep),
		d.AboutMe, d.Street, d.City, d.State, d.Zip, d.Birthdate,
		d.CompletedAt,
		d.UpdatedAt,
		int(expectedStep),
	).Scan(row.dest()...)
	if err == nil {
		return toDomainDraft(row), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Draft{}, domain.ErrDBUnavailable(err)
	}

	// zero rows: either the draft is gone or another submit moved it on
	cur, gerr := r.GetByID(ctx, d.ID)
	if gerr != nil {
		return domain.Draft{}, gerr
	}
	if aerr := cur.Accepts(expectedStep); aerr != nil {
		return domain.Draft{}, aerr
	}
	return domain.Draft{}, domain.ErrStepMismatch(cur.CurrentStep.String(), expectedStep)
}
