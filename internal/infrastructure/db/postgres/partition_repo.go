package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

// PartitionRepo stores the singleton step assignment in partition_config.
type PartitionRepo struct {
	db *sql.DB
}

func NewPartitionRepo(db *sql.DB) *PartitionRepo {
	return &PartitionRepo{db: db}
}

// TEXT[] columns are read through their text form so the scan does not
// depend on the driver's array support.
const selectPartitionSQL = `
SELECT step_two::text, step_three::text, updated_at
FROM partition_config
WHERE id = $1;
`

const seedPartitionSQL = `
INSERT INTO partition_config (id, step_two, step_three, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (id) DO NOTHING;
`

const upsertPartitionSQL = `
INSERT INTO partition_config (id, step_two, step_three, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (id) DO UPDATE
SET step_two   = EXCLUDED.step_two,
    step_three = EXCLUDED.step_three,
    updated_at = NOW()
RETURNING step_two::text, step_three::text, updated_at;
`

func (r *PartitionRepo) Read(ctx context.Context) (domain.Partition, error) {
	p, err := r.selectPartition(ctx)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Partition{}, domain.ErrDBUnavailable(err)
	}

	// first read: materialise the default; a concurrent seeder wins harmlessly
	def := domain.DefaultPartition()
	if _, err := r.db.ExecContext(ctx, seedPartitionSQL,
		domain.PartitionKey,
		pq.Array(domain.ComponentNames(def.StepTwo)),
		pq.Array(domain.ComponentNames(def.StepThree)),
	); err != nil {
		return domain.Partition{}, domain.ErrDBUnavailable(err)
	}

	p, err = r.selectPartition(ctx)
	if err != nil {
		return domain.Partition{}, domain.ErrDBUnavailable(err)
	}
	return p, nil
}

func (r *PartitionRepo) Write(ctx context.Context, p domain.Partition) (domain.Partition, error) {
	if err := p.Validate(); err != nil {
		return domain.Partition{}, err
	}

	var row partitionRow
	err := r.db.QueryRowContext(ctx, upsertPartitionSQL,
		domain.PartitionKey,
		pq.Array(domain.ComponentNames(p.StepTwo)),
		pq.Array(domain.ComponentNames(p.StepThree)),
	).Scan(&row.StepTwo, &row.StepThree, &row.UpdatedAt)
	if err != nil {
		return domain.Partition{}, domain.ErrDBUnavailable(err)
	}
	return toDomainPartition(row), nil
}

func (r *PartitionRepo) selectPartition(ctx context.Context) (domain.Partition, error) {
	var row partitionRow
	err := r.db.QueryRowContext(ctx, selectPartitionSQL, domain.PartitionKey).
		Scan(&row.StepTwo, &row.StepThree, &row.UpdatedAt)
	if err != nil {
		return domain.Partition{}, err
	}
	return toDomainPartition(row), nil
}
