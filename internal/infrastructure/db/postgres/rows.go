package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

type partitionRow struct {
	StepTwo   pq.StringArray
	StepThree pq.StringArray
	UpdatedAt time.Time
}

func toDomainPartition(r partitionRow) domain.Partition {
	conv := func(in []string) []domain.Component {
		out := make([]domain.Component, len(in))
		for i, s := range in {
			out[i] = domain.Component(s)
		}
		return out
	}
	return domain.Partition{
		StepTwo:   conv(r.StepTwo),
		StepThree: conv(r.StepThree),
		UpdatedAt: r.UpdatedAt,
	}
}

type accountRow struct {
	ID             string
	Email          string
	CredentialHash string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func toDomainAccount(r accountRow) domain.Account {
	return domain.Account(r)
}

type draftRow struct {
	ID          string
	AccountID   string
	CurrentStep int
	AboutMe     *string
	Street      *string
	City        *string
	State       *string
	Zip         *string
	Birthdate   *string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r *draftRow) dest() []any {
	return []any{
		&r.ID, &r.AccountID, &r.CurrentStep,
		&r.AboutMe, &r.Street, &r.City, &r.State, &r.Zip, &r.Birthdate,
		&r.CompletedAt, &r.CreatedAt, &r.UpdatedAt,
	}
}

func toDomainDraft(r draftRow) domain.Draft {
	return domain.Draft{
		ID:          r.ID,
		AccountID:   r.AccountID,
		CurrentStep: domain.Step(r.CurrentStep),
		AboutMe:     r.AboutMe,
		Street:      r.Street,
		City:        r.City,
		State:       r.State,
		Zip:         r.Zip,
		Birthdate:   r.Birthdate,
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type userDataRow struct {
	AccountID   string
	Email       string
	DraftID     *string
	AboutMe     *string
	Birthdate   *string
	Address     *string
	Step        *int
	CompletedAt *time.Time
	CreatedAt   time.Time
}

func toDomainUserData(r userDataRow) domain.UserDataRow {
	out := domain.UserDataRow{
		AccountID:   r.AccountID,
		Email:       r.Email,
		DraftID:     r.DraftID,
		AboutMe:     r.AboutMe,
		Birthdate:   r.Birthdate,
		Address:     r.Address,
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
	}
	if r.Step != nil {
		s := domain.Step(*r.Step)
		out.Step = &s
	}
	return out
}
