package dto

import (
	"time"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

type PartitionView struct {
	StepTwo   []string   `json:"step_two"`
	StepThree []string   `json:"step_three"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func NewPartitionView(p domain.Partition, withTimestamp bool) PartitionView {
	v := PartitionView{
		StepTwo:   domain.ComponentNames(p.StepTwo),
		StepThree: domain.ComponentNames(p.StepThree),
	}
	if withTimestamp && !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		v.UpdatedAt = &t
	}
	return v
}

type AccountView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type DraftView struct {
	ID          string     `json:"id"`
	AccountID   string     `json:"account_id"`
	CurrentStep int        `json:"current_step"`
	Completed   bool       `json:"completed"`
	AboutMe     *string    `json:"about_me"`
	Street      *string    `json:"street"`
	City        *string    `json:"city"`
	State       *string    `json:"state"`
	Zip         *string    `json:"zip"`
	Birthdate   *string    `json:"birthdate"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewDraftView(d domain.Draft) DraftView {
	return DraftView{
		ID:          d.ID,
		AccountID:   d.AccountID,
		CurrentStep: int(d.CurrentStep),
		Completed:   d.Completed(),
		AboutMe:     d.AboutMe,
		Street:      d.Street,
		City:        d.City,
		State:       d.State,
		Zip:         d.Zip,
		Birthdate:   d.Birthdate,
		CompletedAt: d.CompletedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// NextView tells the UI what to render. Step is 1 for a fresh user and 0 once
// the draft is complete.
type NextView struct {
	Step       int      `json:"step"`
	Components []string `json:"components"`
}

func NewNextView(d *domain.Draft, p domain.Partition) NextView {
	switch {
	case d == nil:
		return NextView{Step: 1, Components: []string{}}
	case d.Completed():
		return NextView{Step: 0, Components: []string{}}
	}
	return NextView{
		Step:       int(d.CurrentStep),
		Components: domain.ComponentNames(p.ComponentsFor(d.CurrentStep)),
	}
}

type StartDraftResponse struct {
	Account AccountView `json:"account"`
	Draft   DraftView   `json:"draft"`
	Next    NextView    `json:"next"`
}

type ResumeResponse struct {
	Draft     *DraftView    `json:"draft"`
	Partition PartitionView `json:"partition"`
	Next      NextView      `json:"next"`
}

type SubmitStepResponse struct {
	Draft     DraftView `json:"draft"`
	Completed bool      `json:"completed"`
	Next      NextView  `json:"next"`
}

type UserDataView struct {
	AccountID   string     `json:"account_id"`
	Email       string     `json:"email"`
	DraftID     *string    `json:"draft_id"`
	AboutMe     *string    `json:"about_me"`
	Birthdate   *string    `json:"birthdate"`
	Address     *string    `json:"address"`
	Step        *int       `json:"step"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewUserDataViews(rows []domain.UserDataRow) []UserDataView {
	out := make([]UserDataView, 0, len(rows))
	for _, r := range rows {
		v := UserDataView{
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
			s := int(*r.Step)
			v.Step = &s
		}
		out = append(out, v)
	}
	return out
}
