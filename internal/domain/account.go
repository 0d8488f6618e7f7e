package domain

import (
	"strings"
	"time"
)

// Account is created by step 1. Email is the uniqueness key.
type Account struct {
	ID             string
	Email          string
	CredentialHash string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserDataRow is one line of the admin reporting listing: an account joined
// with its latest draft.
type UserDataRow struct {
	AccountID   string
	Email       string
	DraftID     *string
	AboutMe     *string
	Birthdate   *string
	Address     *string
	Step        *Step
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// UserDataRowFrom builds the reporting row the same way the user_data view does.
func UserDataRowFrom(a Account, d *Draft) UserDataRow {
	row := UserDataRow{
		AccountID: a.ID,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
	if d == nil {
		return row
	}
	id, step := d.ID, d.CurrentStep
	row.DraftID = &id
	row.Step = &step
	row.AboutMe = d.AboutMe
	row.Birthdate = d.Birthdate
	row.CompletedAt = d.CompletedAt
	if addr := FormatAddress(d.Street, d.City, d.State, d.Zip); addr != "" {
		row.Address = &addr
	}
	return row
}
