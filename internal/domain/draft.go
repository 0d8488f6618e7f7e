package domain

import (
	"strings"
	"time"
)

// Draft is the in-progress onboarding record of one account.
// CurrentStep is the next step the user must complete; CompletedAt is set
// once step 3 has been accepted.
type Draft struct {
	ID          string
	AccountID   string
	CurrentStep Step

	AboutMe   *string
	Street    *string
	City      *string
	State     *string
	Zip       *string
	Birthdate *string // YYYY-MM-DD

	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewDraft(id, accountID string, now time.Time) Draft {
	return Draft{
		ID:          id,
		AccountID:   accountID,
		CurrentStep: StepTwo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (d Draft) Completed() bool { return d.CompletedAt != nil }

// Accepts reports whether a submit for step may be applied to d.
func (d Draft) Accepts(step Step) error {
	if d.Completed() {
		return ErrStepMismatch("completed", step)
	}
	if step != d.CurrentStep {
		return ErrStepMismatch(d.CurrentStep.String(), step)
	}
	return nil
}

// Apply merges every supplied field of p into d. Unsupplied fields are left
// untouched.
func (d *Draft) Apply(p DraftPatch) {
	assign := func(dst **string, o Optional[string]) {
		if v, ok := o.Get(); ok {
			s := v
			*dst = &s
		}
	}
	assign(&d.AboutMe, p.AboutMe)
	assign(&d.Street, p.Street)
	assign(&d.City, p.City)
	assign(&d.State, p.State)
	assign(&d.Zip, p.Zip)
	assign(&d.Birthdate, p.Birthdate)
}

// Advance moves the step pointer forward after a successful submit of step.
// It reports whether the draft is now complete.
func (d *Draft) Advance(step Step, now time.Time) bool {
	d.UpdatedAt = now
	if step == StepTwo {
		d.CurrentStep = StepThree
		return false
	}
	t := now
	d.CompletedAt = &t
	return true
}

// DraftPatch is a partial update of draft fields.
type DraftPatch struct {
	AboutMe   Optional[string]
	Street    Optional[string]
	City      Optional[string]
	State     Optional[string]
	Zip       Optional[string]
	Birthdate Optional[string]
}

// Has reports whether any field owned by c was supplied.
func (p DraftPatch) Has(c Component) bool {
	switch c {
	case ComponentAboutMe:
		return p.AboutMe.IsSet()
	case ComponentAddress:
		return p.Street.IsSet() || p.City.IsSet() || p.State.IsSet() || p.Zip.IsSet()
	case ComponentBirthdate:
		return p.Birthdate.IsSet()
	}
	return false
}

// Only keeps the fields owned by the given components.
func (p DraftPatch) Only(cs []Component) DraftPatch {
	var out DraftPatch
	for _, c := range cs {
		out = out.with(c, p)
	}
	return out
}

// with copies the fields owned by c from src into p.
func (p DraftPatch) with(c Component, src DraftPatch) DraftPatch {
	switch c {
	case ComponentAboutMe:
		p.AboutMe = src.AboutMe
	case ComponentAddress:
		p.Street, p.City, p.State, p.Zip = src.Street, src.City, src.State, src.Zip
	case ComponentBirthdate:
		p.Birthdate = src.Birthdate
	}
	return p
}

// Empty reports whether nothing was supplied.
func (p DraftPatch) Empty() bool {
	for _, c := range allComponents {
		if p.Has(c) {
			return false
		}
	}
	return true
}

// FormatAddress joins the non-empty address parts as "street, city, state, zip".
func FormatAddress(street, city, state, zip *string) string {
	parts := make([]string, 0, 4)
	for _, v := range []*string{street, city, state, zip} {
		if v != nil && strings.TrimSpace(*v) != "" {
			parts = append(parts, *v)
		}
	}
	return strings.Join(parts, ", ")
}
