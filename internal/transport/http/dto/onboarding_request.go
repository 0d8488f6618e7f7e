package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

// -------- Step 1 --------

type StartDraftRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

func (r *StartDraftRequest) Validate() error {
	r.Email = domain.NormalizeEmail(r.Email)
	return validateStruct(r)
}

// -------- Steps 2 / 3 --------

// OptionalString records whether its JSON key was present. A null value is
// present and reads as "".
type OptionalString struct {
	Value string
	Set   bool
}

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = ""
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

func (o OptionalString) toDomain() domain.Optional[string] {
	if !o.Set {
		return domain.None[string]()
	}
	return domain.Some(o.Value)
}

// SubmitStepRequest carries the fields of any component. The service keeps
// only those of the components placed on the submitted step.
type SubmitStepRequest struct {
	AboutMe   OptionalString `json:"about_me"`
	Street    OptionalString `json:"street"`
	City      OptionalString `json:"city"`
	State     OptionalString `json:"state"`
	Zip       OptionalString `json:"zip"`
	Birthdate OptionalString `json:"birthdate"`
}

func (r SubmitStepRequest) ToPatch() domain.DraftPatch {
	return domain.DraftPatch{
		AboutMe:   r.AboutMe.toDomain(),
		Street:    r.Street.toDomain(),
		City:      r.City.toDomain(),
		State:     r.State.toDomain(),
		Zip:       r.Zip.toDomain(),
		Birthdate: r.Birthdate.toDomain(),
	}
}

// -------- Admin --------

type PartitionRequest struct {
	StepTwo   []string `json:"step_two"`
	StepThree []string `json:"step_three"`
}

// Components parses both sides. Unknown names are rejected here; the
// placement rules are checked by the domain.
func (r PartitionRequest) Components() (stepTwo, stepThree []domain.Component, err error) {
	if stepTwo, err = domain.ParseComponents(trimAll(r.StepTwo)); err != nil {
		return nil, nil, err
	}
	if stepThree, err = domain.ParseComponents(trimAll(r.StepThree)); err != nil {
		return nil, nil, err
	}
	return stepTwo, stepThree, nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
