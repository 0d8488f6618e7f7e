package onboarding

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

type StartResult struct {
	Account domain.Account
	Draft   domain.Draft
}

// StartDraft completes step 1: it upserts the account by email and opens a
// fresh draft awaiting step 2.
func (s *Service) StartDraft(ctx context.Context, email, credential string) (StartResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return StartResult{}, domain.ErrMissingField("email")
	}
	if credential == "" {
		return StartResult{}, domain.ErrMissingField("password")
	}

	hash, err := s.hasher.Hash(credential)
	if err != nil {
		return StartResult{}, domain.ErrHashFailed(err)
	}

	now := s.now()
	acc, err := s.accounts.Upsert(ctx, domain.Account{
		ID:             s.newID(),
		Email:          email,
		CredentialHash: hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return StartResult{}, err
	}

	d, err := s.drafts.Create(ctx, domain.NewDraft(s.newID(), acc.ID, now))
	if err != nil {
		return StartResult{}, err
	}

	s.audit("draft.start", map[string]string{
		"account_id": acc.ID,
		"draft_id":   d.ID,
		"result":     "ok",
	})

	evt := DraftStartedEvent{DraftID: d.ID, AccountID: acc.ID, Email: acc.Email}
	if err := s.pub.PublishDraftStarted(ctx, evt); err != nil {
		s.publishFailed("onboarding.draft.started", err, map[string]string{"draft_id": d.ID})
	}

	return StartResult{Account: acc, Draft: d}, nil
}

type SubmitResult struct {
	Draft     domain.Draft
	Completed bool
}

// SubmitStep validates and merges the fields of the components currently
// assigned to step, then advances the draft.
//
// The partition is read on every call. Fields of components assigned to the
// other step are dropped, and nothing is written unless every supplied
// component of this step is valid.
func (s *Service) SubmitStep(ctx context.Context, draftID string, step domain.Step, patch domain.DraftPatch) (SubmitResult, error) {
	const action = "draft.submit_step"

	draftID = strings.TrimSpace(draftID)
	audit := func(result string, err error, extra map[string]string) {
		fields := map[string]string{
			"draft_id": draftID,
			"step":     step.String(),
			"result":   result,
		}
		if err != nil {
			fields["error_code"] = domainCode(err)
		}
		for k, v := range extra {
			fields[k] = v
		}
		s.audit(action, fields)
	}

	if draftID == "" {
		return SubmitResult{}, domain.ErrMissingField("draft_id")
	}
	if !step.Valid() {
		return SubmitResult{}, domain.ErrInvalidField("step", "must be 2 or 3")
	}

	d, err := s.drafts.GetByID(ctx, draftID)
	if err != nil {
		audit("error", err, nil)
		return SubmitResult{}, err
	}
	if err := d.Accepts(step); err != nil {
		audit("rejected", err, nil)
		return SubmitResult{}, err
	}

	p, err := s.partitions.Read(ctx)
	if err != nil {
		audit("error", err, nil)
		return SubmitResult{}, err
	}
	expected := p.ComponentsFor(step)
	scoped := patch.Only(expected)

	now := s.now()
	normalized := make([]domain.DraftPatch, 0, len(expected))
	for _, c := range expected {
		if !scoped.Has(c) {
			continue
		}
		n, err := domain.ValidateComponent(c, scoped, now)
		if err != nil {
			audit("rejected", err, map[string]string{"component": string(c)})
			return SubmitResult{}, err
		}
		normalized = append(normalized, n)
	}

	for _, n := range normalized {
		d.Apply(n)
	}
	completed := d.Advance(step, now)

	saved, err := s.drafts.Update(ctx, d, step)
	if err != nil {
		audit("error", err, nil)
		return SubmitResult{}, err
	}
	audit("ok", nil, map[string]string{"current_step": saved.CurrentStep.String()})

	if completed && saved.CompletedAt != nil {
		evt := DraftCompletedEvent{DraftID: saved.ID, AccountID: saved.AccountID, CompletedAt: *saved.CompletedAt}
		if err := s.pub.PublishDraftCompleted(ctx, evt); err != nil {
			s.publishFailed("onboarding.draft.completed", err, map[string]string{"draft_id": saved.ID})
		}
	}

	return SubmitResult{Draft: saved, Completed: completed}, nil
}
