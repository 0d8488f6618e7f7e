package onboarding

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

// IssueSession hands out a new resume token for an existing draft.
func (s *Service) IssueSession(ctx context.Context, draftID string) (string, error) {
	draftID = strings.TrimSpace(draftID)
	if draftID == "" {
		return "", domain.ErrMissingField("draft_id")
	}
	if _, err := s.drafts.GetByID(ctx, draftID); err != nil {
		return "", err
	}
	return s.sessions.Issue(ctx, draftID, s.sessionTTL)
}

// ResolveSession maps a token back to its draft. An unknown token is the
// normal "fresh user" outcome: ok=false with a nil error.
func (s *Service) ResolveSession(ctx context.Context, token string) (string, bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false, nil
	}
	return s.sessions.Resolve(ctx, token)
}

type ResumeResult struct {
	// Draft is nil for a fresh user.
	Draft     *domain.Draft
	Partition domain.Partition
}

// Resume returns what a returning browser needs to render its current step.
func (s *Service) Resume(ctx context.Context, token string) (ResumeResult, error) {
	p, err := s.partitions.Read(ctx)
	if err != nil {
		return ResumeResult{}, err
	}

	draftID, ok, err := s.ResolveSession(ctx, token)
	if err != nil {
		return ResumeResult{}, err
	}
	if !ok {
		return ResumeResult{Partition: p}, nil
	}

	d, err := s.drafts.GetByID(ctx, draftID)
	if err != nil {
		// a token outliving its draft is still a fresh start
		if domain.Is(err, "draft_not_found") {
			return ResumeResult{Partition: p}, nil
		}
		return ResumeResult{}, err
	}
	return ResumeResult{Draft: &d, Partition: p}, nil
}
