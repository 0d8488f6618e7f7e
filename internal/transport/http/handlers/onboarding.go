package http_handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/application/onboarding"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/logger"
	appctx "github.com/baechuer/real-time-ressys/services/onboarding-service/internal/pkg/context"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/transport/http/response"
)

type OnboardingHandler struct {
	svc           *onboarding.Service
	sessionTTL    time.Duration
	secureCookies bool
}

func NewOnboardingHandler(svc *onboarding.Service, sessionTTL time.Duration, secureCookies bool) *OnboardingHandler {
	return &OnboardingHandler{
		svc:           svc,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

// Config handles GET /config. The UI renders steps 2 and 3 from it.
func (h *OnboardingHandler) Config(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetPartition(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewPartitionView(p, false))
}

// StartDraft handles POST /drafts (step 1).
func (h *OnboardingHandler) StartDraft(w http.ResponseWriter, r *http.Request) {
	var req dto.StartDraftRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.StartDraft(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	token, err := h.svc.IssueSession(r.Context(), res.Draft.ID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	p, err := h.svc.GetPartition(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	middleware.DraftsStartedTotal.Inc()
	logger.WithCtx(appctx.WithDraftID(r.Context(), res.Draft.ID)).Info().
		Str("account_id", res.Account.ID).
		Msg("draft_started")

	security.SetSessionToken(w, token, h.sessionTTL, h.secureCookies)
	w.Header().Set(security.SessionHeader, token)

	response.Created(w, "/onboarding/v1/me", dto.StartDraftResponse{
		Account: dto.AccountView{ID: res.Account.ID, Email: res.Account.Email},
		Draft:   dto.NewDraftView(res.Draft),
		Next:    dto.NewNextView(&res.Draft, p),
	})
}

// Me handles GET /me. Without a usable session the caller is a fresh user
// and gets step 1.
func (h *OnboardingHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := security.ReadSessionToken(r)

	res, err := h.svc.Resume(r.Context(), token)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	out := dto.ResumeResponse{
		Partition: dto.NewPartitionView(res.Partition, false),
		Next:      dto.NewNextView(res.Draft, res.Partition),
	}
	if res.Draft != nil {
		v := dto.NewDraftView(*res.Draft)
		out.Draft = &v
	} else if token != "" {
		security.ClearSessionToken(w, h.secureCookies)
	}
	response.OK(w, out)
}

// SubmitStep handles POST /me/steps/{step}.
func (h *OnboardingHandler) SubmitStep(w http.ResponseWriter, r *http.Request) {
	step, err := domain.ParseStep(chi.URLParam(r, "step"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	draftID, ok, err := h.svc.ResolveSession(r.Context(), security.ReadSessionToken(r))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	if !ok {
		response.WriteError(w, r, domain.ErrSessionMissing())
		return
	}
	ctx := appctx.WithDraftID(r.Context(), draftID)

	var req dto.SubmitStepRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.SubmitStep(ctx, draftID, step, req.ToPatch())
	if err != nil {
		middleware.StepSubmissionsTotal.WithLabelValues(step.String(), errorCode(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.StepSubmissionsTotal.WithLabelValues(step.String(), "ok").Inc()
	if res.Completed {
		middleware.DraftsCompletedTotal.Inc()
	}

	p, err := h.svc.GetPartition(ctx)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(ctx).Info().
		Int("step", int(step)).
		Bool("completed", res.Completed).
		Msg("step_submitted")

	response.OK(w, dto.SubmitStepResponse{
		Draft:     dto.NewDraftView(res.Draft),
		Completed: res.Completed,
		Next:      dto.NewNextView(&res.Draft, p),
	})
}

func errorCode(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "internal_error"
}
