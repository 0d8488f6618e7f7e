package http_handlers

import (
	"net/http"
	"strings"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/application/onboarding"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/transport/http/response"
)

type AdminHandler struct {
	svc *onboarding.Service
}

func NewAdminHandler(svc *onboarding.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// GetConfig handles GET /admin/config.
func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetPartition(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewPartitionView(p, true))
}

// PutConfig handles PUT /admin/config.
func (h *AdminHandler) PutConfig(w http.ResponseWriter, r *http.Request) {
	var req dto.PartitionRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	stepTwo, stepThree, err := req.Components()
	if err != nil {
		middleware.PartitionUpdatesTotal.WithLabelValues("rejected").Inc()
		response.WriteError(w, r, err)
		return
	}

	p, err := h.svc.SetPartition(r.Context(), stepTwo, stepThree)
	if err != nil {
		result := "error"
		if _, ok := domain.PartitionReasonOf(err); ok {
			result = "rejected"
		}
		middleware.PartitionUpdatesTotal.WithLabelValues(result).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.PartitionUpdatesTotal.WithLabelValues("ok").Inc()

	adminID, _ := middleware.AdminIDFromContext(r.Context())
	logger.WithCtx(r.Context()).Info().
		Str("admin_id", adminID).
		Str("step_two", strings.Join(domain.ComponentNames(p.StepTwo), ",")).
		Str("step_three", strings.Join(domain.ComponentNames(p.StepThree), ",")).
		Msg("partition_updated")

	response.OK(w, dto.NewPartitionView(p, true))
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListUserData(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewUserDataViews(rows))
}
