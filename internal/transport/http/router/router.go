package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/transport/http/response"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type OnboardingHandler interface {
	Config(w http.ResponseWriter, r *http.Request)
	StartDraft(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	SubmitStep(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	GetConfig(w http.ResponseWriter, r *http.Request)
	PutConfig(w http.ResponseWriter, r *http.Request)
	ListUsers(w http.ResponseWriter, r *http.Request)
}

// IPLimit configures the global per-IP limit. Zero Limit disables it.
type IPLimit struct {
	Limit  int
	Window time.Duration
}

type Deps struct {
	Health     HealthHandler
	Onboarding OnboardingHandler
	Admin      AdminHandler

	AdminMW func(http.Handler) http.Handler
	// route scoped limits; nil means unlimited
	StartRL  func(http.Handler) http.Handler
	SubmitRL func(http.Handler) http.Handler

	GlobalRL IPLimit
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Onboarding == nil {
		return nil, fmt.Errorf("nil Onboarding handler")
	}
	if deps.Admin == nil {
		return nil, fmt.Errorf("nil Admin handler")
	}
	if deps.AdminMW == nil {
		return nil, fmt.Errorf("nil Admin middleware")
	}
	startRL := orPassThrough(deps.StartRL)
	submitRL := orPassThrough(deps.SubmitRL)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)

	if deps.GlobalRL.Limit > 0 {
		window := deps.GlobalRL.Window
		if window <= 0 {
			window = time.Minute
		}
		r.Use(httprate.Limit(
			deps.GlobalRL.Limit,
			window,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				response.WriteError(w, r, domain.ErrRateLimited("global"))
			}),
		))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, r, domain.New(domain.KindNotFound, "route_not_found", "route not found"))
	})

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/onboarding/v1", func(r chi.Router) {
		r.Get("/config", deps.Onboarding.Config)
		r.With(startRL).Post("/drafts", deps.Onboarding.StartDraft)
		r.Get("/me", deps.Onboarding.Me)
		r.With(submitRL).Post("/me/steps/{step}", deps.Onboarding.SubmitStep)

		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.AdminMW)
			r.Get("/config", deps.Admin.GetConfig)
			r.Put("/config", deps.Admin.PutConfig)
			r.Get("/users", deps.Admin.ListUsers)
		})
	})

	return r, nil
}

func orPassThrough(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw != nil {
		return mw
	}
	return func(next http.Handler) http.Handler { return next }
}
