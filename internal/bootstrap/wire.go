package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/application/onboarding"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/infrastructure/db/migrations"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/real-time-ressys/services/onboarding-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/infrastructure/redis"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/logger"
	http_handlers "github.com/baechuer/real-time-ressys/services/onboarding-service/internal/transport/http/handlers"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB   func(addr string, debug bool) (*sql.DB, error)
	Migrate func(ctx context.Context, db *sql.DB) error

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(rabbitURL, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

type Publisher interface {
	onboarding.EventPublisher
}

// stores groups the persistence ports of one STORE_DRIVER.
type stores struct {
	partitions onboarding.PartitionStore
	accounts   onboarding.AccountRepo
	drafts     onboarding.DraftRepo
	reports    onboarding.ReportRepo
	ready      http_handlers.Pinger // nil for memory
}

const migrateTimeout = time.Minute

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 1) storage
	var st stores
	switch cfg.StoreDriver {
	case "memory":
		logger.Logger.Warn().Msg("STORE_DRIVER=memory; data is lost on restart")
		accounts := memory.NewAccountRepo()
		drafts := memory.NewDraftRepo(accounts)
		st = stores{
			partitions: memory.NewPartitionStore(),
			accounts:   accounts,
			drafts:     drafts,
			reports:    memory.NewReportView(accounts, drafts),
		}
	default:
		db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
		if err != nil {
			return fail(err)
		}
		cleanupFns = append(cleanupFns, func() { _ = db.Close() })

		if cfg.DBAutoMigrate && deps.Migrate != nil {
			ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
			err := deps.Migrate(ctx, db)
			cancel()
			if err != nil {
				return fail(err)
			}
			logger.Logger.Info().Msg("migrations applied")
		}

		reports := postgres.NewReportRepo(db)
		st = stores{
			partitions: postgres.NewPartitionRepo(db),
			accounts:   postgres.NewAccountRepo(db),
			drafts:     postgres.NewDraftRepo(db),
			reports:    reports,
			ready:      reports,
		}
	}

	// 2) redis (best-effort)
	var redisCli *redis.Client
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(ctx)
		cancel()

		rc, ok := c.(*redis.Client)
		switch {
		case err != nil:
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-memory sessions")
			_ = c.Close()
		case !ok:
			logger.Logger.Warn().Msg("redis client type unsupported; using in-memory sessions")
			_ = c.Close()
		default:
			logger.Logger.Info().Msg("redis connected")
			redisCli = rc
			cleanupFns = append(cleanupFns, func() { _ = rc.Close() })
		}
	}

	var sessions onboarding.SessionStore
	if redisCli != nil {
		sessions = redis.NewSessionStore(redisCli)
	} else {
		sessions = memory.NewSessionStore()
	}

	// 3) publisher
	var pub onboarding.EventPublisher
	switch {
	case cfg.RabbitURL == "" && cfg.IsDev():
		logger.Logger.Warn().Msg("RABBIT_URL not set; using noop publisher")
		pub = memory.NewNoopPublisher()
	default:
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			if !cfg.IsDev() {
				return fail(err)
			}
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
			pub = memory.NewNoopPublisher()
		} else {
			pub = p
			if c, ok := p.(interface{ Close() error }); ok {
				cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			}
		}
	}

	// 4) service
	svc := onboarding.NewService(
		st.partitions,
		st.accounts,
		st.drafts,
		sessions,
		security.NewBcryptHasher(cfg.BcryptCost),
		st.reports,
		pub,
		onboarding.Config{
			SessionTTL:  cfg.SessionTTL,
			ReportLimit: cfg.ReportLimit,
		},
	)

	svc = svc.WithAudit(func(action string, fields map[string]string) {
		evt := logger.Logger.Info().
			Bool("audit", true).
			Str("action", action)
		for k, v := range fields {
			evt = evt.Str(k, v)
		}
		evt.Msg("audit")
	})

	// 5) handlers + middleware
	onboardingH := http_handlers.NewOnboardingHandler(svc, svc.SessionTTL(), cfg.CookieSecure)
	adminH := http_handlers.NewAdminHandler(svc)

	checks := map[string]http_handlers.Pinger{}
	if st.ready != nil {
		checks["postgres"] = st.ready
	}
	if redisCli != nil {
		checks["redis"] = redisCli
	}
	healthH := http_handlers.NewHealthHandler(checks)

	var verifier middleware.AdminVerifier
	if cfg.AdminJWTSecret != "" {
		verifier = security.NewJWTVerifier(cfg.AdminJWTSecret, cfg.AdminJWTIssuer)
	} else {
		logger.Logger.Warn().Msg("ADMIN_JWT_SECRET not set; admin routes are open")
	}
	adminMW := middleware.AdminOnly(verifier, response.WriteError)

	// rate limit (fail-open)
	var fwLimiter *redis.FixedWindowLimiter
	if redisCli != nil {
		fwLimiter = redis.NewFixedWindowLimiter(redisCli)
	}

	rl := func(key string, limit int, window time.Duration) func(http.Handler) http.Handler {
		if fwLimiter == nil || !cfg.RLEnabled {
			return nil
		}
		return middleware.RateLimitFixedWindow(
			fwLimiter,
			middleware.FixedWindowConfig{
				RouteKey: key,
				Limit:    limit,
				Window:   window,
			},
			response.WriteError,
		)
	}

	var globalRL router.IPLimit
	if cfg.RLEnabled {
		globalRL = router.IPLimit{Limit: cfg.RLIPLimit, Window: cfg.RLIPWindow}
	}

	// 6) router
	mux, err := deps.NewRouter(router.Deps{
		Health:     healthH,
		Onboarding: onboardingH,
		Admin:      adminH,
		AdminMW:    adminMW,

		StartRL:  rl("onboarding.start", 10, time.Minute),
		SubmitRL: rl("onboarding.submit", 30, time.Minute),
		GlobalRL: globalRL,
	})
	if err != nil {
		return fail(err)
	}

	// 7) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		Migrate:    migrations.Up,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
