package onboarding

import (
	"time"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

const (
	defaultSessionTTL  = 30 * 24 * time.Hour
	defaultReportLimit = 500
)

type Service struct {
	partitions PartitionStore
	accounts   AccountRepo
	drafts     DraftRepo
	sessions   SessionStore
	hasher     CredentialHasher
	reports    ReportRepo
	pub        EventPublisher

	sessionTTL  time.Duration
	reportLimit int
	now         func() time.Time
	newID       func() string
	audit       func(action string, fields map[string]string)
}

type Config struct {
	SessionTTL  time.Duration
	ReportLimit int

	// Clock and IDGen are test seams; nil means time.Now / uuid.
	Clock func() time.Time
	IDGen func() string
}

func NewService(
	partitions PartitionStore,
	accounts AccountRepo,
	drafts DraftRepo,
	sessions SessionStore,
	hasher CredentialHasher,
	reports ReportRepo,
	pub EventPublisher,
	cfg Config,
) *Service {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	limit := cfg.ReportLimit
	if limit <= 0 {
		limit = defaultReportLimit
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	idgen := cfg.IDGen
	if idgen == nil {
		idgen = newUUID
	}
	return &Service{
		partitions: partitions,
		accounts:   accounts,
		drafts:     drafts,
		sessions:   sessions,
		hasher:     hasher,
		reports:    reports,
		pub:        pub,

		sessionTTL:  ttl,
		reportLimit: limit,
		now:         func() time.Time { return clock().UTC() },
		newID:       idgen,
		audit:       func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func (s *Service) SessionTTL() time.Duration { return s.sessionTTL }

// publishFailed records a best-effort publish that did not go through.
func (s *Service) publishFailed(event string, err error, fields map[string]string) {
	f := map[string]string{
		"event":      event,
		"result":     "publish_failed",
		"error_code": domainCode(err),
	}
	for k, v := range fields {
		f[k] = v
	}
	s.audit("events.publish", f)
}

func domainCode(err error) string {
	if err == nil {
		return ""
	}
	if de, ok := err.(*domain.Error); ok {
		return de.Code
	}
	return "non_domain_error"
}
