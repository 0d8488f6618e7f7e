package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	appctx "github.com/baechuer/real-time-ressys/services/onboarding-service/internal/pkg/context"
)

var Logger zerolog.Logger

func Init() {
	InitWithWriter(os.Stdout)
}

func InitWithWriter(w io.Writer) {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	format := os.Getenv("LOG_FORMAT") // "json" or "console"
	if format == "" {
		format = "console"
	}

	base := zerolog.New(w)
	if format != "json" {
		base = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}
	Logger = base.With().Timestamp().Str("service", "onboarding-service").Logger().Level(level)

	zlog.Logger = Logger
}

// WithCtx returns the service logger enriched with request scoped fields.
func WithCtx(ctx context.Context) *zerolog.Logger {
	l := Logger
	if rid := appctx.GetRequestID(ctx); rid != "" {
		l = l.With().Str("request_id", rid).Logger()
	}
	if did := appctx.GetDraftID(ctx); did != "" {
		l = l.With().Str("draft_id", did).Logger()
	}
	return &l
}
