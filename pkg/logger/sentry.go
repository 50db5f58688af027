package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// MinLevel is the lowest level stored as a Sentry log; errors always become issues.
	MinLevel slog.Level
}

// flushTimeout bounds how long Flush waits for queued Sentry events.
const flushTimeout = 2 * time.Second

// NewWithSentry creates a logger writing to cfg.Output and, when a DSN is
// set, to Sentry. The returned flush func must be called before exit so
// failed deliveries logged at the end of a run reach Sentry.
func NewWithSentry(cfg Config, sc SentryConfig, extractors ...ContextExtractor) (*slog.Logger, func(), error) {
	local, err := newHandler(cfg)
	if err != nil {
		return nil, nil, err
	}
	noop := func() {}

	if sc.DSN == "" {
		return slog.New(withContext(local, extractors)), noop, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         sc.DSN,
		Environment: sc.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(local).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return slog.New(withContext(local, extractors)), noop, nil
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if sc.MinLevel >= slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	remote := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	flush := func() { sentry.Flush(flushTimeout) }
	return slog.New(withContext(multiHandler{local, remote}, extractors)), flush, nil
}
