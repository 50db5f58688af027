// Package logger builds log/slog loggers with context attribute injection
// and optional Sentry reporting.
//
// # Basic Usage
//
//	log, err := logger.New(logger.Config{Level: "debug", Format: "json"}, logger.ContextAttrs)
//	if err != nil {
//		return err
//	}
//
//	ctx = logger.WithAttrs(ctx, slog.String("campaign", id))
//	log.InfoContext(ctx, "sent", slog.String("to", addr))
//	// {"level":"INFO","msg":"sent","to":"a@example.com","campaign":"..."}
//
// Output defaults to stderr so that command output on stdout stays clean.
//
// # Context Extractors
//
// A ContextExtractor returns one attribute taken from the context, or false
// to add nothing. Extractors run on every record. ContextAttrs is the
// extractor for attributes stored with WithAttrs.
//
// # Sentry Integration
//
//	log, flush, err := logger.NewWithSentry(cfg, logger.SentryConfig{DSN: dsn}, logger.ContextAttrs)
//	defer flush()
//
// Errors become Sentry issues; warnings and errors are stored as Sentry logs.
// Without a DSN, or when Sentry fails to initialize, only local output is used.
package logger
