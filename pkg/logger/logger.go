package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config selects level, format and destination of log output.
type Config struct {
	Level  string    `env:"LOG_LEVEL" envDefault:"info"`
	Format string    `env:"LOG_FORMAT" envDefault:"text"`
	Output io.Writer `env:"-"` // Default: os.Stderr
}

// New creates a logger for cfg. Context extractors run on every record.
func New(cfg Config, extractors ...ContextExtractor) (*slog.Logger, error) {
	handler, err := newHandler(cfg)
	if err != nil {
		return nil, err
	}
	return slog.New(withContext(handler, extractors)), nil
}

// Discard returns a logger that drops every record. Campaigns and the CLI
// start with it until a configured logger replaces it.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newHandler(cfg Config) (slog.Handler, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "", FormatText:
		return slog.NewTextHandler(out, opts), nil
	case FormatJSON:
		return slog.NewJSONHandler(out, opts), nil
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}
}

// ParseLevel parses debug, info, warn or error. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("logger: %w", err)
	}
	return level, nil
}
