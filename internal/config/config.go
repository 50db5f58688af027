// Package config loads mailmerge settings from flags, environment variables
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dmitrymomot/mailmerge/pkg/logger"
	"github.com/dmitrymomot/mailmerge/pkg/mailer"
	"github.com/dmitrymomot/mailmerge/pkg/mailer/resend"
	"github.com/dmitrymomot/mailmerge/pkg/mailer/smtp"
	"github.com/dmitrymomot/mailmerge/pkg/storage"
)

// Keys are the lower-case environment variable names, so the same key works
// in the environment, in a .env file and as a flag binding.
const (
	KeyProvider        = "mailmerge_provider"
	KeyConcurrency     = "mailmerge_concurrency"
	KeyCampaign        = "mailmerge_campaign"
	KeyReportDir       = "mailmerge_report_dir"
	KeyLayoutDir       = "mailmerge_layout_dir"
	KeyAddressColumn   = "mailmerge_address_column"
	KeyRedisURL        = "mailmerge_redis_url"
	KeyLedgerTTL       = "mailmerge_ledger_ttl"
	KeyFallbackSubject = "mailer_fallback_subject"
	KeyLayout          = "mailer_layout"
	KeyFrom            = "smtp_from"
	KeyReplyTo         = "smtp_reply_to"
	KeySMTPRelay       = "smtp_relay"
	KeySMTPPort        = "smtp_port"
	KeySMTPUsername    = "smtp_username"
	KeySMTPPassword    = "smtp_password"
	KeySMTPAuth        = "smtp_auth"
	KeySMTPTLS         = "smtp_tls"
	KeySMTPTimeout     = "smtp_timeout"
	KeyResendAPIKey    = "resend_api_key"
	KeyS3Bucket        = "mailmerge_s3_bucket"
	KeyS3AccessKey     = "mailmerge_s3_access_key"
	KeyS3SecretKey     = "mailmerge_s3_secret_key"
	KeyS3Endpoint      = "mailmerge_s3_endpoint"
	KeyS3Region        = "mailmerge_s3_region"
	KeyS3Prefix        = "mailmerge_s3_prefix"
	KeyS3PathStyle     = "mailmerge_s3_path_style"
	KeySentryDSN       = "sentry_dsn"
	KeySentryEnv       = "sentry_environment"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
)

// Providers.
const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
)

// DefaultEnvFile is read when present and no other file is named.
const DefaultEnvFile = ".env"

var (
	ErrMissingSetting  = errors.New("config: missing required setting")
	ErrInvalidSetting  = errors.New("config: invalid setting")
	ErrReadEnvFile     = errors.New("config: failed to read env file")
	ErrUnknownProvider = errors.New("config: unknown provider")
)

// Config is the resolved configuration of one command run.
type Config struct {
	Log     logger.Config
	Sentry  logger.SentryConfig
	Mailer  mailer.Config
	SMTP    smtp.Config
	Resend  resend.Config
	Storage storage.Config

	Provider      string
	Campaign      string
	ReportDir     string
	LayoutDir     string
	AddressColumn string
	RedisURL      string
	LedgerTTL     time.Duration
	Concurrency   int
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyProvider, ProviderSMTP)
	v.SetDefault(KeyConcurrency, 1)
	v.SetDefault(KeyReportDir, ".")
	v.SetDefault(KeyAddressColumn, "email")
	v.SetDefault(KeyFallbackSubject, "Notification")
	v.SetDefault(KeySMTPPort, 587)
	v.SetDefault(KeySMTPAuth, "PLAIN")
	v.SetDefault(KeySMTPTLS, smtp.TLSStartTLS)
	v.SetDefault(KeySMTPTimeout, 15*time.Second)
	v.SetDefault(KeyS3Region, storage.DefaultRegion)
	v.SetDefault(KeySentryEnv, "production")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, logger.FormatText)
	v.AutomaticEnv()
	return v
}

// ReadEnvFile merges KEY=value pairs from path. A missing DefaultEnvFile is
// not an error; a missing file named explicitly is.
func ReadEnvFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %s: %v", ErrReadEnvFile, path, err)
	}
	return nil
}

// Load resolves the configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Log: logger.Config{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
		Sentry: logger.SentryConfig{
			DSN:         v.GetString(KeySentryDSN),
			Environment: v.GetString(KeySentryEnv),
		},
		Mailer: mailer.Config{
			FallbackSubject: v.GetString(KeyFallbackSubject),
			From:            v.GetString(KeyFrom),
			ReplyTo:         v.GetString(KeyReplyTo),
			Layout:          v.GetString(KeyLayout),
		},
		SMTP: smtp.Config{
			Host:     v.GetString(KeySMTPRelay),
			Port:     v.GetInt(KeySMTPPort),
			Username: v.GetString(KeySMTPUsername),
			Password: v.GetString(KeySMTPPassword),
			AuthType: v.GetString(KeySMTPAuth),
			TLS:      v.GetString(KeySMTPTLS),
			Timeout:  v.GetDuration(KeySMTPTimeout),
		},
		Resend: resend.Config{
			APIKey:      v.GetString(KeyResendAPIKey),
			SenderEmail: v.GetString(KeyFrom),
		},
		Storage: storage.Config{
			Bucket:    v.GetString(KeyS3Bucket),
			AccessKey: v.GetString(KeyS3AccessKey),
			SecretKey: v.GetString(KeyS3SecretKey),
			Endpoint:  v.GetString(KeyS3Endpoint),
			Region:    v.GetString(KeyS3Region),
			Prefix:    v.GetString(KeyS3Prefix),
			PathStyle: v.GetBool(KeyS3PathStyle),
		},
		Provider:      strings.ToLower(v.GetString(KeyProvider)),
		Campaign:      v.GetString(KeyCampaign),
		ReportDir:     v.GetString(KeyReportDir),
		LayoutDir:     v.GetString(KeyLayoutDir),
		AddressColumn: v.GetString(KeyAddressColumn),
		RedisURL:      v.GetString(KeyRedisURL),
		LedgerTTL:     v.GetDuration(KeyLedgerTTL),
		Concurrency:   v.GetInt(KeyConcurrency),
	}

	if cfg.Concurrency < 1 {
		return nil, fmt.Errorf("%w: %s must be at least 1", ErrInvalidSetting, KeyConcurrency)
	}
	if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSetting, KeyLogLevel, err)
	}
	return cfg, nil
}

// ArchiveEnabled reports whether reports should be uploaded.
func (c *Config) ArchiveEnabled() bool {
	return c.Storage.Bucket != ""
}

// ValidateSend reports every setting the send command needs but lacks.
func (c *Config) ValidateSend() error {
	var errs []error
	missing := func(key string) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrMissingSetting, strings.ToUpper(key)))
	}

	if c.Mailer.From == "" {
		missing(KeyFrom)
	}

	switch c.Provider {
	case ProviderSMTP:
		if c.SMTP.Host == "" {
			missing(KeySMTPRelay)
		}
		if c.SMTP.Username != "" && c.SMTP.Password == "" {
			missing(KeySMTPPassword)
		}
	case ProviderResend:
		if c.Resend.APIKey == "" {
			missing(KeyResendAPIKey)
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider))
	}

	if c.ArchiveEnabled() {
		if c.Storage.AccessKey == "" {
			missing(KeyS3AccessKey)
		}
		if c.Storage.SecretKey == "" {
			missing(KeyS3SecretKey)
		}
	}

	return errors.Join(errs...)
}
