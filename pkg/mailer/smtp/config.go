package smtp

import "time"

// TLS modes.
const (
	TLSStartTLS = "starttls" // upgrade a plain connection, required
	TLSSSL      = "ssl"      // implicit TLS, usually port 465
	TLSNone     = "none"     // plain text, local relays only
)

// Default ports.
const (
	DefaultPort    = 587
	DefaultSSLPort = 465
)

// Config holds SMTP relay settings.
type Config struct {
	Host     string        `env:"SMTP_RELAY"`
	Port     int           `env:"SMTP_PORT" envDefault:"587"`
	Username string        `env:"SMTP_USERNAME"`
	Password string        `env:"SMTP_PASSWORD"`
	AuthType string        `env:"SMTP_AUTH" envDefault:"PLAIN"` // PLAIN, LOGIN, CRAM-MD5, ...
	TLS      string        `env:"SMTP_TLS" envDefault:"starttls"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"15s"`
}
