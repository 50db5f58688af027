package mailer

// Config holds mailer defaults.
// Embed this in your app config for env parsing.
type Config struct {
	FallbackSubject string `env:"MAILER_FALLBACK_SUBJECT" envDefault:"Notification"`
	From            string `env:"SMTP_FROM"`
	ReplyTo         string `env:"SMTP_REPLY_TO"`
	Layout          string `env:"MAILER_LAYOUT"` // HTML layout wrapping markdown bodies, empty for none
}
