// Package smtp delivers mailer emails through an SMTP relay.
package smtp

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/dmitrymomot/mailmerge/pkg/mailer"
)

// Sender implements mailer.Sender over SMTP. Every Send dials its own
// connection, so one Sender may be used from many goroutines.
type Sender struct {
	config Config
	opts   []mail.Option
}

// New creates an SMTP sender. It validates the configuration but does not dial.
func New(cfg Config) (*Sender, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}

	if _, err := mail.NewClient(cfg.Host, opts...); err != nil {
		return nil, fmt.Errorf("smtp: %w", err)
	}

	return &Sender{config: cfg, opts: opts}, nil
}

func clientOptions(cfg Config) ([]mail.Option, error) {
	if cfg.Host == "" {
		return nil, ErrNoHost
	}

	var options []mail.Option

	switch tlsMode(cfg.TLS) {
	case TLSStartTLS:
		options = append(options, mail.WithTLSPolicy(mail.TLSMandatory))
	case TLSSSL:
		options = append(options, mail.WithSSLPort(false))
	case TLSNone:
		options = append(options, mail.WithTLSPolicy(mail.NoTLS))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTLS, cfg.TLS)
	}

	// After WithSSLPort, which sets its own default port.
	if cfg.Port != 0 {
		options = append(options, mail.WithPort(cfg.Port))
	}

	if cfg.Username != "" {
		authType := cfg.AuthType
		if authType == "" {
			authType = string(mail.SMTPAuthPlain)
		}
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthType(strings.ToUpper(authType))),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	if cfg.Timeout > 0 {
		options = append(options, mail.WithTimeout(cfg.Timeout))
	}

	return options, nil
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	msg, err := buildMessage(email)
	if err != nil {
		return err
	}

	if s.config.Username == "" {
		err = s.relay(ctx, msg)
	} else {
		err = s.authenticated(ctx, msg)
	}
	if err != nil {
		return fmt.Errorf("smtp: failed to send email: %w", err)
	}

	return nil
}

// authenticated sends msg through a go-mail client built for this call only.
// A mail.Client keeps a single connection and must not be shared between
// concurrent sends.
func (s *Sender) authenticated(ctx context.Context, msg *mail.Msg) error {
	client, err := mail.NewClient(s.config.Host, s.opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// buildMessage converts an email into a MIME message: text/plain body with an
// optional text/html alternative.
func buildMessage(email *mailer.Email) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.From(email.From); err != nil {
		return nil, fmt.Errorf("%w: from: %v", ErrBuildMessage, err)
	}
	if err := msg.To(email.To...); err != nil {
		return nil, fmt.Errorf("%w: to: %v", ErrBuildMessage, err)
	}
	if email.ReplyTo != "" {
		if err := msg.ReplyTo(email.ReplyTo); err != nil {
			return nil, fmt.Errorf("%w: reply-to: %v", ErrBuildMessage, err)
		}
	}
	if len(email.CC) > 0 {
		if err := msg.Cc(email.CC...); err != nil {
			return nil, fmt.Errorf("%w: cc: %v", ErrBuildMessage, err)
		}
	}
	if len(email.BCC) > 0 {
		if err := msg.Bcc(email.BCC...); err != nil {
			return nil, fmt.Errorf("%w: bcc: %v", ErrBuildMessage, err)
		}
	}

	msg.Subject(email.Subject)
	msg.SetMessageID()
	msg.SetDate()

	for name, value := range email.Headers {
		msg.SetGenHeader(mail.Header(name), value)
	}

	switch {
	case email.Text != "" && email.HTML != "":
		msg.SetBodyString(mail.TypeTextPlain, email.Text)
		msg.AddAlternativeString(mail.TypeTextHTML, email.HTML)
	case email.HTML != "":
		msg.SetBodyString(mail.TypeTextHTML, email.HTML)
	default:
		msg.SetBodyString(mail.TypeTextPlain, email.Text)
	}

	return msg, nil
}
