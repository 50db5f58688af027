package smtp

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
	gosmtp "github.com/wneessen/go-mail/smtp"
)

// helloName is announced in EHLO.
const helloName = "localhost"

// relay delivers msg to a relay that accepts mail without authentication.
// The go-mail client always attempts SMTP AUTH, so the conversation is
// driven with its smtp package directly.
func (s *Sender) relay(ctx context.Context, msg *mail.Msg) error {
	from, err := msg.GetSender(false)
	if err != nil {
		return err
	}
	rcpts, err := msg.GetRecipients()
	if err != nil {
		return err
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	conn, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	c, err := gosmtp.NewClient(conn, s.config.Host)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Hello(helloName); err != nil {
		return err
	}

	if tlsMode(s.config.TLS) == TLSStartTLS {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return ErrNoStartTLS
		}
		if err := c.StartTLS(s.tlsConfig()); err != nil {
			return err
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range rcpts {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := msg.WriteTo(w); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return c.Quit()
}

func (s *Sender) dial(ctx context.Context) (net.Conn, error) {
	port := s.config.Port
	mode := tlsMode(s.config.TLS)
	if port == 0 {
		port = DefaultPort
		if mode == TLSSSL {
			port = DefaultSSLPort
		}
	}
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(port))

	if mode == TLSSSL {
		d := &tls.Dialer{Config: s.tlsConfig()}
		return d.DialContext(ctx, "tcp", addr)
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", addr)
}

func (s *Sender) tlsConfig() *tls.Config {
	return &tls.Config{ServerName: s.config.Host, MinVersion: tls.VersionTLS12}
}

// tlsMode normalizes a configured TLS mode; empty means TLSStartTLS.
func tlsMode(mode string) string {
	mode = strings.ToLower(mode)
	if mode == "" {
		return TLSStartTLS
	}
	return mode
}
