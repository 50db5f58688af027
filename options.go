package mailmerge

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/mailmerge/pkg/ledger"
	"github.com/dmitrymomot/mailmerge/pkg/mailer"
)

// Option configures a Campaign.
type Option func(*Campaign)

// WithID sets the campaign ID used for ledger records and archive keys.
// Defaults to a UUID derived from the message subject and body.
func WithID(id string) Option {
	return func(c *Campaign) {
		if id != "" {
			c.id = id
		}
	}
}

// WithLogger sets the campaign logger.
// If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(c *Campaign) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithConcurrency sets how many recipients are sent in parallel.
// Defaults to 1, sending in input order.
func WithConcurrency(n int) Option {
	return func(c *Campaign) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLedger enables skipping recipients already delivered by an earlier
// run of the same campaign ID.
func WithLedger(l ledger.Ledger) Option {
	return func(c *Campaign) {
		c.ledger = l
	}
}

// WithArchive uploads the CSV report after Send.
func WithArchive(a Archive) Option {
	return func(c *Campaign) {
		c.archive = a
	}
}

// WithProgress registers a callback invoked after each recipient.
// It may be called from several goroutines when concurrency is above 1.
func WithProgress(fn func(Result)) Option {
	return func(c *Campaign) {
		c.progress = fn
	}
}

// WithSendParams sets per-campaign overrides applied to every email:
// From, ReplyTo, CC, BCC, Headers, Tags and Layout. To, Message and Vars
// are always set per recipient.
func WithSendParams(p mailer.SendParams) Option {
	return func(c *Campaign) {
		c.base = p
	}
}

// WithClock overrides the time source used for report names.
func WithClock(now func() time.Time) Option {
	return func(c *Campaign) {
		if now != nil {
			c.now = now
		}
	}
}
