package mailmerge

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailmerge/pkg/ledger"
	"github.com/dmitrymomot/mailmerge/pkg/logger"
	"github.com/dmitrymomot/mailmerge/pkg/mailer"
	"github.com/dmitrymomot/mailmerge/pkg/recipient"
	"github.com/dmitrymomot/mailmerge/pkg/storage"
)

// Archive stores finished reports. *storage.S3Storage satisfies it.
type Archive interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*storage.FileInfo, error)
}

// idNamespace scopes campaign IDs derived from message content.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/dmitrymomot/mailmerge/campaign"))

// Campaign sends one message to every recipient of a batch.
// A Campaign is meant for one Send; the delivery flags it tracks are never reset.
type Campaign struct {
	mailer  *mailer.Mailer
	message *mailer.Message
	batch   *recipient.Batch
	tracker *recipient.Tracker

	logger   *slog.Logger
	ledger   ledger.Ledger
	archive  Archive
	progress func(Result)
	now      func() time.Time
	base     mailer.SendParams

	id          string
	concurrency int
}

// New creates a campaign. The batch and message are shared read-only.
func New(m *mailer.Mailer, msg *mailer.Message, batch *recipient.Batch, opts ...Option) *Campaign {
	c := &Campaign{
		mailer:      m,
		message:     msg,
		batch:       batch,
		tracker:     recipient.NewTracker(batch),
		logger:      logger.Discard(),
		now:         time.Now,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.id == "" {
		c.id = DeriveID(msg)
	}
	return c
}

// DeriveID returns a stable ID for a message: the same subject and body
// always yield the same ID.
func DeriveID(msg *mailer.Message) string {
	var subject string
	if msg.Subject != nil {
		subject = msg.Subject.Source()
	}
	return uuid.NewSHA1(idNamespace, []byte(subject+"\x00"+msg.Body.Source())).String()
}

// ID returns the campaign ID.
func (c *Campaign) ID() string {
	return c.id
}

// Len returns the number of recipients.
func (c *Campaign) Len() int {
	return c.batch.Len()
}

// Delivered reports whether the i-th recipient's delivery was confirmed.
func (c *Campaign) Delivered(i int) bool {
	return c.tracker.Cell(i).Delivered()
}

// Check renders every recipient without sending and reports all failures
// at once.
func (c *Campaign) Check() error {
	var unresolved []Unresolved
	for i, r := range c.batch.All() {
		if _, err := c.mailer.Compose(c.params(r)); err != nil {
			unresolved = append(unresolved, Unresolved{
				Row:     i + 1,
				Address: r.Email(),
				Missing: missingNames(err),
				Err:     err,
			})
		}
	}
	if len(unresolved) > 0 {
		return &UnresolvedError{Recipients: unresolved}
	}
	return nil
}

func (c *Campaign) params(r recipient.Recipient) mailer.SendParams {
	p := c.base
	addr := r.Address()
	p.To = mailer.Address(addr.Name, addr.Address)
	p.Message = c.message
	p.Vars = r.Variables()
	return p
}
