package mailmerge

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/mailmerge/pkg/logger"
	"github.com/dmitrymomot/mailmerge/pkg/recipient"
)

// Send delivers the message to every recipient and returns the report.
// Per-recipient failures are recorded in the report and never abort the run.
// When ctx is cancelled, recipients not yet attempted are reported as failed
// and ctx.Err() is returned along with the report.
func (c *Campaign) Send(ctx context.Context) (*Report, error) {
	ctx = logger.WithAttrs(ctx, slog.String("campaign", c.id))

	report := &Report{
		CampaignID: c.id,
		StartedAt:  c.now(),
		Results:    make([]Result, c.batch.Len()),
	}

	var g errgroup.Group
	g.SetLimit(c.concurrency)

	for i, r := range c.batch.All() {
		if ctx.Err() != nil {
			break
		}
		// Each goroutine writes only its own index.
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res := c.deliver(ctx, i, r)
			report.Results[i] = res
			if c.progress != nil {
				c.progress(res)
			}
			return nil
		})
	}
	_ = g.Wait()

	for i := range report.Results {
		if report.Results[i].Status == "" {
			report.Results[i] = Result{
				Index:   i,
				Address: c.batch.At(i).Email(),
				Status:  StatusFailed,
				Err:     ctx.Err(),
			}
		}
	}
	report.FinishedAt = c.now()

	c.logger.InfoContext(ctx, fmt.Sprintf("Sent %d/%d", report.Sent(), report.Len()),
		slog.Int("sent", report.Sent()),
		slog.Int("failed", report.Failed()),
		slog.Int("skipped", report.Skipped()),
		slog.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
	)

	if c.archive != nil {
		// Upload even after cancellation; the partial report is what a rerun needs.
		key, err := c.Archive(context.WithoutCancel(ctx), report)
		if err != nil {
			c.logger.ErrorContext(ctx, "report archive failed", slog.String("error", err.Error()))
		} else {
			report.ArchiveKey = key
		}
	}

	return report, ctx.Err()
}

func (c *Campaign) deliver(ctx context.Context, i int, r recipient.Recipient) Result {
	res := Result{Index: i, Address: r.Email(), Status: StatusFailed}
	ctx = logger.WithAttrs(ctx, slog.Int("row", i+1), slog.String("to", r.Email()))
	status := c.tracker.Cell(i)

	if c.alreadyDelivered(ctx, r) {
		status.MarkDelivered()
		res.Status = StatusSkipped
		res.Delivered = true
		c.logger.InfoContext(ctx, "skipped, already delivered")
		return res
	}

	email, err := c.mailer.Compose(c.params(r))
	if err != nil {
		res.Err = err
		c.logger.ErrorContext(ctx, "render failed", slog.String("error", err.Error()))
		return res
	}

	if err := c.mailer.SendRaw(ctx, email); err != nil {
		res.Err = err
		c.logger.ErrorContext(ctx, "send failed", slog.String("error", err.Error()))
		return res
	}

	status.MarkDelivered()
	res.Status = StatusSent
	res.Delivered = true
	c.logger.InfoContext(ctx, "sent")

	if c.ledger != nil {
		if err := c.ledger.MarkDelivered(ctx, c.id, r.Email()); err != nil {
			c.logger.WarnContext(ctx, "ledger write failed", slog.String("error", err.Error()))
		}
	}

	return res
}

func (c *Campaign) alreadyDelivered(ctx context.Context, r recipient.Recipient) bool {
	if c.ledger == nil {
		return false
	}
	ok, err := c.ledger.Delivered(ctx, c.id, r.Email())
	if err != nil {
		c.logger.WarnContext(ctx, "ledger read failed", slog.String("error", err.Error()))
		return false
	}
	return ok
}

// Archive uploads the report CSV under reports/<campaign-id>/<filename> and
// returns the stored key.
func (c *Campaign) Archive(ctx context.Context, report *Report) (string, error) {
	if c.archive == nil {
		return "", fmt.Errorf("%w: no archive configured", ErrArchiveFailed)
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrArchiveFailed, err)
	}

	key := path.Join("reports", report.CampaignID, report.Filename())
	info, err := c.archive.Put(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "text/csv")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrArchiveFailed, err)
	}
	return info.Key, nil
}
