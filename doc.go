// Package mailmerge sends one personalised email per recipient of a CSV file.
//
// A campaign combines a parsed message (subject and body templates, see
// package mailer), a validated recipient batch (package recipient) and a
// mailer with a delivery provider:
//
//	batch, err := recipient.LoadFile("recipients.csv")
//	if err != nil {
//		return err // *recipient.InvalidRowsError lists every bad row
//	}
//
//	msg, err := mailer.LoadMessage("message.md", "Welcome {name}")
//	if err != nil {
//		return err
//	}
//
//	c := mailmerge.New(m, msg, batch,
//		mailmerge.WithLogger(log),
//		mailmerge.WithConcurrency(4),
//		mailmerge.WithLedger(ledger.NewMemory()),
//	)
//
//	if err := c.Check(); err != nil {
//		return err // *mailmerge.UnresolvedError names rows and missing variables
//	}
//
//	report, err := c.Send(ctx)
//
// # Delivery semantics
//
// A recipient whose subject or body cannot be rendered is reported as failed
// and nothing is sent to them. A provider error fails that recipient only.
// Neither stops the batch; only context cancellation does, in which case the
// recipients not yet attempted are reported as failed with the context error.
//
// A recipient's delivery flag (recipient.Status) flips exactly once, after
// the provider accepted the message. With a ledger configured, recipients
// already recorded for the campaign ID are skipped, so a rerun of an
// interrupted campaign resumes where it stopped.
//
// # Reports
//
// Send returns a Report with one Result per recipient in input order.
// Report.WriteCSV writes the email,sent,status,error table; with an archive
// configured the same CSV is uploaded under reports/<campaign-id>/.
package mailmerge
