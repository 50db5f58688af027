package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailmerge"
	"github.com/dmitrymomot/mailmerge/internal/config"
	"github.com/dmitrymomot/mailmerge/pkg/ledger"
	"github.com/dmitrymomot/mailmerge/pkg/mailer"
	"github.com/dmitrymomot/mailmerge/pkg/mailer/resend"
	"github.com/dmitrymomot/mailmerge/pkg/mailer/smtp"
	"github.com/dmitrymomot/mailmerge/pkg/storage"
)

func (a *app) sendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <subject> <message-file>",
		Short: "Send the message to every recipient",
		Long: `Send renders the message for every recipient and delivers it.

A recipient that fails is recorded in the CSV report and the run continues.
The command exits non-zero only when the input or the configuration cannot
be loaded, or when it is interrupted. An empty subject defers to the
message frontmatter.`,
		Args: messageArgs,
		RunE: a.runSend,
	}

	flags := cmd.Flags()
	flags.String("provider", config.ProviderSMTP, "delivery provider (smtp, resend)")
	flags.Int("concurrency", 1, "number of emails sent at once")
	flags.String("campaign", "", "campaign ID (default derived from the message)")
	flags.String("report-dir", ".", "directory the CSV report is written to")
	flags.String("username", "", "SMTP username")
	flags.String("password", "", "SMTP password")
	flags.String("smtp-relay", "", "SMTP relay host")
	flags.String("from", "", "sender address")
	flags.String("reply-to", "", "reply-to address")

	a.bind(cmd, "provider", config.KeyProvider)
	a.bind(cmd, "concurrency", config.KeyConcurrency)
	a.bind(cmd, "campaign", config.KeyCampaign)
	a.bind(cmd, "report-dir", config.KeyReportDir)
	a.bind(cmd, "username", config.KeySMTPUsername)
	a.bind(cmd, "password", config.KeySMTPPassword)
	a.bind(cmd, "smtp-relay", config.KeySMTPRelay)
	a.bind(cmd, "from", config.KeyFrom)
	a.bind(cmd, "reply-to", config.KeyReplyTo)

	return cmd
}

func (a *app) runSend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := a.cfg.ValidateSend(); err != nil {
		return err
	}

	sender, err := a.sender()
	if err != nil {
		return err
	}

	opts := []mailmerge.Option{
		mailmerge.WithID(a.cfg.Campaign),
		mailmerge.WithConcurrency(a.cfg.Concurrency),
	}

	if a.cfg.RedisURL != "" {
		l, err := ledger.Open(ctx, a.cfg.RedisURL, ledger.WithTTL(a.cfg.LedgerTTL))
		if err != nil {
			return err
		}
		defer l.Close()
		opts = append(opts, mailmerge.WithLedger(l))
	}

	if a.cfg.ArchiveEnabled() {
		archive, err := storage.New(a.cfg.Storage)
		if err != nil {
			return err
		}
		opts = append(opts, mailmerge.WithArchive(archive))
	}

	bar := newProgress(cmd.ErrOrStderr())
	opts = append(opts, mailmerge.WithProgress(bar.add))

	c, err := a.campaign(cmd, args, sender, opts...)
	if err != nil {
		return err
	}

	bar.start(c.Len())
	report, sendErr := c.Send(ctx)
	bar.done()

	path, err := writeReport(a.cfg.ReportDir, report)
	if err != nil {
		a.log.ErrorContext(ctx, "report not written", slog.String("error", err.Error()))
	} else {
		a.log.InfoContext(ctx, "report written", slog.String("path", path))
	}
	if report.ArchiveKey != "" {
		a.log.InfoContext(ctx, "report archived", slog.String("key", report.ArchiveKey))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Sent %d/%d\n", report.Sent(), report.Len())
	return sendErr
}

func (a *app) sender() (mailer.Sender, error) {
	if a.cfg.Provider == config.ProviderResend {
		return resend.New(a.cfg.Resend), nil
	}
	s, err := smtp.New(a.cfg.SMTP)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func writeReport(dir string, report *mailmerge.Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, report.Filename())
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := report.WriteCSV(f); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// progress prints a running counter when w is a terminal. A nil progress
// prints nothing.
type progress struct {
	mu    sync.Mutex
	w     io.Writer
	total int
	n     int
}

func newProgress(w io.Writer) *progress {
	if !isTerminal(w) {
		return nil
	}
	return &progress{w: w}
}

func (p *progress) start(total int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.total = total
	p.mu.Unlock()
}

func (p *progress) add(mailmerge.Result) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n++
	fmt.Fprintf(p.w, "\r%d/%d", p.n, p.total)
}

func (p *progress) done() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.n > 0 {
		fmt.Fprintln(p.w)
	}
}
