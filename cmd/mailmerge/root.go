package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dmitrymomot/mailmerge"
	"github.com/dmitrymomot/mailmerge/internal/config"
	"github.com/dmitrymomot/mailmerge/pkg/logger"
	"github.com/dmitrymomot/mailmerge/pkg/mailer"
	"github.com/dmitrymomot/mailmerge/pkg/recipient"
)

// stdinName selects standard input as the recipient source.
const stdinName = "-"

var errSendDisabled = errors.New("sending is disabled for this command")

// app carries state shared by every subcommand of one invocation.
type app struct {
	v   *viper.Viper
	cfg *config.Config
	log *slog.Logger

	flush func()

	recipientsPath string
	envFile        string
}

func newApp() *app {
	return &app{
		v:     config.New(),
		log:   logger.Discard(),
		flush: func() {},
	}
}

func (a *app) execute(ctx context.Context, args []string) error {
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	defer a.flush()
	return cmd.ExecuteContext(ctx)
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mailmerge",
		Short: "Send personalised emails from a CSV table",
		Long: `Mailmerge renders one message per recipient row, replacing {name}
placeholders with the row's columns, and delivers it over SMTP or Resend.

Recipients are read from --recipients or, by default, from standard input.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.recipientsPath, "recipients", stdinName, "recipient CSV file (- for stdin)")
	flags.StringVar(&a.envFile, "env-file", "", "read settings from this .env file (default .env when present)")
	flags.String("address-column", "email", "column holding the recipient address")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", logger.FormatText, "log format (text, json)")
	flags.String("layout-dir", "", "directory holding HTML layouts")

	a.bind(cmd, "address-column", config.KeyAddressColumn)
	a.bind(cmd, "log-level", config.KeyLogLevel)
	a.bind(cmd, "log-format", config.KeyLogFormat)
	a.bind(cmd, "layout-dir", config.KeyLayoutDir)

	cmd.AddCommand(a.sendCmd(), a.previewCmd(), a.checkCmd())
	return cmd
}

// bind ties a flag to a config key. The flag only wins when set explicitly.
func (a *app) bind(cmd *cobra.Command, flag, key string) {
	f := cmd.Flags().Lookup(flag)
	if f == nil {
		f = cmd.PersistentFlags().Lookup(flag)
	}
	_ = a.v.BindPFlag(key, f)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.ReadEnvFile(a.v, a.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	cfg.Log.Output = cmd.ErrOrStderr()

	log, flush, err := logger.NewWithSentry(cfg.Log, cfg.Sentry, logger.ContextAttrs)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	a.flush = flush
	return nil
}

// campaign loads the recipients and the message and builds a campaign
// around sender.
func (a *app) campaign(cmd *cobra.Command, args []string, sender mailer.Sender, opts ...mailmerge.Option) (*mailmerge.Campaign, error) {
	batch, err := a.loadRecipients(cmd.InOrStdin())
	if err != nil {
		return nil, err
	}

	msg, err := mailer.LoadMessage(args[1], args[0])
	if err != nil {
		return nil, err
	}

	var renderer *mailer.Renderer
	if dir := a.cfg.LayoutDir; dir != "" {
		renderer = mailer.NewRendererWithConfig(os.DirFS(dir), mailer.RendererConfig{LayoutDir: "."})
	}
	m := mailer.New(sender, renderer, a.cfg.Mailer)

	opts = append([]mailmerge.Option{mailmerge.WithLogger(a.log)}, opts...)
	return mailmerge.New(m, msg, batch, opts...), nil
}

func (a *app) loadRecipients(stdin io.Reader) (*recipient.Batch, error) {
	opts := []recipient.Option{recipient.WithAddressColumn(a.cfg.AddressColumn)}
	if a.recipientsPath == "" || a.recipientsPath == stdinName {
		batch, err := recipient.Load(stdin, opts...)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return batch, nil
	}
	return recipient.LoadFile(a.recipientsPath, opts...)
}

// noSend is the sender of commands that only render.
var noSend = mailer.SenderFunc(func(context.Context, *mailer.Email) error {
	return errSendDisabled
})

// messageArgs is the positional contract shared by every subcommand.
var messageArgs = cobra.ExactArgs(2)
