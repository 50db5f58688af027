package mailer

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/lo"

	"github.com/dmitrymomot/mailmerge/pkg/merge"
)

// Mailer renders messages for one recipient at a time and hands them to a Sender.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	config   Config
	fallback *merge.Template
}

// New creates a new Mailer with the given sender and renderer.
// A nil renderer is replaced by one without layouts.
func New(sender Sender, renderer *Renderer, cfg Config) *Mailer {
	if renderer == nil {
		renderer = NewRenderer(nil)
	}
	return &Mailer{
		sender:   sender,
		renderer: renderer,
		config:   cfg,
		fallback: merge.Compile(cfg.FallbackSubject),
	}
}

// SendParams contains parameters for sending one merged email.
type SendParams struct {
	To      string            // Single recipient address
	Message *Message          // Parsed message file
	Vars    map[string]string // Recipient variables

	// Optional overrides
	Layout  string            // Override Config.Layout
	From    string            // Override message and config sender
	ReplyTo string            // Override message and config reply-to
	CC      []string          // Carbon copy
	BCC     []string          // Blind carbon copy
	Headers map[string]string // Custom headers
	Tags    Tags              // Provider tags
}

// Compose renders subject and body for params.Vars and returns the email
// that Send would deliver. Missing variables of subject and body are reported
// together as one *merge.MissingVariablesError joined with ErrRenderFailed.
func (m *Mailer) Compose(params SendParams) (*Email, error) {
	if params.To == "" {
		return nil, ErrNoRecipient
	}
	msg := params.Message
	if msg == nil {
		return nil, ErrNoMessage
	}

	subjectTmpl := msg.Subject
	if subjectTmpl == nil {
		subjectTmpl = m.fallback
	}

	subject, subjectErr := subjectTmpl.Render(params.Vars)
	body, bodyErr := msg.Body.Render(params.Vars)
	if err := joinMissing(subjectErr, bodyErr); err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, ErrNoSubject
	}

	email := &Email{
		To:      []string{params.To},
		Subject: subject,
		Text:    body,
		From:    lo.CoalesceOrEmpty(params.From, msg.From, m.config.From),
		ReplyTo: lo.CoalesceOrEmpty(params.ReplyTo, msg.ReplyTo, m.config.ReplyTo),
		CC:      params.CC,
		BCC:     params.BCC,
		Headers: params.Headers,
		Tags:    params.Tags,
	}

	if msg.Format == FormatMarkdown {
		layout := lo.CoalesceOrEmpty(params.Layout, m.config.Layout)
		result, err := m.renderer.Render(layout, body, msg.Metadata)
		if err != nil {
			return nil, errors.Join(ErrRenderFailed, err)
		}
		email.HTML = result.HTML
	}

	return email, nil
}

// Send composes an email and sends it.
// Subject resolution: message subject > Config.FallbackSubject.
func (m *Mailer) Send(ctx context.Context, params SendParams) error {
	email, err := m.Compose(params)
	if err != nil {
		return err
	}

	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	return nil
}

// SendRaw sends a pre-built email without template rendering.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	if len(email.To) == 0 {
		return ErrNoRecipient
	}
	if email.Subject == "" {
		return ErrNoSubject
	}
	if email.Text == "" && email.HTML == "" {
		return ErrNoContent
	}

	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	return nil
}

// joinMissing merges the missing names of two render errors into one
// MissingVariablesError. Any other error is returned as is.
func joinMissing(errs ...error) error {
	var names []string
	for _, err := range errs {
		if err == nil {
			continue
		}
		var missing *merge.MissingVariablesError
		if !errors.As(err, &missing) {
			return err
		}
		names = append(names, missing.Names...)
	}
	if len(names) == 0 {
		return nil
	}
	return &merge.MissingVariablesError{Names: lo.Uniq(names)}
}
