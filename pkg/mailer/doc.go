// Package mailer turns a parsed message file into one email per recipient and
// hands it to a delivery provider.
//
// A message file is plain text with optional YAML frontmatter:
//
//	---
//	Subject: Your {plan} plan renews on {date}
//	Format: markdown
//	From: Billing <billing@example.com>
//	---
//	Hi {name},
//
//	[!button|Manage plan](https://example.com/billing)
//
// Subject and body are merge templates (see package merge). Recognised
// frontmatter keys are Subject, Format (text or markdown), From and ReplyTo;
// any other keys are kept as Metadata and exposed to HTML layouts.
//
// # Components
//
//   - Sender: interface implemented by providers (smtp, resend)
//   - Message: parsed message file, immutable and shareable
//   - Renderer: markdown to sanitized HTML, optionally wrapped in a layout
//   - Mailer: renders a Message for one recipient and sends it
//
// # Usage
//
//	msg, err := mailer.LoadMessage("renewal.md", "")
//	if err != nil {
//		return err
//	}
//
//	m := mailer.New(smtp.New(smtpCfg), nil, mailer.Config{
//		FallbackSubject: "Notification",
//		From:            "news@example.com",
//	})
//
//	err = m.Send(ctx, mailer.SendParams{
//		To:      "alice@example.com",
//		Message: msg,
//		Vars:    map[string]string{"name": "Alice", "plan": "Pro", "date": "May 1"},
//	})
//
// # Errors
//
// Missing variables in subject or body are reported together as one
// *merge.MissingVariablesError joined with ErrRenderFailed; nothing is sent.
// Provider failures are joined with ErrSendFailed.
//
//	if errors.Is(err, merge.ErrMissingVariables) { ... }
//
// # Layouts
//
// Markdown bodies may be wrapped in an html/template layout read from the
// renderer's filesystem (default directory "layouts"). The layout receives
// .Content (the sanitized body HTML) and .Metadata (frontmatter values).
// Parsed layouts are cached; the renderer is safe for concurrent use.
package mailer
