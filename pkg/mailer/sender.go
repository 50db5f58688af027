package mailer

import "context"

// Sender delivers fully composed emails. Providers live in sub-packages
// (smtp, resend); tests usually substitute a mock.
type Sender interface {
	// Send delivers one message. To, Subject and a body are already set.
	Send(ctx context.Context, email *Email) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, email *Email) error

// Send calls f(ctx, email).
func (f SenderFunc) Send(ctx context.Context, email *Email) error {
	return f(ctx, email)
}
