package mailmerge

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/mailmerge/pkg/logger"
)

// Prompter decides whether a preview continues after row shown (1-based) of
// total. Rows that failed to render are counted but were not printed.
type Prompter interface {
	Continue(ctx context.Context, shown, total int) (bool, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, shown, total int) (bool, error)

// Continue calls f(ctx, shown, total).
func (f PrompterFunc) Continue(ctx context.Context, shown, total int) (bool, error) {
	return f(ctx, shown, total)
}

// Preview writes the rendered email of each recipient to w without sending.
// Recipients that fail to render are logged and skipped. A nil Prompter
// previews every recipient.
func (c *Campaign) Preview(ctx context.Context, w io.Writer, p Prompter) error {
	ctx = logger.WithAttrs(ctx, slog.String("campaign", c.id))
	total := c.batch.Len()

	for i, r := range c.batch.All() {
		if err := ctx.Err(); err != nil {
			return err
		}

		email, err := c.mailer.Compose(c.params(r))
		if err != nil {
			c.logger.ErrorContext(ctx, "render failed",
				slog.Int("row", i+1),
				slog.String("to", r.Email()),
				slog.String("error", err.Error()),
			)
			continue
		}

		if _, err := fmt.Fprintf(w, "TO: %s\nSUBJECT: %s\nBODY:\n%s\nPreviewing %d of %d\n",
			email.To[0], email.Subject, email.Text, i+1, total); err != nil {
			return err
		}

		if p == nil || i+1 == total {
			continue
		}
		ok, err := p.Continue(ctx, i+1, total)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	return nil
}
