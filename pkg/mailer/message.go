package mailer

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/dmitrymomot/mailmerge/pkg/merge"
)

// Format selects how a message body is turned into an email.
type Format string

const (
	// FormatText sends the rendered body as text/plain only.
	FormatText Format = "text"
	// FormatMarkdown sends the rendered body as text/plain plus an HTML alternative.
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a frontmatter Format value. Empty means FormatText.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Message is a parsed mail-merge message: subject and body templates plus
// the sender overrides declared in frontmatter. It is immutable and may be
// shared across goroutines.
type Message struct {
	Subject  *merge.Template // nil when neither argument nor frontmatter set one
	Body     *merge.Template
	Metadata map[string]any
	Format   Format
	From     string
	ReplyTo  string
}

// ParseMessage parses message file content.
// Subject resolution: subject argument > frontmatter "Subject" > Config.FallbackSubject at send time.
func ParseMessage(content []byte, subject string) (*Message, error) {
	tmpl, err := ParseTemplate(content)
	if err != nil {
		return nil, err
	}

	format, err := ParseFormat(tmpl.metaString("Format"))
	if err != nil {
		return nil, err
	}

	msg := &Message{
		Body:     merge.Compile(tmpl.Body),
		Metadata: tmpl.Metadata,
		Format:   format,
		From:     tmpl.metaString("From"),
		ReplyTo:  tmpl.metaString("ReplyTo"),
	}

	if subject == "" {
		subject = tmpl.metaString("Subject")
	}
	if subject != "" {
		msg.Subject = merge.Compile(subject)
	}

	return msg, nil
}

// LoadMessage reads and parses a message file.
func LoadMessage(path, subject string) (*Message, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMessage(content, subject)
}

// Placeholders lists the variables referenced by subject and body.
func (m *Message) Placeholders() []string {
	names := m.Body.Placeholders()
	if m.Subject != nil {
		names = append(m.Subject.Placeholders(), names...)
	}
	return lo.Uniq(names)
}
