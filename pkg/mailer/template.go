package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var frontmatterDelimiter = []byte("---")

// Template is a message file split into frontmatter metadata and body.
type Template struct {
	Metadata map[string]any
	Body     string
}

// ParseTemplate splits content into optional YAML frontmatter and body.
//
//	---
//	Subject: Your {plan} plan renews on {date}
//	Format: markdown
//	---
//	Hi {name}, ...
//
// Content that does not start with "---" is all body.
func ParseTemplate(content []byte) (*Template, error) {
	front, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	metadata := make(map[string]any)
	if len(bytes.TrimSpace(front)) > 0 {
		if err := yaml.Unmarshal(front, &metadata); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	return &Template{
		Metadata: metadata,
		Body:     string(body),
	}, nil
}

func splitFrontmatter(content []byte) (front, body []byte, err error) {
	if !bytes.HasPrefix(content, frontmatterDelimiter) {
		return nil, content, nil
	}

	rest := bytes.TrimLeft(bytes.TrimPrefix(content, frontmatterDelimiter), "\r\n")
	if len(rest) == 0 {
		return nil, nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	end := bytes.Index(rest, frontmatterDelimiter)
	if end == -1 {
		return nil, nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	// One line break after the closing delimiter belongs to the delimiter.
	body = rest[end+len(frontmatterDelimiter):]
	switch {
	case bytes.HasPrefix(body, []byte("\r\n")):
		body = body[2:]
	case bytes.HasPrefix(body, []byte("\n")):
		body = body[1:]
	}

	return rest[:end], body, nil
}

// metaString returns a string metadata value, or "" if absent or not a string.
func (t *Template) metaString(key string) string {
	s, _ := t.Metadata[key].(string)
	return s
}
