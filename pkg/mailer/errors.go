package mailer

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoSubject indicates the subject rendered to an empty string.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrNoContent indicates neither a text nor an HTML body is present.
	ErrNoContent = errors.New("email must have a body")

	// ErrNoMessage indicates SendParams carried no message template.
	ErrNoMessage = errors.New("message template is required")

	// ErrLayoutNotFound indicates the layout file was not found.
	ErrLayoutNotFound = errors.New("layout not found")

	// ErrRenderFailed indicates subject, body or layout rendering failed.
	ErrRenderFailed = errors.New("failed to render message")

	// ErrSendFailed indicates email sending failed.
	ErrSendFailed = errors.New("failed to send email")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")

	// ErrUnknownFormat indicates a message declared a body format other than text or markdown.
	ErrUnknownFormat = errors.New("unknown body format")
)
