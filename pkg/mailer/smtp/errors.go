package smtp

import "errors"

var (
	// ErrNoHost indicates the relay host is not configured.
	ErrNoHost = errors.New("smtp: relay host is required")

	// ErrUnknownTLS indicates a TLS mode other than starttls, ssl or none.
	ErrUnknownTLS = errors.New("smtp: unknown tls mode")

	// ErrNoStartTLS indicates the relay does not offer STARTTLS while the
	// starttls mode requires it.
	ErrNoStartTLS = errors.New("smtp: relay does not support STARTTLS")

	// ErrBuildMessage indicates the email could not be converted to a MIME message.
	ErrBuildMessage = errors.New("smtp: failed to build message")
)
