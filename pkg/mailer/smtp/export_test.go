package smtp

// NewTestServer exposes the loopback SMTP server to external test packages.
var NewTestServer = newTestServer
