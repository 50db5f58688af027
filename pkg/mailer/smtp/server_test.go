package smtp

import (
	"encoding/base64"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// delivery is one message accepted by testServer.
type delivery struct {
	From string
	To   []string
	Data string
	User string // authenticated user, empty without AUTH
}

// testServer is a loopback SMTP server speaking just enough of the protocol
// for a client to deliver plain-text mail.
type testServer struct {
	ln       net.Listener
	withAuth bool

	mu         sync.Mutex
	deliveries []delivery
	wg         sync.WaitGroup
}

func newTestServer(t *testing.T, withAuth bool) *testServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &testServer{ln: ln, withAuth: withAuth}
	s.wg.Go(s.serve)
	t.Cleanup(func() {
		_ = ln.Close()
		s.wg.Wait()
	})
	return s
}

func (s *testServer) Config() Config {
	return Config{Host: "127.0.0.1", Port: s.ln.Addr().(*net.TCPAddr).Port, TLS: TLSNone}
}

func (s *testServer) Deliveries() []delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]delivery(nil), s.deliveries...)
}

func (s *testServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Go(func() { s.handle(conn) })
	}
}

func (s *testServer) handle(conn net.Conn) {
	defer conn.Close()

	tp := textproto.NewConn(conn)
	reply := func(code int, msg string) { _ = tp.PrintfLine("%d %s", code, msg) }
	reply(220, "localhost ESMTP test")

	var cur delivery
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		verb, arg, _ := strings.Cut(line, " ")

		switch strings.ToUpper(verb) {
		case "EHLO":
			_ = tp.PrintfLine("250-localhost")
			if s.withAuth {
				_ = tp.PrintfLine("250-AUTH PLAIN")
			}
			reply(250, "8BITMIME")
		case "HELO":
			reply(250, "localhost")
		case "AUTH":
			if !s.withAuth {
				reply(502, "command not implemented")
				continue
			}
			cur.User = plainUser(arg)
			reply(235, "authenticated")
		case "MAIL":
			cur.From = addrArg(arg)
			reply(250, "ok")
		case "RCPT":
			cur.To = append(cur.To, addrArg(arg))
			reply(250, "ok")
		case "DATA":
			reply(354, "go ahead")
			data, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			cur.Data = string(data)
			s.mu.Lock()
			s.deliveries = append(s.deliveries, cur)
			s.mu.Unlock()
			cur = delivery{User: cur.User}
			reply(250, "queued")
		case "RSET":
			cur = delivery{User: cur.User}
			reply(250, "ok")
		case "NOOP":
			reply(250, "ok")
		case "QUIT":
			reply(221, "bye")
			return
		default:
			reply(502, "command not implemented")
		}
	}
}

// addrArg extracts the address of "FROM:<a@b> SIZE=1" style arguments.
func addrArg(arg string) string {
	start := strings.IndexByte(arg, '<')
	end := strings.IndexByte(arg, '>')
	if start < 0 || end < start {
		return arg
	}
	return arg[start+1 : end]
}

// plainUser decodes the username of an AUTH PLAIN initial response.
func plainUser(arg string) string {
	_, resp, ok := strings.Cut(arg, " ")
	if !ok {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(resp)
	if err != nil {
		return ""
	}
	parts := strings.Split(string(raw), "\x00")
	if len(parts) != 3 {
		return ""
	}
	return parts[1]
}
