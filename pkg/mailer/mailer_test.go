package mailer

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailmerge/pkg/merge"
)

// MockSender is a mock implementation of Sender interface.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, email *Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func mustMessage(t *testing.T, content, subject string) *Message {
	t.Helper()
	msg, err := ParseMessage([]byte(content), subject)
	require.NoError(t, err)
	return msg
}

func TestMailer_Send_Success(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(mockSender, nil, Config{FallbackSubject: "Notification"})

	mockSender.On("Send", mock.Anything, mock.MatchedBy(func(email *Email) bool {
		return email.To[0] == "alice@example.com" &&
			email.Subject == "Welcome Alice" &&
			email.Text == "Hello Alice!\n" &&
			email.HTML == ""
	})).Return(nil)

	err := m.Send(context.Background(), SendParams{
		To:      "alice@example.com",
		Message: mustMessage(t, "Hello {name}!\n", "Welcome {name}"),
		Vars:    map[string]string{"name": "Alice"},
	})

	require.NoError(t, err)
	mockSender.AssertExpectations(t)
}

func TestMailer_Send_NoRecipient(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(mockSender, nil, Config{})

	err := m.Send(context.Background(), SendParams{
		Message: mustMessage(t, "body", "subject"),
	})

	require.ErrorIs(t, err, ErrNoRecipient)
	mockSender.AssertNotCalled(t, "Send")
}

func TestMailer_Send_NoMessage(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(mockSender, nil, Config{})

	err := m.Send(context.Background(), SendParams{To: "alice@example.com"})

	require.ErrorIs(t, err, ErrNoMessage)
	mockSender.AssertNotCalled(t, "Send")
}

func TestMailer_Send_SenderFailure(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(mockSender, nil, Config{})

	sendErr := errors.New("connection refused")
	mockSender.On("Send", mock.Anything, mock.Anything).Return(sendErr)

	err := m.Send(context.Background(), SendParams{
		To:      "alice@example.com",
		Message: mustMessage(t, "body", "subject"),
	})

	require.ErrorIs(t, err, ErrSendFailed)
	require.ErrorIs(t, err, sendErr)
	mockSender.AssertExpectations(t)
}

func TestMailer_Compose_MissingVariables(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(mockSender, nil, Config{})

	email, err := m.Compose(SendParams{
		To:      "alice@example.com",
		Message: mustMessage(t, "Dear {name}, your code is {code}.", "Hi {name} from {team}"),
		Vars:    map[string]string{},
	})

	require.Nil(t, email)
	require.ErrorIs(t, err, ErrRenderFailed)
	require.ErrorIs(t, err, merge.ErrMissingVariables)

	var missing *merge.MissingVariablesError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, []string{"name", "team", "code"}, missing.Names)
	mockSender.AssertNotCalled(t, "Send")
}

func TestMailer_Compose_SubjectResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		subject string
		config  Config
		want    string
	}{
		{
			name:    "argument wins over frontmatter",
			content: "---\nSubject: From file\n---\nbody",
			subject: "From argument",
			want:    "From argument",
		},
		{
			name:    "frontmatter",
			content: "---\nSubject: Hello {name}\n---\nbody",
			want:    "Hello Alice",
		},
		{
			name:    "config fallback",
			content: "body",
			config:  Config{FallbackSubject: "Note for {name}"},
			want:    "Note for Alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := New(&MockSender{}, nil, tt.config)
			email, err := m.Compose(SendParams{
				To:      "alice@example.com",
				Message: mustMessage(t, tt.content, tt.subject),
				Vars:    map[string]string{"name": "Alice"},
			})
			require.NoError(t, err)
			require.Equal(t, tt.want, email.Subject)
		})
	}
}

func TestMailer_Compose_EmptySubject(t *testing.T) {
	t.Parallel()

	m := New(&MockSender{}, nil, Config{})

	_, err := m.Compose(SendParams{
		To:      "alice@example.com",
		Message: mustMessage(t, "body", ""),
	})

	require.ErrorIs(t, err, ErrNoSubject)
}

func TestMailer_Compose_SenderPrecedence(t *testing.T) {
	t.Parallel()

	cfg := Config{
		FallbackSubject: "Notification",
		From:            "config@example.com",
		ReplyTo:         "config-reply@example.com",
	}
	m := New(&MockSender{}, nil, cfg)

	withFrontmatter := mustMessage(t, "---\nFrom: file@example.com\n---\nbody", "")
	plain := mustMessage(t, "body", "")

	email, err := m.Compose(SendParams{To: "a@example.com", Message: plain})
	require.NoError(t, err)
	require.Equal(t, "config@example.com", email.From)
	require.Equal(t, "config-reply@example.com", email.ReplyTo)

	email, err = m.Compose(SendParams{To: "a@example.com", Message: withFrontmatter})
	require.NoError(t, err)
	require.Equal(t, "file@example.com", email.From)

	email, err = m.Compose(SendParams{
		To:      "a@example.com",
		Message: withFrontmatter,
		From:    "param@example.com",
		ReplyTo: "param-reply@example.com",
		CC:      []string{"cc@example.com"},
		Tags:    SimpleTags("campaign"),
	})
	require.NoError(t, err)
	require.Equal(t, "param@example.com", email.From)
	require.Equal(t, "param-reply@example.com", email.ReplyTo)
	require.Equal(t, []string{"cc@example.com"}, email.CC)
	require.Contains(t, email.Tags, "campaign")
}

func TestMailer_Compose_Markdown(t *testing.T) {
	t.Parallel()

	fs := fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`<html><body>{{.Content}}</body></html>`),
		},
	}
	renderer := NewRendererWithConfig(fs, RendererConfig{LayoutDir: "layouts"})
	m := New(&MockSender{}, renderer, Config{Layout: "base.html"})

	msg := mustMessage(t, "---\nSubject: Hi\nFormat: markdown\n---\nHello **{name}**!\n", "")

	email, err := m.Compose(SendParams{
		To:      "alice@example.com",
		Message: msg,
		Vars:    map[string]string{"name": "Alice"},
	})
	require.NoError(t, err)
	require.Equal(t, "Hello **Alice**!\n", email.Text)
	require.Contains(t, email.HTML, "<html><body>")
	require.Contains(t, email.HTML, "<strong>Alice</strong>")
}

func TestMailer_Compose_MissingLayout(t *testing.T) {
	t.Parallel()

	m := New(&MockSender{}, NewRenderer(fstest.MapFS{}), Config{})
	msg := mustMessage(t, "---\nSubject: Hi\nFormat: markdown\n---\nbody", "")

	_, err := m.Compose(SendParams{To: "a@example.com", Message: msg, Layout: "missing.html"})
	require.ErrorIs(t, err, ErrRenderFailed)
	require.ErrorIs(t, err, ErrLayoutNotFound)
}

func TestMailer_SendRaw(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		email   *Email
		wantErr error
	}{
		{
			name:    "no recipient",
			email:   &Email{Subject: "s", Text: "t"},
			wantErr: ErrNoRecipient,
		},
		{
			name:    "no subject",
			email:   &Email{To: []string{"a@example.com"}, Text: "t"},
			wantErr: ErrNoSubject,
		},
		{
			name:    "no content",
			email:   &Email{To: []string{"a@example.com"}, Subject: "s"},
			wantErr: ErrNoContent,
		},
		{
			name:  "text only",
			email: &Email{To: []string{"a@example.com"}, Subject: "s", Text: "t"},
		},
		{
			name:  "html only",
			email: &Email{To: []string{"a@example.com"}, Subject: "s", HTML: "<p>t</p>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockSender := &MockSender{}
			mockSender.On("Send", mock.Anything, tt.email).Return(nil)
			m := New(mockSender, nil, Config{})

			err := m.SendRaw(context.Background(), tt.email)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				mockSender.AssertNotCalled(t, "Send")
				return
			}
			require.NoError(t, err)
			mockSender.AssertExpectations(t)
		})
	}
}

func TestSenderFunc(t *testing.T) {
	t.Parallel()

	var got *Email
	s := SenderFunc(func(_ context.Context, email *Email) error {
		got = email
		return nil
	})

	email := &Email{To: []string{"a@example.com"}}
	require.NoError(t, s.Send(context.Background(), email))
	require.Same(t, email, got)
}
