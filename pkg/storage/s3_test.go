package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) Config {
	return Config{
		Bucket:    "mail-reports",
		AccessKey: "test-access-key",
		SecretKey: "test-secret-key",
		Endpoint:  endpoint,
		PathStyle: true,
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		store, err := New(testConfig(""))
		require.NoError(t, err)
		require.NotNil(t, store.client)
		require.NotNil(t, store.presigner)
		require.Equal(t, DefaultRegion, store.cfg.Region)
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()

		store, err := New(Config{Bucket: "b"})
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.Nil(t, store)

		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		require.Equal(t, []string{"access key", "secret key"}, cfgErr.Missing)
	})
}

func TestObjectKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix string
		key    string
		want   string
	}{
		{"", "reports/c1/out.csv", "reports/c1/out.csv"},
		{"", "/reports/out.csv", "reports/out.csv"},
		{"mailmerge", "reports/out.csv", "mailmerge/reports/out.csv"},
		{"/mailmerge/", "/reports/out.csv", "mailmerge/reports/out.csv"},
	}

	for _, tt := range tests {
		s := &S3Storage{cfg: Config{Prefix: tt.prefix}}
		require.Equal(t, tt.want, s.objectKey(tt.key))
	}
}

type recordedRequest struct {
	method      string
	path        string
	contentType string
	body        string
}

func TestS3Storage_Put(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		got recordedRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = recordedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			body:        string(body),
		}
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Prefix = "mailmerge"
	store, err := New(cfg)
	require.NoError(t, err)

	data := "email,sent,status,error\nalice@example.com,true,sent,\n"
	info, err := store.Put(context.Background(), "reports/c1/out.csv", strings.NewReader(data), int64(len(data)), "text/csv")
	require.NoError(t, err)
	require.Equal(t, "mailmerge/reports/c1/out.csv", info.Key)
	require.Equal(t, int64(len(data)), info.Size)
	require.Equal(t, "text/csv", info.ContentType)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, http.MethodPut, got.method)
	require.Equal(t, "/mail-reports/mailmerge/reports/c1/out.csv", got.path)
	require.Equal(t, "text/csv", got.contentType)
	require.Contains(t, got.body, "alice@example.com,true,sent,")
}

func TestS3Storage_Put_AccessDenied(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`)
	}))
	defer server.Close()

	store, err := New(testConfig(server.URL))
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "out.csv", strings.NewReader("x"), 1, "text/csv")
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestS3Storage_Put_EmptyKey(t *testing.T) {
	t.Parallel()

	store, err := New(testConfig(""))
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "/", strings.NewReader("x"), 1, "text/csv")
	require.ErrorIs(t, err, ErrEmptyKey)
}

func TestS3Storage_URL(t *testing.T) {
	t.Parallel()

	store, err := New(testConfig("http://localhost:9000"))
	require.NoError(t, err)

	link, err := store.URL(context.Background(), "reports/c1/out.csv", time.Hour)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "http://localhost:9000/mail-reports/reports/c1/out.csv?"))
	require.Contains(t, link, "X-Amz-Signature=")
	require.Contains(t, link, "X-Amz-Expires=3600")

	_, err = store.URL(context.Background(), "", 0)
	require.ErrorIs(t, err, ErrEmptyKey)
}

func TestWrapS3Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no such key", &smithy.GenericAPIError{Code: "NoSuchKey"}, ErrNotFound},
		{"no such bucket", &smithy.GenericAPIError{Code: "NoSuchBucket"}, ErrNotFound},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, ErrAccessDenied},
		{"bad signature", &smithy.GenericAPIError{Code: "SignatureDoesNotMatch"}, ErrAccessDenied},
		{"other api error", &smithy.GenericAPIError{Code: "SlowDown"}, ErrUploadFailed},
		{"plain error", errors.New("network down"), ErrUploadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, wrapS3Error(tt.err, ErrUploadFailed), tt.want)
		})
	}
}
