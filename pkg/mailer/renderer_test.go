package mailer

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestRenderer_Render_WithoutLayout(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(nil)

	result, err := renderer.Render("", "Hello **Alice**!\n\nWelcome to our service.\n", nil)
	require.NoError(t, err)

	// Text is the markdown as given
	require.Equal(t, "Hello **Alice**!\n\nWelcome to our service.\n", result.Text)
	require.NotContains(t, result.Text, "<strong>")

	require.Contains(t, result.HTML, "<strong>Alice</strong>")
	require.Contains(t, result.HTML, "<p>Welcome to our service.</p>")
}

func TestRenderer_Render_WithLayout(t *testing.T) {
	t.Parallel()

	fs := fstest.MapFS{
		"layouts/default.html": &fstest.MapFile{
			Data: []byte(`<html><title>{{.Metadata.Subject}}</title><body>{{.Content}}</body></html>`),
		},
	}

	renderer := NewRendererWithConfig(fs, RendererConfig{LayoutDir: "layouts"})

	result, err := renderer.Render("default.html", "Hi *there*", map[string]any{"Subject": "Greetings"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(result.HTML, "<html><title>Greetings</title><body>"))
	require.Contains(t, result.HTML, "<em>there</em>")
	require.Equal(t, "Hi *there*", result.Text)
}

func TestRenderer_Render_SanitizesHTML(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(nil)

	// goldmark drops raw HTML by default; links still pass through the policy.
	result, err := renderer.Render("", "<script>alert(1)</script>\n\n[click](javascript:alert(1))\n", nil)
	require.NoError(t, err)
	require.NotContains(t, result.HTML, "<script>")
	require.NotContains(t, result.HTML, "javascript:")
}

func TestRenderer_Render_KeepsButtonClass(t *testing.T) {
	t.Parallel()

	renderer := NewRendererWithConfig(nil, RendererConfig{ButtonClass: "cta"})

	result, err := renderer.Render("", "[!button|Open](https://example.com/open)", nil)
	require.NoError(t, err)
	require.Contains(t, result.HTML, `href="https://example.com/open"`)
	require.Contains(t, result.HTML, `class="cta"`)
	require.Contains(t, result.HTML, ">Open</a>")
}

func TestRenderer_Render_LayoutNotFound(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		renderer := NewRenderer(fstest.MapFS{})
		_, err := renderer.Render("nope.html", "body", nil)
		require.ErrorIs(t, err, ErrLayoutNotFound)
	})

	t.Run("no filesystem", func(t *testing.T) {
		t.Parallel()
		renderer := NewRenderer(nil)
		_, err := renderer.Render("default.html", "body", nil)
		require.ErrorIs(t, err, ErrLayoutNotFound)
	})
}

func TestRenderer_Render_InvalidLayout(t *testing.T) {
	t.Parallel()

	fs := fstest.MapFS{
		"layouts/broken.html": &fstest.MapFile{Data: []byte(`<html>{{.Content</html>`)},
	}

	_, err := NewRenderer(fs).Render("broken.html", "body", nil)
	require.ErrorIs(t, err, ErrRenderFailed)
}

func TestRenderer_Render_CachesLayouts(t *testing.T) {
	t.Parallel()

	var openCount atomic.Int32

	cfs := &countingFS{
		MapFS: fstest.MapFS{
			"layouts/default.html": &fstest.MapFile{
				Data: []byte(`<html>{{.Content}}</html>`),
			},
		},
		openCount: &openCount,
	}

	renderer := NewRendererWithConfig(cfs, RendererConfig{LayoutDir: "layouts"})

	_, err := renderer.Render("default.html", "Hello Alice", nil)
	require.NoError(t, err)
	require.Equal(t, int32(1), openCount.Load(), "layout should be read once")

	_, err = renderer.Render("default.html", "Hello Bob", nil)
	require.NoError(t, err)
	require.Equal(t, int32(1), openCount.Load(), "layout should come from cache")

	cfs.MapFS["layouts/other.html"] = &fstest.MapFile{
		Data: []byte(`<div>{{.Content}}</div>`),
	}
	_, err = renderer.Render("other.html", "Hello Charlie", nil)
	require.NoError(t, err)
	require.Equal(t, int32(2), openCount.Load(), "only the new layout should be read")
}

func TestRenderer_Render_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	fs := fstest.MapFS{
		"layouts/default.html": &fstest.MapFile{
			Data: []byte(`<html>{{.Content}}</html>`),
		},
	}

	renderer := NewRendererWithConfig(fs, RendererConfig{LayoutDir: "layouts"})

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := range 100 {
		wg.Go(func() {
			body := fmt.Sprintf("Hello %d", i)
			result, err := renderer.Render("default.html", body, nil)
			if err != nil {
				errs <- err
				return
			}
			if !strings.Contains(result.HTML, body) {
				errs <- errors.New("unexpected html: " + result.HTML)
			}
		})
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent render failed: %v", err)
	}
}

// countingFS wraps MapFS and counts ReadFile calls.
type countingFS struct {
	fstest.MapFS
	openCount *atomic.Int32
}

func (c *countingFS) ReadFile(name string) ([]byte, error) {
	c.openCount.Add(1)
	return c.MapFS.ReadFile(name)
}
