package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// Renderer converts rendered markdown bodies to sanitized HTML, optionally
// wrapped in a layout loaded from a filesystem.
type Renderer struct {
	fs     fs.FS
	md     goldmark.Markdown
	policy *bluemonday.Policy

	// Parsed layouts only, never rendered output.
	layoutCache map[string]*template.Template
	layoutDir   string

	mu sync.RWMutex
}

// RendererConfig configures the renderer.
type RendererConfig struct {
	LayoutDir   string // Default: "layouts"
	ButtonClass string // Default: DefaultButtonClass
}

// NewRenderer creates a new renderer with default config.
// A nil filesystem is allowed when no layout is ever requested.
func NewRenderer(filesystem fs.FS) *Renderer {
	return NewRendererWithConfig(filesystem, RendererConfig{})
}

// NewRendererWithConfig creates a new renderer with custom config.
func NewRendererWithConfig(filesystem fs.FS, opts RendererConfig) *Renderer {
	if opts.LayoutDir == "" {
		opts.LayoutDir = "layouts"
	}

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("a")

	return &Renderer{
		fs:        filesystem,
		layoutDir: opts.LayoutDir,
		md: goldmark.New(
			goldmark.WithExtensions(NewButtonExtension(opts.ButtonClass)),
		),
		policy:      policy,
		layoutCache: make(map[string]*template.Template),
	}
}

// RenderResult contains the HTML and plain text versions of a body.
type RenderResult struct {
	HTML string
	Text string // The markdown source as given
}

// Render converts markdown to sanitized HTML. When layout is not empty the
// HTML is executed into that layout with "Content" and "Metadata" fields.
func (r *Renderer) Render(layout, markdown string, metadata map[string]any) (*RenderResult, error) {
	var htmlContent bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &htmlContent); err != nil {
		return nil, fmt.Errorf("%w: failed to convert markdown: %v", ErrRenderFailed, err)
	}

	content := r.policy.SanitizeBytes(htmlContent.Bytes())

	result := &RenderResult{
		HTML: string(content),
		Text: markdown,
	}
	if layout == "" {
		return result, nil
	}

	layoutTmpl, err := r.getLayout(layout)
	if err != nil {
		return nil, err
	}

	var finalHTML bytes.Buffer
	layoutData := map[string]any{
		"Content":  template.HTML(content), //nolint:gosec // sanitized above
		"Metadata": metadata,
	}
	if err := layoutTmpl.Execute(&finalHTML, layoutData); err != nil {
		return nil, fmt.Errorf("%w: failed to execute layout: %v", ErrRenderFailed, err)
	}

	result.HTML = finalHTML.String()
	return result, nil
}

// getLayout returns a cached layout template or parses and caches it.
func (r *Renderer) getLayout(name string) (*template.Template, error) {
	r.mu.RLock()
	if cached, ok := r.layoutCache[name]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if cached, ok := r.layoutCache[name]; ok {
		return cached, nil
	}

	if r.fs == nil {
		return nil, fmt.Errorf("%w: %s: no layout filesystem", ErrLayoutNotFound, name)
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}

	layoutTmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse layout: %v", ErrRenderFailed, err)
	}

	r.layoutCache[name] = layoutTmpl
	return layoutTmpl, nil
}
