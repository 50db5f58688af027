package mailer

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ButtonNode represents a button link in the AST.
type ButtonNode struct {
	ast.BaseInline
	URL   []byte
	Label []byte
}

func (n *ButtonNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// KindButton is the node kind for ButtonNode.
var KindButton = ast.NewNodeKind("Button")

var buttonPrefix = []byte("[!button|")

func (n *ButtonNode) Kind() ast.NodeKind {
	return KindButton
}

type buttonParser struct{}

// NewButtonParser returns the inline parser for button links.
func NewButtonParser() parser.InlineParser {
	return &buttonParser{}
}

func (s *buttonParser) Trigger() []byte {
	return []byte{'['}
}

// Parse consumes one [!button|Label](url) from the current line. Anything
// else is left for the link parser.
func (s *buttonParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, buttonPrefix) {
		return nil
	}

	rest := line[len(buttonPrefix):]
	labelEnd := bytes.IndexByte(rest, ']')
	if labelEnd < 0 || labelEnd+1 >= len(rest) || rest[labelEnd+1] != '(' {
		return nil
	}
	target := rest[labelEnd+2:]
	urlEnd := bytes.IndexByte(target, ')')
	if urlEnd < 0 {
		return nil
	}

	block.Advance(len(buttonPrefix) + labelEnd + 2 + urlEnd + 1)

	return &ButtonNode{
		Label: rest[:labelEnd],
		URL:   target[:urlEnd],
	}
}

// DefaultButtonClass is the CSS class put on rendered buttons.
const DefaultButtonClass = "btn"

// buttonRenderer renders ButtonNode to HTML.
type buttonRenderer struct {
	class []byte
	html.Config
}

// NewButtonRenderer creates a new button node renderer that tags anchors with class.
func NewButtonRenderer(class string, opts ...html.Option) renderer.NodeRenderer {
	if class == "" {
		class = DefaultButtonClass
	}
	r := &buttonRenderer{
		class:  []byte(class),
		Config: html.NewConfig(),
	}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

func (r *buttonRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindButton, r.renderButton)
}

func (r *buttonRenderer) renderButton(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*ButtonNode)
	for _, part := range [][]byte{
		[]byte(`<a href="`), util.EscapeHTML(n.URL),
		[]byte(`" class="`), util.EscapeHTML(r.class),
		[]byte(`">`), util.EscapeHTML(bytes.TrimSpace(n.Label)),
		[]byte(`</a>`),
	} {
		if _, err := w.Write(part); err != nil {
			return ast.WalkStop, err
		}
	}

	return ast.WalkContinue, nil
}

// ButtonExtension is a goldmark extension for call-to-action links in
// markdown messages: [!button|Label](url).
type ButtonExtension struct {
	Class string
}

func (e *ButtonExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(NewButtonParser(), 50),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewButtonRenderer(e.Class), 50),
	))
}

// NewButtonExtension creates a button extension; an empty class means DefaultButtonClass.
func NewButtonExtension(class string) goldmark.Extender {
	return &ButtonExtension{Class: class}
}
