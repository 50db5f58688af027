package merge

import "iter"

// SegmentKind tells literal text apart from placeholders.
type SegmentKind int

const (
	// SegmentLiteral is text copied to the output unchanged.
	SegmentLiteral SegmentKind = iota
	// SegmentPlaceholder names a variable to substitute.
	SegmentPlaceholder
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentLiteral:
		return "literal"
	case SegmentPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Segment is one token of a template.
// For placeholders Text holds the variable name without braces.
type Segment struct {
	Text string
	Kind SegmentKind
}

const (
	openBrace  = '{'
	closeBrace = '}'
)

// scanState is the lexer state chosen by looking at the next byte.
type scanState int

const (
	stateLiteral scanState = iota
	statePlaceholder
	stateEOF
)

// Lexer splits a template into segments. The zero value is an exhausted lexer.
type Lexer struct {
	src string
	pos int
}

// NewLexer returns a lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

func (l *Lexer) state() scanState {
	switch {
	case l.pos >= len(l.src):
		return stateEOF
	case l.src[l.pos] == openBrace:
		return statePlaceholder
	default:
		return stateLiteral
	}
}

// Next returns the next segment and true, or false once the input is consumed.
func (l *Lexer) Next() (Segment, bool) {
	switch l.state() {
	case statePlaceholder:
		l.skipRun(openBrace)
		name := l.scanUntil(closeBrace)
		l.skipRun(closeBrace)
		return Segment{Kind: SegmentPlaceholder, Text: name}, true
	case stateLiteral:
		return Segment{Kind: SegmentLiteral, Text: l.scanUntil(openBrace)}, true
	default:
		return Segment{}, false
	}
}

// skipRun advances past consecutive occurrences of b.
func (l *Lexer) skipRun(b byte) {
	for l.pos < len(l.src) && l.src[l.pos] == b {
		l.pos++
	}
}

// scanUntil returns the text up to (not including) the next b, or to the end of input.
func (l *Lexer) scanUntil(b byte) string {
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != b {
		l.pos++
	}
	return l.src[start:l.pos]
}

// Segments returns the token stream of src as a lazy sequence.
func Segments(src string) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		lx := NewLexer(src)
		for {
			seg, ok := lx.Next()
			if !ok || !yield(seg) {
				return
			}
		}
	}
}
