package merge

import (
	"strings"

	"github.com/samber/lo"
)

// Template is a tokenized template ready to be rendered many times.
type Template struct {
	src      string
	segments []Segment
}

// Compile tokenizes src. It never fails: every input is a valid template.
func Compile(src string) *Template {
	t := &Template{src: src}
	for seg := range Segments(src) {
		t.segments = append(t.segments, seg)
	}
	return t
}

// Source returns the template text Compile was called with.
func (t *Template) Source() string {
	return t.src
}

// Placeholders returns the variable names the template references,
// deduplicated, in order of first appearance.
func (t *Template) Placeholders() []string {
	names := make([]string, 0, len(t.segments))
	for _, seg := range t.segments {
		if seg.Kind == SegmentPlaceholder {
			names = append(names, seg.Text)
		}
	}
	return lo.Uniq(names)
}

// Render substitutes vars into the template.
// If any placeholder has no value the result is "" and a *MissingVariablesError.
func (t *Template) Render(vars map[string]string) (string, error) {
	var (
		out     strings.Builder
		missing []string
	)
	out.Grow(len(t.src))

	for _, seg := range t.segments {
		if seg.Kind == SegmentLiteral {
			out.WriteString(seg.Text)
			continue
		}
		value, ok := vars[seg.Text]
		if !ok {
			missing = append(missing, seg.Text)
			continue
		}
		out.WriteString(value)
	}

	if len(missing) > 0 {
		return "", &MissingVariablesError{Names: lo.Uniq(missing)}
	}
	return out.String(), nil
}

// Render tokenizes src and substitutes vars in one step.
func Render(src string, vars map[string]string) (string, error) {
	return Compile(src).Render(vars)
}

// Placeholders lists the variable names referenced by src.
func Placeholders(src string) []string {
	return Compile(src).Placeholders()
}
