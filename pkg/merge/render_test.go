package merge_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailmerge/pkg/merge"
)

var johnVars = map[string]string{"name": "John", "age": "25"}

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		vars     map[string]string
		expected string
	}{
		{
			name:     "exact substitution",
			src:      "Hello, {name}! You are {age} years old.",
			vars:     johnVars,
			expected: "Hello, John! You are 25 years old.",
		},
		{
			name:     "doubled braces are not an escape",
			src:      "Nested: {{name}} - {age}",
			vars:     johnVars,
			expected: "Nested: John - 25",
		},
		{
			name:     "repeated placeholder",
			src:      "{name}, {name}, {name}",
			vars:     johnVars,
			expected: "John, John, John",
		},
		{
			name:     "values are not re-expanded",
			src:      "Value: {raw}",
			vars:     map[string]string{"raw": "{name} <b>&</b>"},
			expected: "Value: {name} <b>&</b>",
		},
		{
			name:     "empty value",
			src:      "[{name}]",
			vars:     map[string]string{"name": ""},
			expected: "[]",
		},
		{
			name:     "empty placeholder with empty key",
			src:      "a{}b",
			vars:     map[string]string{"": "-"},
			expected: "a-b",
		},
		{
			name:     "names with spaces are looked up verbatim",
			src:      "{first name}",
			vars:     map[string]string{"first name": "Ada"},
			expected: "Ada",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := merge.Render(tt.src, tt.vars)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestRender_LiteralRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"plain text",
		"closing } only }}",
		"multi\nline\r\ntext with ünïcödé",
	}
	maps := []map[string]string{nil, {}, johnVars}

	for _, in := range inputs {
		for _, vars := range maps {
			got, err := merge.Render(in, vars)
			require.NoError(t, err)
			require.Equal(t, in, got)
		}
	}
}

func TestRender_MissingVariable(t *testing.T) {
	t.Parallel()

	got, err := merge.Render("Hello, {name}! You are {height} years old.", johnVars)

	require.Empty(t, got)
	require.ErrorIs(t, err, merge.ErrMissingVariables)

	var missing *merge.MissingVariablesError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, []string{"height"}, missing.Names)
}

func TestRender_AllMissingReported(t *testing.T) {
	t.Parallel()

	_, err := merge.Render("{first} {name} {last} {first}", johnVars)

	var missing *merge.MissingVariablesError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, []string{"first", "last"}, missing.Names)
	require.Equal(t, "merge: missing variables: 'first', 'last'", err.Error())
}

func TestRender_UnterminatedPlaceholderIsMissing(t *testing.T) {
	t.Parallel()

	_, err := merge.Render("Hi {name", nil)

	var missing *merge.MissingVariablesError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, []string{"name"}, missing.Names)
}

func TestRender_Idempotent(t *testing.T) {
	t.Parallel()

	src := "Dear {name}, {{age}} is a fine age."
	first, err := merge.Render(src, johnVars)
	require.NoError(t, err)
	second, err := merge.Render(src, johnVars)
	require.NoError(t, err)
	require.Equal(t, first, second)

	tmpl := merge.Compile(src)
	third, err := tmpl.Render(johnVars)
	require.NoError(t, err)
	require.Equal(t, first, third)
}

func TestTemplate_ConcurrentRender(t *testing.T) {
	t.Parallel()

	tmpl := merge.Compile("Hi {name}, you are {age}")

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			out, err := tmpl.Render(johnVars)
			assert.NoError(t, err)
			assert.Equal(t, "Hi John, you are 25", out)
		})
	}
	wg.Wait()
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"name", "age"}, merge.Placeholders("{name} {{age}} {name}"))
	require.Empty(t, merge.Placeholders("no variables here"))

	tmpl := merge.Compile("{b}{a}{b}")
	require.Equal(t, []string{"b", "a"}, tmpl.Placeholders())
	require.Equal(t, "{b}{a}{b}", tmpl.Source())
}
