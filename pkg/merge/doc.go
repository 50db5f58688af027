// Package merge implements the placeholder dialect used by mail-merge templates.
//
// A template is plain text with placeholders delimited by braces:
//
//	Hello, {name}! Your order {order_id} has shipped.
//
// A placeholder starts at a run of one or more '{' and ends at the following
// run of one or more '}'. Doubling the braces has no escaping effect, so
// "{{name}}", "{name}}" and "{{name}" all refer to the variable "name". A
// placeholder without a closing brace extends to the end of the template.
//
// # Rendering
//
// Render substitutes every placeholder with the value of the variable of the
// same name. Lookups are exact and case-sensitive, and substituted values are
// inserted verbatim without further expansion:
//
//	out, err := merge.Render("Hi {name}", map[string]string{"name": "Ada"})
//	// out == "Hi Ada"
//
// Rendering never stops at the first unknown placeholder. When one or more
// variables are missing, Render returns a *MissingVariablesError naming all of
// them and no partial output:
//
//	_, err := merge.Render("{a} {b} {a}", map[string]string{})
//	var missing *merge.MissingVariablesError
//	if errors.As(err, &missing) {
//		fmt.Println(missing.Names) // [a b]
//	}
//
// # Compiled templates
//
// Compile tokenizes a template once so it can be rendered for many recipients.
// A *Template is immutable and safe for concurrent use.
//
//	tmpl := merge.Compile(body)
//	for _, vars := range rows {
//		text, err := tmpl.Render(vars)
//		...
//	}
//
// # Tokens
//
// Segments and Lexer expose the raw token stream (literal and placeholder
// segments), which is useful for linting templates or listing the variables
// a template expects (see Placeholders).
package merge
