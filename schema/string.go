package schema

import "regexp"

// StringBuilder builds text field schemas.
type StringBuilder struct {
	base[*StringBuilder]
}

// String starts a text schema.
func String() *StringBuilder {
	b := &StringBuilder{}
	b.base = base[*StringBuilder]{n: &node{Type: "string"}, self: b}
	return b
}

// MinLength sets the minimum length in characters.
func (b *StringBuilder) MinLength(n int) *StringBuilder {
	b.n.MinLength = ptr(n)
	return b
}

// MaxLength sets the maximum length in characters.
func (b *StringBuilder) MaxLength(n int) *StringBuilder {
	b.n.MaxLength = ptr(n)
	return b
}

// Pattern sets a regular expression the value must match. An invalid
// pattern is reported by Build and Validate.
func (b *StringBuilder) Pattern(expr string) *StringBuilder {
	b.n.Pattern = expr
	b.n.re, _ = regexp.Compile(expr)
	return b
}

// Format sets the JSON Schema format. Only FormatEmail is checked.
func (b *StringBuilder) Format(format string) *StringBuilder {
	b.n.Format = format
	return b
}

// Email is Format(FormatEmail).
func (b *StringBuilder) Email() *StringBuilder {
	return b.Format(FormatEmail)
}

// Enum restricts the value to the given options.
func (b *StringBuilder) Enum(options ...string) *StringBuilder {
	b.n.Enum = make([]any, len(options))
	for i, o := range options {
		b.n.Enum[i] = o
	}
	return b
}

// Default sets the rendered default value.
func (b *StringBuilder) Default(value string) *StringBuilder {
	b.n.Default = value
	return b
}
