package schema

// NumberBuilder builds numeric field schemas.
type NumberBuilder struct {
	base[*NumberBuilder]
}

// Number starts a schema for any number.
func Number() *NumberBuilder {
	return newNumber("number")
}

// Int starts a schema for whole numbers.
func Int() *NumberBuilder {
	return newNumber("integer")
}

func newNumber(typ string) *NumberBuilder {
	b := &NumberBuilder{}
	b.base = base[*NumberBuilder]{n: &node{Type: typ}, self: b}
	return b
}

// Min sets the inclusive lower bound.
func (b *NumberBuilder) Min(n float64) *NumberBuilder {
	b.n.Minimum = ptr(n)
	return b
}

// Max sets the inclusive upper bound.
func (b *NumberBuilder) Max(n float64) *NumberBuilder {
	b.n.Maximum = ptr(n)
	return b
}

// ExclusiveMin sets the exclusive lower bound.
func (b *NumberBuilder) ExclusiveMin(n float64) *NumberBuilder {
	b.n.ExclusiveMinimum = ptr(n)
	return b
}

// ExclusiveMax sets the exclusive upper bound.
func (b *NumberBuilder) ExclusiveMax(n float64) *NumberBuilder {
	b.n.ExclusiveMaximum = ptr(n)
	return b
}

// Enum restricts the value to the given numbers.
func (b *NumberBuilder) Enum(options ...float64) *NumberBuilder {
	b.n.Enum = make([]any, len(options))
	for i, o := range options {
		b.n.Enum[i] = o
	}
	return b
}

// Default sets the rendered default value.
func (b *NumberBuilder) Default(value float64) *NumberBuilder {
	b.n.Default = value
	return b
}

// BoolBuilder builds checkbox field schemas.
type BoolBuilder struct {
	base[*BoolBuilder]
}

// Bool starts a boolean schema.
func Bool() *BoolBuilder {
	b := &BoolBuilder{}
	b.base = base[*BoolBuilder]{n: &node{Type: "boolean"}, self: b}
	return b
}

// Default sets the rendered default value.
func (b *BoolBuilder) Default(value bool) *BoolBuilder {
	b.n.Default = value
	return b
}
