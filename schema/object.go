package schema

import (
	"fmt"
	"slices"
)

// ObjectBuilder builds the schema of a whole form or a nested group of
// fields.
type ObjectBuilder struct {
	base[*ObjectBuilder]
}

// Object starts an object schema.
func Object() *ObjectBuilder {
	b := &ObjectBuilder{}
	b.base = base[*ObjectBuilder]{
		n:    &node{Type: "object", Properties: make(map[string]*node)},
		self: b,
	}
	return b
}

// Field adds a property. field is a Builder or a *RequiredField; anything
// else panics.
func (b *ObjectBuilder) Field(name string, field any) *ObjectBuilder {
	switch f := field.(type) {
	case *RequiredField:
		b.n.Properties[name] = f.n
		if !slices.Contains(b.n.Required, name) {
			b.n.Required = append(b.n.Required, name)
		}
	case Builder:
		b.n.Properties[name] = f.node()
	default:
		panic(fmt.Sprintf("schema: Field %q requires a Builder or *RequiredField, got %T", name, field))
	}
	return b
}

// Has reports whether the object declares a property called name.
func (b *ObjectBuilder) Has(name string) bool {
	_, ok := b.n.Properties[name]
	return ok
}

// Closed makes Validate report properties the object does not declare.
func (b *ObjectBuilder) Closed() *ObjectBuilder {
	b.n.AdditionalProperties = ptr(false)
	return b
}
