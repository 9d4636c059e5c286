package schema

// ArrayBuilder builds schemas for field lists and checkbox groups.
type ArrayBuilder struct {
	base[*ArrayBuilder]
}

// Array starts a list schema whose items follow items.
func Array(items Builder) *ArrayBuilder {
	b := &ArrayBuilder{}
	b.base = base[*ArrayBuilder]{n: &node{Type: "array", Items: items.node()}, self: b}
	return b
}

// MinItems sets the minimum number of items.
func (b *ArrayBuilder) MinItems(n int) *ArrayBuilder {
	b.n.MinItems = ptr(n)
	return b
}

// MaxItems sets the maximum number of items.
func (b *ArrayBuilder) MaxItems(n int) *ArrayBuilder {
	b.n.MaxItems = ptr(n)
	return b
}

// UniqueItems rejects lists with deeply equal items.
func (b *ArrayBuilder) UniqueItems() *ArrayBuilder {
	b.n.UniqueItems = true
	return b
}
