package schema

import "encoding/json"

// base holds the methods every builder shares. B is the concrete builder so
// chained calls keep their type.
type base[B any] struct {
	n    *node
	self B
}

// Label sets the field's display label, rendered as the schema title.
func (b base[B]) Label(label string) B {
	b.n.Title = label
	return b.self
}

// Help sets the field's help text, rendered as the schema description.
func (b base[B]) Help(text string) B {
	b.n.Description = text
	return b.self
}

// Message sets the message reported for any failure of this schema that
// has no keyword message.
func (b base[B]) Message(msg string) B {
	b.n.message = msg
	return b.self
}

// MessageFor sets the message reported when the check named by keyword
// fails, e.g. MessageFor(KeyMinLength, "Too short").
func (b base[B]) MessageFor(keyword, msg string) B {
	if b.n.messages == nil {
		b.n.messages = make(map[string]string)
	}
	b.n.messages[keyword] = msg
	return b.self
}

// Required marks the schema as required when added to an object.
func (b base[B]) Required() *RequiredField {
	return &RequiredField{n: b.n}
}

// Build renders the schema as JSON Schema.
func (b base[B]) Build() (json.RawMessage, error) {
	if err := b.n.consistent(); err != nil {
		return nil, err
	}
	return json.Marshal(b.n)
}

func (b base[B]) node() *node {
	return b.n
}

// RequiredField is a schema marked required, for ObjectBuilder.Field.
type RequiredField struct {
	n *node
}
