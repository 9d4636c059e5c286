package formdef

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/fieldpath"
	"github.com/johnsonav1992/formularity/form"
	"github.com/johnsonav1992/formularity/schema"
)

// shape is the tree of field paths: a leaf field, named children, or list
// items for index segments.
type shape struct {
	field *Field
	props map[string]*shape
	order []string
	items *shape
}

func (s *shape) child(tok fieldpath.Token) *shape {
	if tok.IsIndex() {
		if s.items == nil {
			s.items = &shape{}
		}
		return s.items
	}
	if s.props == nil {
		s.props = make(map[string]*shape)
	}
	c, ok := s.props[tok.Key]
	if !ok {
		c = &shape{}
		s.props[tok.Key] = c
		s.order = append(s.order, tok.Key)
	}
	return c
}

// Schema compiles the definition into an object schema. Dotted paths
// become nested objects and index segments become lists; each field's
// kind picks the value type and its rules become constraints carrying the
// rule messages. The result validates values the way the field rules do and
// renders as JSON Schema for tools and frontends.
func (d *Definition) Schema() (*schema.ObjectBuilder, error) {
	root := &shape{}
	for i := range d.Fields {
		f := &d.Fields[i]
		cur := root
		for _, tok := range fieldpath.Parse(f.Path) {
			cur = cur.child(tok)
		}
		if cur == root {
			return nil, formularity.NewConfigError("field has no path", "", formularity.ErrInvalidPath)
		}
		cur.field = f
	}

	obj := schema.Object()
	for _, name := range root.order {
		b, required, err := root.props[name].compile(name)
		if err != nil {
			return nil, err
		}
		if required {
			obj.Field(name, b.Required())
		} else {
			obj.Field(name, b)
		}
	}
	return obj, nil
}

// requirable is a builder that can be marked required.
type requirable interface {
	schema.Builder
	Required() *schema.RequiredField
}

func (s *shape) compile(path string) (requirable, bool, error) {
	if s.field != nil {
		if s.props != nil || s.items != nil {
			return nil, false, formularity.NewConfigError("field is also a parent of other fields", path, formularity.ErrInvalidPath)
		}
		return s.field.schema()
	}

	if s.items != nil {
		items, _, err := s.items.compile(path + "[]")
		if err != nil {
			return nil, false, err
		}
		return schema.Array(items), false, nil
	}

	obj := schema.Object()
	for _, name := range s.order {
		b, required, err := s.props[name].compile(fieldpath.Join(path, name))
		if err != nil {
			return nil, false, err
		}
		if required {
			obj.Field(name, b.Required())
		} else {
			obj.Field(name, b)
		}
	}
	return obj, false, nil
}

// schema builds the leaf schema for a field and reports whether it carries
// the required rule.
func (f *Field) schema() (requirable, bool, error) {
	kind, err := f.kind()
	if err != nil {
		return nil, false, err
	}

	var (
		b        requirable
		required bool
	)
	switch kind {
	case form.KindNumber:
		b, err = f.numberSchema(&required)
	case form.KindBoolean:
		b, err = f.boolSchema(&required)
	case form.KindGroup:
		b, err = f.groupSchema(&required)
	default:
		b, err = f.textSchema(&required)
	}
	if err != nil {
		return nil, false, formularity.NewConfigError("rule cannot apply to field kind", f.Path, err)
	}
	return b, required, nil
}

func (f *Field) textSchema(required *bool) (requirable, error) {
	b := schema.String().Label(f.Label)
	for _, r := range f.Rules {
		switch r.Rule {
		case RuleRequired:
			*required = true
			b.MessageFor(schema.KeyRequired, r.Message)
		case RuleMinLength:
			b.MinLength(cast.ToInt(r.Value)).MessageFor(schema.KeyMinLength, r.Message)
		case RuleMaxLength:
			b.MaxLength(cast.ToInt(r.Value)).MessageFor(schema.KeyMaxLength, r.Message)
		case RulePattern:
			b.Pattern(cast.ToString(r.Value)).MessageFor(schema.KeyPattern, r.Message)
		case RuleEmail:
			b.Email().MessageFor(schema.KeyFormat, r.Message)
		case RuleOneOf:
			b.Enum(cast.ToStringSlice(r.Value)...).MessageFor(schema.KeyEnum, oneOfMessage(r))
		default:
			return nil, fmt.Errorf("%w %q for text", errUnknownRule, r.Rule)
		}
	}
	return b, nil
}

func (f *Field) numberSchema(required *bool) (requirable, error) {
	b := schema.Number().Label(f.Label)
	for _, r := range f.Rules {
		switch r.Rule {
		case RuleRequired:
			*required = true
			b.MessageFor(schema.KeyRequired, r.Message)
		case RuleMin:
			b.Min(cast.ToFloat64(r.Value)).MessageFor(schema.KeyMinimum, r.Message).MessageFor(schema.KeyType, r.Message)
		case RuleMax:
			b.Max(cast.ToFloat64(r.Value)).MessageFor(schema.KeyMaximum, r.Message).MessageFor(schema.KeyType, r.Message)
		case RuleOneOf:
			var options []float64
			for _, v := range cast.ToSlice(r.Value) {
				options = append(options, cast.ToFloat64(v))
			}
			b.Enum(options...).MessageFor(schema.KeyEnum, oneOfMessage(r))
		default:
			return nil, fmt.Errorf("%w %q for number", errUnknownRule, r.Rule)
		}
	}
	return b, nil
}

func (f *Field) boolSchema(required *bool) (requirable, error) {
	b := schema.Bool().Label(f.Label)
	for _, r := range f.Rules {
		if r.Rule != RuleRequired {
			return nil, fmt.Errorf("%w %q for boolean", errUnknownRule, r.Rule)
		}
		*required = true
		b.MessageFor(schema.KeyRequired, r.Message)
	}
	return b, nil
}

func (f *Field) groupSchema(required *bool) (requirable, error) {
	items := schema.String()
	b := schema.Array(items).Label(f.Label)
	for _, r := range f.Rules {
		switch r.Rule {
		case RuleRequired:
			*required = true
			b.MessageFor(schema.KeyRequired, r.Message)
		case RuleMinLength:
			b.MinItems(cast.ToInt(r.Value)).MessageFor(schema.KeyMinItems, r.Message)
		case RuleMaxLength:
			b.MaxItems(cast.ToInt(r.Value)).MessageFor(schema.KeyMaxItems, r.Message)
		case RuleOneOf:
			items.Enum(cast.ToStringSlice(r.Value)...).MessageFor(schema.KeyEnum, oneOfMessage(r))
		default:
			return nil, fmt.Errorf("%w %q for group", errUnknownRule, r.Rule)
		}
	}
	return b, nil
}

// oneOfMessage matches the oneOf field rule's default message.
func oneOfMessage(r Rule) string {
	if r.Message == "" {
		return "invalid option"
	}
	return r.Message
}
