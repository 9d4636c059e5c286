package form

import (
	"fmt"
	"strings"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/deep"
	"github.com/johnsonav1992/formularity/fieldpath"
	"github.com/spf13/cast"
)

// FieldKind selects how HandleChange turns an event target into a value.
type FieldKind string

const (
	// KindText stores the target value as-is.
	KindText FieldKind = "text"

	// KindNumber converts the target value to float64. Values that do not
	// parse are stored unchanged so validators can report them.
	KindNumber FieldKind = "number"

	// KindBoolean stores the target's checked state.
	KindBoolean FieldKind = "boolean"

	// KindGroup treats the field as a list of selected values: a checked
	// target adds its value when absent, an unchecked target removes it.
	KindGroup FieldKind = "group"
)

// ParseKind parses a kind name. The empty string is text.
func ParseKind(s string) (FieldKind, error) {
	switch k := FieldKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindText, nil
	case KindText, KindNumber, KindBoolean, KindGroup:
		return k, nil
	default:
		return "", formularity.NewConfigError(fmt.Sprintf("unknown field kind %q", s), "", nil)
	}
}

// Target is the element an event originated from.
type Target struct {
	Name    string
	Value   any
	Checked bool
	// Kind is used when no kind was configured for the field.
	Kind FieldKind
}

// ChangeEvent reports a new value for a field.
type ChangeEvent struct {
	Target Target
}

// BlurEvent reports that a field lost focus.
type BlurEvent struct {
	Target Target
}

// Preventer is implemented by events whose default action can be cancelled,
// such as a browser form submission.
type Preventer interface {
	PreventDefault()
}

// kindOf resolves the kind of a field: configured, then carried on the
// target, then text.
func (c *Controller) kindOf(t Target) FieldKind {
	if k, ok := c.kinds[fieldpath.Canonical(t.Name)]; ok {
		return k
	}
	if t.Kind != "" {
		return t.Kind
	}
	return KindText
}

// HandleChange derives the new value of the target field from its kind and
// writes it with SetFieldValue semantics. It never panics on bad input; an
// event without a name is ignored.
func (c *Controller) HandleChange(e ChangeEvent) {
	t := e.Target
	if t.Name == "" {
		c.logger.Warn("change event without a field name")
		return
	}

	switch kind := c.kindOf(t); kind {
	case KindBoolean:
		c.SetFieldValue(t.Name, t.Checked)
	case KindNumber:
		c.SetFieldValue(t.Name, toNumber(t.Value))
	case KindGroup:
		if t.Value == nil || t.Value == "" {
			c.logger.Debug("group change without a value, treating as boolean", "path", t.Name)
			c.SetFieldValue(t.Name, t.Checked)
			return
		}
		value := deep.Normalize(t.Value)
		_ = c.writeField(t.Name, func(current any) (any, error) {
			return toggle(current, value, t.Checked), nil
		})
	default:
		c.SetFieldValue(t.Name, t.Value)
	}
}

// HandleBlur marks the target field touched.
func (c *Controller) HandleBlur(e BlurEvent) {
	if e.Target.Name == "" {
		return
	}
	c.SetFieldTouched(e.Target.Name, true)
}

// toggle adds or removes value from a group selection, keeping the order
// of the remaining items. A non-list current value starts an empty group.
func toggle(current, value any, checked bool) []any {
	items, _ := current.([]any)
	idx := -1
	for i, item := range items {
		if deep.Equal(item, value) {
			idx = i
			break
		}
	}

	out := make([]any, 0, len(items)+1)
	switch {
	case checked && idx < 0:
		out = append(append(out, items...), value)
	case !checked && idx >= 0:
		out = append(append(out, items[:idx]...), items[idx+1:]...)
	default:
		out = append(out, items...)
	}
	return out
}

func toNumber(v any) any {
	switch t := v.(type) {
	case nil, bool:
		return v
	case string:
		if strings.TrimSpace(t) == "" {
			return v
		}
		if f, err := cast.ToFloat64E(strings.TrimSpace(t)); err == nil {
			return f
		}
		return v
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		return f
	}
	return v
}
