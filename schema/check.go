package schema

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/deep"
	"github.com/johnsonav1992/formularity/fieldpath"
	"github.com/johnsonav1992/formularity/validate"
)

// empty reports whether a form value counts as not filled in: nil, a blank
// string or an empty collection.
func empty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// say picks the message for a failed check: the keyword message, then the
// node message, then the generated text.
func (n *node) say(keyword, generated string) string {
	if msg := n.messages[keyword]; msg != "" {
		return msg
	}
	if n.message != "" {
		return n.message
	}
	return generated
}

// fail records the first failure for path.
func (n *node) fail(errs formularity.Errors, path, keyword, generated string) {
	if _, exists := errs[path]; exists {
		return
	}
	errs[path] = n.say(keyword, generated)
}

// check validates a filled-in value against the node, recording failures
// in errs under canonical paths.
func (n *node) check(value any, path string, errs formularity.Errors) {
	if len(n.Enum) > 0 && !n.inEnum(value) {
		n.fail(errs, path, KeyEnum, "must be one of: "+joinEnum(n.Enum))
		return
	}

	switch n.Type {
	case "string":
		n.checkString(value, path, errs)
	case "integer", "number":
		n.checkNumber(value, path, errs)
	case "boolean":
		if _, ok := value.(bool); !ok {
			n.fail(errs, path, KeyType, "must be a boolean")
		}
	case "array":
		n.checkArray(value, path, errs)
	case "object":
		n.checkObject(value, path, errs)
	}
}

func (n *node) checkString(value any, path string, errs formularity.Errors) {
	str, ok := value.(string)
	if !ok {
		n.fail(errs, path, KeyType, "must be a string")
		return
	}
	count := utf8.RuneCountInString(str)
	switch {
	case n.MinLength != nil && count < *n.MinLength:
		n.fail(errs, path, KeyMinLength, fmt.Sprintf("must be at least %d characters", *n.MinLength))
	case n.MaxLength != nil && count > *n.MaxLength:
		n.fail(errs, path, KeyMaxLength, fmt.Sprintf("must be at most %d characters", *n.MaxLength))
	case n.Pattern != "" && !n.matches(str):
		n.fail(errs, path, KeyPattern, "invalid format")
	case n.Format == FormatEmail && !validate.IsEmail(str):
		n.fail(errs, path, KeyFormat, "invalid email address")
	}
}

func (n *node) matches(s string) bool {
	re := n.re
	if re == nil {
		var err error
		if re, err = regexp.Compile(n.Pattern); err != nil {
			return false
		}
	}
	return re.MatchString(s)
}

func (n *node) checkNumber(value any, path string, errs formularity.Errors) {
	f, ok := number(value)
	if !ok {
		n.fail(errs, path, KeyType, "must be a number")
		return
	}
	switch {
	case n.Type == "integer" && f != math.Trunc(f):
		n.fail(errs, path, KeyType, "must be a whole number")
	case n.Minimum != nil && f < *n.Minimum:
		n.fail(errs, path, KeyMinimum, fmt.Sprintf("must be at least %v", *n.Minimum))
	case n.Maximum != nil && f > *n.Maximum:
		n.fail(errs, path, KeyMaximum, fmt.Sprintf("must be at most %v", *n.Maximum))
	case n.ExclusiveMinimum != nil && f <= *n.ExclusiveMinimum:
		n.fail(errs, path, KeyExclusiveMinimum, fmt.Sprintf("must be greater than %v", *n.ExclusiveMinimum))
	case n.ExclusiveMaximum != nil && f >= *n.ExclusiveMaximum:
		n.fail(errs, path, KeyExclusiveMaximum, fmt.Sprintf("must be less than %v", *n.ExclusiveMaximum))
	}
}

func (n *node) checkArray(value any, path string, errs formularity.Errors) {
	items, ok := value.([]any)
	if !ok {
		n.fail(errs, path, KeyType, "must be a list")
		return
	}
	switch {
	case n.MinItems != nil && len(items) < *n.MinItems:
		n.fail(errs, path, KeyMinItems, fmt.Sprintf("must have at least %d items", *n.MinItems))
		return
	case n.MaxItems != nil && len(items) > *n.MaxItems:
		n.fail(errs, path, KeyMaxItems, fmt.Sprintf("must have at most %d items", *n.MaxItems))
		return
	}
	if n.UniqueItems {
		for i := range items {
			for j := i + 1; j < len(items); j++ {
				if deep.Equal(items[i], items[j]) {
					n.fail(errs, path, KeyUniqueItems, "items must be unique")
					return
				}
			}
		}
	}
	if n.Items == nil {
		return
	}
	for i, item := range items {
		if empty(item) {
			continue
		}
		n.Items.check(item, fieldpath.Index(path, i), errs)
	}
}

func (n *node) checkObject(value any, path string, errs formularity.Errors) {
	obj, ok := value.(map[string]any)
	if !ok {
		n.fail(errs, path, KeyType, "must be an object")
		return
	}

	for _, name := range n.Required {
		if !empty(obj[name]) {
			continue
		}
		msg := "required"
		if child := n.Properties[name]; child != nil {
			msg = child.say(KeyRequired, msg)
		}
		errs[fieldpath.Join(path, name)] = msg
	}

	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := obj[name]
		child, known := n.Properties[name]
		if !known {
			if n.AdditionalProperties != nil && !*n.AdditionalProperties {
				n.fail(errs, fieldpath.Join(path, name), KeyUnknown, "unknown field")
			}
			continue
		}
		if empty(v) {
			continue
		}
		child.check(v, fieldpath.Join(path, name), errs)
	}
}

func (n *node) inEnum(value any) bool {
	f, isNum := number(value)
	for _, e := range n.Enum {
		if deep.Equal(e, value) {
			return true
		}
		if ef, ok := number(e); ok && isNum && ef == f {
			return true
		}
	}
	return false
}

// number converts numeric values and numeric strings. Booleans are not
// numbers here even though cast accepts them.
func number(v any) (float64, bool) {
	switch t := v.(type) {
	case bool, nil:
		return 0, false
	case string:
		v = strings.TrimSpace(t)
	}
	f, err := cast.ToFloat64E(v)
	return f, err == nil
}

func joinEnum(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = cast.ToString(v)
	}
	return strings.Join(parts, ", ")
}
