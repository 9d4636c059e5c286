package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/johnsonav1992/formularity/deep"
	"github.com/spf13/cast"
)

// FieldValidator validates a single field value. It returns an empty string
// when the value passes. Controllers call it outside the store lock, so it
// may read other fields through the controller.
type FieldValidator interface {
	ValidateField(value any) string
}

// FieldFunc adapts a function to the FieldValidator interface.
type FieldFunc func(value any) string

// ValidateField calls f.
func (f FieldFunc) ValidateField(value any) string {
	return f(value)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func orDefault(msg, def string) string {
	if msg == "" {
		return def
	}
	return msg
}

// isEmpty reports whether a value counts as not filled in: nil, a blank
// string, or an empty collection.
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

// length returns the rune count of a string or the element count of a
// collection. ok is false for other values.
func length(value any) (n int, ok bool) {
	if s, isStr := value.(string); isStr {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// Required fails on nil, blank strings and empty collections.
func Required(msg string) FieldFunc {
	msg = orDefault(msg, "required")
	return func(value any) string {
		if isEmpty(value) {
			return msg
		}
		return ""
	}
}

// MinLength fails when a string or collection is shorter than n. Empty
// values pass; combine with Required to reject them.
func MinLength(n int, msg string) FieldFunc {
	msg = orDefault(msg, fmt.Sprintf("must be at least %d characters", n))
	return func(value any) string {
		if isEmpty(value) {
			return ""
		}
		if l, ok := length(value); ok && l < n {
			return msg
		}
		return ""
	}
}

// MaxLength fails when a string or collection is longer than n.
func MaxLength(n int, msg string) FieldFunc {
	msg = orDefault(msg, fmt.Sprintf("must be at most %d characters", n))
	return func(value any) string {
		if l, ok := length(value); ok && l > n {
			return msg
		}
		return ""
	}
}

// Pattern fails when a non-empty value does not match re.
func Pattern(re *regexp.Regexp, msg string) FieldFunc {
	msg = orDefault(msg, "invalid format")
	return func(value any) string {
		if isEmpty(value) {
			return ""
		}
		if !re.MatchString(cast.ToString(value)) {
			return msg
		}
		return ""
	}
}

// IsEmail reports whether s is shaped like an email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Email fails when a non-empty value is not shaped like an email address.
func Email(msg string) FieldFunc {
	return Pattern(emailPattern, orDefault(msg, "invalid email address"))
}

// Min fails when a non-empty value is below n or not numeric. Numeric
// strings such as "42" are accepted.
func Min(n float64, msg string) FieldFunc {
	msg = orDefault(msg, fmt.Sprintf("must be at least %v", n))
	return func(value any) string {
		if isEmpty(value) {
			return ""
		}
		f, err := toNumber(value)
		if err != nil || f < n {
			return msg
		}
		return ""
	}
}

// Max fails when a non-empty value is above n or not numeric.
func Max(n float64, msg string) FieldFunc {
	msg = orDefault(msg, fmt.Sprintf("must be at most %v", n))
	return func(value any) string {
		if isEmpty(value) {
			return ""
		}
		f, err := toNumber(value)
		if err != nil || f > n {
			return msg
		}
		return ""
	}
}

// OneOf fails when a non-empty value is not deeply equal to one of allowed.
func OneOf(msg string, allowed ...any) FieldFunc {
	msg = orDefault(msg, "invalid option")
	return func(value any) string {
		if isEmpty(value) {
			return ""
		}
		for _, a := range allowed {
			if deep.Equal(a, value) {
				return ""
			}
		}
		return msg
	}
}

// toNumber converts numeric values and numeric strings. Booleans are
// rejected even though cast would accept them.
func toNumber(value any) (float64, error) {
	if _, ok := value.(bool); ok {
		return 0, fmt.Errorf("validate: %v is not a number", value)
	}
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	return cast.ToFloat64E(value)
}
