package schema

import (
	"context"
	"sort"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/validate"
)

var _ validate.Validator = (*ObjectBuilder)(nil)

// Validate checks form values against the object schema and returns the
// failures keyed by field path, so an ObjectBuilder can be passed directly
// as a form validator. Empty optional fields are skipped. An inconsistent
// schema (min above max, bad pattern) is returned as an error.
func (b *ObjectBuilder) Validate(_ context.Context, values formularity.Values) (formularity.Errors, error) {
	if err := b.n.consistent(); err != nil {
		return nil, err
	}
	errs := formularity.Errors{}
	if values == nil {
		values = formularity.Values{}
	}
	b.n.check(values, "", errs)
	return errs, nil
}

// Field adapts a builder into a field validator. Empty values pass; pair it
// with validate.Required to reject them. For object and array schemas the
// first failure in path order is returned.
func Field(b Builder) validate.FieldFunc {
	n := b.node()
	return func(value any) string {
		if empty(value) {
			return ""
		}
		errs := formularity.Errors{}
		n.check(value, "", errs)
		if msg, ok := errs[""]; ok {
			return msg
		}
		if len(errs) == 0 {
			return ""
		}
		keys := make([]string, 0, len(errs))
		for k := range errs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return errs[keys[0]]
	}
}
