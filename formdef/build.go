package formdef

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/spf13/cast"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/fieldpath"
	"github.com/johnsonav1992/formularity/form"
	"github.com/johnsonav1992/formularity/store"
	"github.com/johnsonav1992/formularity/validate"
)

// Rule names.
const (
	RuleRequired  = "required"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
	RuleEmail     = "email"
	RuleMin       = "min"
	RuleMax       = "max"
	RuleOneOf     = "oneOf"
)

var errUnknownRule = errors.New("unknown rule")

// InitialValues returns the values tree described by the fields. A field
// without an initial value gets its kind's zero value: "" for text, nil for
// number, false for boolean and an empty list for group.
func (d *Definition) InitialValues() formularity.Values {
	values := formularity.Values{}
	for _, f := range d.Fields {
		v := f.Initial
		if v == nil {
			kind, _ := f.kind()
			v = zero(kind)
		}
		values = fieldpath.Set(values, f.Path, v).(map[string]any)
	}
	return values
}

func zero(kind form.FieldKind) any {
	switch kind {
	case form.KindNumber:
		return nil
	case form.KindBoolean:
		return false
	case form.KindGroup:
		return []any{}
	default:
		return ""
	}
}

// StoreOptions returns the store options for the definition's identity,
// editing flag and field rules.
func (d *Definition) StoreOptions() ([]store.Option, error) {
	var opts []store.Option
	if d.ID != "" {
		opts = append(opts, store.WithID(d.ID))
	}
	if d.Editing {
		opts = append(opts, store.WithEditing(true))
	}
	for _, f := range d.Fields {
		vs, err := f.validators()
		if err != nil {
			return nil, err
		}
		if len(vs) > 0 {
			opts = append(opts, store.WithFieldValidators(f.Path, vs...))
		}
	}
	return opts, nil
}

// ControllerOptions returns a WithFieldKind option for every field with a
// non-text kind.
func (d *Definition) ControllerOptions() ([]form.Option, error) {
	var opts []form.Option
	for _, f := range d.Fields {
		kind, err := f.kind()
		if err != nil {
			return nil, err
		}
		if kind != form.KindText {
			opts = append(opts, form.WithFieldKind(f.Path, kind))
		}
	}
	return opts, nil
}

// Store creates a memory store for the definition. Extra options are
// applied after the definition's own, so they can add a form validator.
func (d *Definition) Store(extra ...store.Option) (*store.Memory, error) {
	opts, err := d.StoreOptions()
	if err != nil {
		return nil, err
	}
	return store.New(d.InitialValues(), append(opts, extra...)...)
}

// Controller creates a store and a controller for the definition.
func (d *Definition) Controller(sopts []store.Option, opts ...form.Option) (*form.Controller, error) {
	s, err := d.Store(sopts...)
	if err != nil {
		return nil, err
	}
	copts, err := d.ControllerOptions()
	if err != nil {
		return nil, err
	}
	return form.New(s, append(copts, opts...)...)
}

func (f Field) kind() (form.FieldKind, error) {
	kind, err := form.ParseKind(f.Kind)
	if err != nil {
		return "", formularity.NewConfigError("invalid field kind", f.Path, err)
	}
	return kind, nil
}

func (f Field) validators() ([]validate.FieldValidator, error) {
	out := make([]validate.FieldValidator, 0, len(f.Rules))
	for _, r := range f.Rules {
		v, err := r.validator()
		if err != nil {
			return nil, formularity.NewConfigError(fmt.Sprintf("rule %q", r.Rule), f.Path, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (r Rule) validator() (validate.FieldValidator, error) {
	switch r.Rule {
	case RuleRequired:
		return validate.Required(r.Message), nil
	case RuleEmail:
		return validate.Email(r.Message), nil

	case RuleMinLength, RuleMaxLength:
		n, err := cast.ToIntE(r.Value)
		if err != nil || r.Value == nil || n < 0 {
			return nil, fmt.Errorf("value must be a non-negative integer, got %v", r.Value)
		}
		if r.Rule == RuleMinLength {
			return validate.MinLength(n, r.Message), nil
		}
		return validate.MaxLength(n, r.Message), nil

	case RuleMin, RuleMax:
		n, err := cast.ToFloat64E(r.Value)
		if err != nil || r.Value == nil {
			return nil, fmt.Errorf("value must be a number, got %v", r.Value)
		}
		if r.Rule == RuleMin {
			return validate.Min(n, r.Message), nil
		}
		return validate.Max(n, r.Message), nil

	case RulePattern:
		expr, err := cast.ToStringE(r.Value)
		if err != nil || expr == "" {
			return nil, fmt.Errorf("value must be a regular expression, got %v", r.Value)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, err
		}
		return validate.Pattern(re, r.Message), nil

	case RuleOneOf:
		allowed, err := cast.ToSliceE(r.Value)
		if err != nil || len(allowed) == 0 {
			return nil, fmt.Errorf("value must be a non-empty list, got %v", r.Value)
		}
		return validate.OneOf(r.Message, allowed...), nil

	default:
		return nil, errUnknownRule
	}
}
