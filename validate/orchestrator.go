package validate

import (
	"context"
	"errors"
	"fmt"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/fieldpath"
	"github.com/johnsonav1992/formularity/retry"
)

// ErrValidatorPanic is wrapped by the error returned when a validator panics.
var ErrValidatorPanic = errors.New("validate: validator panicked")

// Orchestrator holds the validators of one form.
//
// It is immutable after New and safe for concurrent use, provided the
// registered validators are.
type Orchestrator struct {
	form   Validator
	fields map[string][]FieldValidator
	paths  []string // registration order
	retry  *retry.Config
	errs   []error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithField registers field validators for path. Repeated registrations for
// the same path append in order. The path is stored in canonical form, so
// "a.0.b" and "a[0].b" share one list.
func WithField(path string, validators ...FieldValidator) Option {
	return func(o *Orchestrator) {
		key := fieldpath.Canonical(path)
		if key == "" {
			o.errs = append(o.errs, formularity.NewConfigError("field validator needs a path", path, formularity.ErrInvalidPath))
			return
		}
		for i, v := range validators {
			if v == nil || isNilFunc(v) {
				o.errs = append(o.errs, formularity.NewConfigError(
					fmt.Sprintf("field validator %d is nil", i), key, formularity.ErrNilValidator))
				return
			}
		}
		if _, ok := o.fields[key]; !ok {
			o.paths = append(o.paths, key)
		}
		o.fields[key] = append(o.fields[key], validators...)
	}
}

// WithRetry retries the form validator when it fails with a transient error.
func WithRetry(cfg retry.Config) Option {
	return func(o *Orchestrator) {
		o.retry = &cfg
	}
}

func isNilFunc(v FieldValidator) bool {
	f, ok := v.(FieldFunc)
	return ok && f == nil
}

// New creates an orchestrator around an optional form validator. All
// configuration mistakes are reported together as configuration errors.
func New(form Validator, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		form:   form,
		fields: make(map[string][]FieldValidator),
	}
	for _, opt := range opts {
		opt(o)
	}
	if len(o.errs) > 0 {
		return nil, errors.Join(o.errs...)
	}
	return o, nil
}

// Form returns the form-level validator, or nil.
func (o *Orchestrator) Form() Validator {
	return o.form
}

// HasForm reports whether a form-level validator is configured.
func (o *Orchestrator) HasForm() bool {
	return o.form != nil
}

// Paths returns the paths with field validators, in registration order.
func (o *Orchestrator) Paths() []string {
	return append([]string(nil), o.paths...)
}

// HasField reports whether field validators are registered for path.
func (o *Orchestrator) HasField(path string) bool {
	_, ok := o.fields[fieldpath.Canonical(path)]
	return ok
}

// ValidateField runs the validators registered for path in order and
// returns the first failure message. It returns "" when all pass or none
// are registered. A panicking validator counts as passing; use CheckField
// to observe the panic.
func (o *Orchestrator) ValidateField(values formularity.Values, path string) string {
	msg, _ := o.CheckField(values, path)
	return msg
}

// CheckField is ValidateField with panics converted to an error.
func (o *Orchestrator) CheckField(values formularity.Values, path string) (msg string, err error) {
	validators := o.fields[fieldpath.Canonical(path)]
	if len(validators) == 0 {
		return "", nil
	}

	defer func() {
		if r := recover(); r != nil {
			msg = ""
			err = fmt.Errorf("%w: field %q: %v", ErrValidatorPanic, path, r)
		}
	}()

	value := fieldpath.Value(values, path)
	for _, v := range validators {
		if m := v.ValidateField(value); m != "" {
			return m, nil
		}
	}
	return "", nil
}

// ValidateAll runs the form validator with the full values, then every
// registered field validator, and returns the merged errors keyed by
// canonical path. The form validator wins when both report the same path.
// Empty messages are dropped, so an empty result means valid.
//
// When a validator fails or panics, ValidateAll returns a nil map and the
// error; callers keep their last known errors.
func (o *Orchestrator) ValidateAll(ctx context.Context, values formularity.Values) (formularity.Errors, error) {
	out := formularity.Errors{}

	if o.form != nil {
		formErrs, err := o.runForm(ctx, values)
		if err != nil {
			return nil, err
		}
		for path, msg := range formErrs {
			if msg != "" {
				out[fieldpath.Canonical(path)] = msg
			}
		}
	}

	for _, path := range o.paths {
		if _, ok := out[path]; ok {
			continue
		}
		msg, err := o.CheckField(values, path)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			out[path] = msg
		}
	}

	return out, nil
}

func (o *Orchestrator) runForm(ctx context.Context, values formularity.Values) (formularity.Errors, error) {
	if o.retry == nil {
		return o.callForm(ctx, values)
	}
	return retry.Do(ctx, *o.retry, func() (formularity.Errors, error) {
		return o.callForm(ctx, values)
	})
}

func (o *Orchestrator) callForm(ctx context.Context, values formularity.Values) (errs formularity.Errors, err error) {
	defer func() {
		if r := recover(); r != nil {
			errs = nil
			err = fmt.Errorf("%w: %v", ErrValidatorPanic, r)
		}
	}()
	return o.form.Validate(ctx, values)
}
