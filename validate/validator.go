// Package validate runs form-level and field-level validation and merges the
// results into one flat, path-keyed error map.
//
// A form-level validator implements [Validator]. Any schema system can be
// plugged in by adapting it to that interface; [Func] and [Manual] adapt
// plain functions. Field-level rules implement [FieldValidator].
package validate

import (
	"context"

	"github.com/johnsonav1992/formularity"
)

// Validator validates a complete set of form values. A nil or empty Errors
// means the values are valid. A non-nil error reports that validation itself
// could not run; it is never used for invalid data.
type Validator interface {
	Validate(ctx context.Context, values formularity.Values) (formularity.Errors, error)
}

// Func adapts a function to the Validator interface.
type Func func(ctx context.Context, values formularity.Values) (formularity.Errors, error)

// Validate calls f.
func (f Func) Validate(ctx context.Context, values formularity.Values) (formularity.Errors, error) {
	return f(ctx, values)
}

// ManualFunc is a synchronous validation handler returning partial errors.
type ManualFunc func(values formularity.Values) formularity.Errors

// Validate calls f. It never fails.
func (f ManualFunc) Validate(_ context.Context, values formularity.Values) (formularity.Errors, error) {
	return f(values), nil
}

// Manual adapts a manual validation handler. It returns nil for a nil fn so
// callers can detect the missing handler.
func Manual(fn func(values formularity.Values) formularity.Errors) Validator {
	if fn == nil {
		return nil
	}
	return ManualFunc(fn)
}
