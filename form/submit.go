package form

import (
	"context"
	"fmt"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/deep"
	"github.com/johnsonav1992/formularity/event"
)

// SubmitFunc receives a copy of the validated values.
type SubmitFunc func(ctx context.Context, values formularity.Values) error

// HandleSubmit runs the submit state machine:
//
//  1. prevent the default action of p, if any
//  2. in one update: count the attempt, raise IsSubmitting, touch every field
//  3. validate the whole form
//  4. stop if errors were found, validation failed, or the form was reset
//  5. call submit with a copy of the validated values
//
// IsSubmitting is cleared on every path, including a panicking callback.
// Callback failures are logged and emitted as event.SubmitError rather than
// returned. The only error returned is formularity.ErrSubmitInFlight, when
// another submission on the same store has not finished.
func (c *Controller) HandleSubmit(ctx context.Context, p Preventer, submit SubmitFunc) error {
	if p != nil {
		p.PreventDefault()
	}

	var count int
	accepted := c.store.Update(func(s *formularity.State) bool {
		if s.IsSubmitting {
			return false
		}
		s.SubmitCount++
		s.IsSubmitting = true
		s.Touched = touchAll(s.Touched, s.Values)
		count = s.SubmitCount
		return true
	})
	if !accepted {
		c.logger.Warn("submission rejected, another is in flight")
		return formularity.ErrSubmitInFlight
	}

	c.logger.Info("submit started", "submitCount", count)
	c.emit(event.Event{Type: event.SubmitStart, SubmitCount: count})

	defer func() {
		c.store.Update(func(s *formularity.State) bool {
			if !s.IsSubmitting {
				return false
			}
			s.IsSubmitting = false
			return true
		})
		c.emit(event.Event{Type: event.SubmitEnd, SubmitCount: count})
	}()

	res := c.validate(ctx, false)
	switch {
	case res.stale:
		c.logger.Info("submit abandoned, form was reset during validation")
		return nil
	case res.err != nil:
		c.emit(event.Event{Type: event.SubmitBlocked, SubmitCount: count, Error: res.err})
		return nil
	case res.errors.HasErrors():
		c.logger.Info("submit blocked by validation errors", "errors", len(res.errors))
		c.emit(event.Event{Type: event.SubmitBlocked, SubmitCount: count, Errors: res.errors})
		return nil
	}

	if submit == nil {
		return nil
	}
	if err := callSubmit(ctx, submit, deep.CloneValues(res.values)); err != nil {
		err = formularity.NewSubmissionError(err)
		c.logger.Error("submit callback failed", "error", err)
		c.emit(event.Event{Type: event.SubmitError, SubmitCount: count, Error: err})
		return nil
	}
	c.logger.Info("submit completed", "submitCount", count)
	return nil
}

func callSubmit(ctx context.Context, submit SubmitFunc, values formularity.Values) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submit callback panicked: %v", r)
		}
	}()
	return submit(ctx, values)
}

// HandleReset restores the initial values, clears errors, touched flags and
// the validation failure, and zeroes SubmitCount. IsSubmitting and
// IsEditing are left alone. When validation or submission is in flight the
// epoch advances so their late results are discarded.
func (c *Controller) HandleReset(p Preventer) {
	if p != nil {
		p.PreventDefault()
	}
	c.store.Update(func(s *formularity.State) bool {
		s.Values = deep.CloneValues(s.InitialValues)
		s.Errors = formularity.Errors{}
		s.Touched = formularity.Touched{}
		s.SubmitCount = 0
		s.ValidationError = ""
		if s.IsValidating || s.IsSubmitting {
			s.Epoch++
		}
		return true
	})
	c.logger.Debug("form reset")
	c.emit(event.Event{Type: event.Reset})
}

// ValidateForm touches every field, runs whole-form validation and applies
// the result. It returns the errors in effect afterwards: the new result, or
// the last known errors when the validator failed.
func (c *Controller) ValidateForm(ctx context.Context) formularity.Errors {
	res := c.validate(ctx, true)
	if res.err != nil || res.stale {
		return c.store.Get().Errors
	}
	return res.errors
}

type validation struct {
	values formularity.Values
	errors formularity.Errors
	err    error
	stale  bool
}

// validate runs the form and field validators over the current values.
// IsValidating is raised for the duration and always lowered. A result
// computed before a reset is dropped; a validator failure keeps the last
// known errors and records State.ValidationError.
func (c *Controller) validate(ctx context.Context, touch bool) validation {
	var (
		res   validation
		epoch uint64
	)
	c.store.Update(func(s *formularity.State) bool {
		s.IsValidating = true
		if touch {
			s.Touched = touchAll(s.Touched, s.Values)
		}
		epoch = s.Epoch
		res.values = s.Values
		return true
	})
	c.emit(event.Event{Type: event.ValidationStart})

	errs, err := c.validator.ValidateAll(ctx, res.values)

	c.store.Update(func(s *formularity.State) bool {
		s.IsValidating = false
		if s.Epoch != epoch {
			res.stale = true
			return true
		}
		if err != nil {
			s.ValidationError = err.Error()
			return true
		}
		s.Errors = errs
		s.ValidationError = ""
		return true
	})

	switch {
	case res.stale:
		c.logger.Debug("discarding validation result from before reset")
	case err != nil:
		res.err = err
		c.logger.Error("form validation failed", "error", err)
		c.emit(event.Event{Type: event.ValidationFailed, Error: err})
	default:
		res.errors = errs
		c.emit(event.Event{Type: event.ValidationEnd, Errors: errs})
	}
	return res
}
