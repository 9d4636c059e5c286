package form

import (
	"context"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/deep"
	"github.com/johnsonav1992/formularity/event"
	"github.com/johnsonav1992/formularity/fieldpath"
)

// SetFieldValue writes value at path and reconciles the field's error from
// its registered validators: set when one fails, cleared when all pass.
// Errors of other fields are left alone. Subscribers are notified once.
// An empty path is ignored.
func (c *Controller) SetFieldValue(path string, value any) {
	value = deep.Normalize(value)
	_ = c.writeField(path, func(any) (any, error) {
		return value, nil
	})
}

// writeField applies fn to the current value at path and commits the
// result. Field validators run outside the store lock, so they may read the
// controller; the write is retried if the values changed meanwhile. When fn
// fails nothing is written and the error is returned.
func (c *Controller) writeField(path string, fn func(current any) (any, error)) error {
	key := fieldpath.Canonical(path)
	if key == "" {
		c.logger.Warn("ignoring write to empty field path")
		return nil
	}
	if err := fieldpath.Check(path); err != nil {
		c.logger.Warn("ignoring write to unreachable field path", "path", key, "error", err)
		return formularity.NewConfigError("field path out of range", key, err)
	}

	for {
		base := c.store.Get().Values
		written, err := fn(fieldpath.Value(base, path))
		if err != nil {
			return err
		}
		values := setPath(base, path, written)

		var (
			msg      string
			checkErr error
			checked  = c.validator.HasField(key)
		)
		if checked {
			msg, checkErr = c.validator.CheckField(values, key)
		}

		stale := false
		c.store.Update(func(s *formularity.State) bool {
			if !deep.Same(s.Values, base) {
				stale = true
				return false
			}
			s.Values = values
			if checked && checkErr == nil {
				s.Errors = s.Errors.With(key, msg)
			}
			return true
		})
		if stale {
			continue
		}

		if checkErr != nil {
			c.logger.Error("field validator failed", "path", key, "error", checkErr)
			c.emit(event.Event{Type: event.ValidationFailed, Path: key, Error: checkErr})
		}
		c.logger.Debug("field value set", "path", key)
		c.emit(event.Event{Type: event.ValueChanged, Path: key, Value: written})
		return nil
	}
}

// setPath writes into a values map, keeping the root an object.
func setPath(values formularity.Values, path string, v any) formularity.Values {
	if values == nil {
		values = formularity.Values{}
	}
	out, ok := fieldpath.Set(values, path, v).(map[string]any)
	if !ok {
		return values
	}
	return out
}

type setValuesConfig struct {
	replace  bool
	validate bool
	ctx      context.Context
}

// SetValuesOption configures SetValues.
type SetValuesOption func(*setValuesConfig)

// Replace makes SetValues replace all values instead of merging.
func Replace() SetValuesOption {
	return func(c *setValuesConfig) {
		c.replace = true
	}
}

// Validate runs whole-form validation after the values are written.
func Validate(ctx context.Context) SetValuesOption {
	return func(c *setValuesConfig) {
		c.validate = true
		c.ctx = ctx
	}
}

// SetValues deep-merges values onto the current values: keys absent from
// values keep their current value. With Replace the values are swapped
// wholesale. Typed maps and slices are normalized.
func (c *Controller) SetValues(values formularity.Values, opts ...SetValuesOption) {
	var cfg setValuesConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	incoming := deep.NormalizeValues(values)
	c.store.Update(func(s *formularity.State) bool {
		if cfg.replace {
			s.Values = incoming
		} else {
			s.Values = deep.Merge(s.Values, incoming)
		}
		return true
	})
	c.logger.Debug("values set", "replace", cfg.replace)
	c.emit(event.Event{Type: event.ValueChanged, Value: incoming})

	if cfg.validate {
		ctx := cfg.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		c.ValidateForm(ctx)
	}
}

// SetFieldError overwrites the error for path without running validators.
// An empty message clears it.
func (c *Controller) SetFieldError(path, msg string) {
	key := fieldpath.Canonical(path)
	c.store.Update(func(s *formularity.State) bool {
		s.Errors = s.Errors.With(key, msg)
		return true
	})
	c.emit(event.Event{Type: event.ErrorsChanged, Path: key, Message: msg})
}

// SetErrors replaces all errors without running validators.
func (c *Controller) SetErrors(errs formularity.Errors) {
	next := canonicalErrors(errs)
	c.store.Update(func(s *formularity.State) bool {
		s.Errors = next
		return true
	})
	c.emit(event.Event{Type: event.ErrorsChanged, Errors: next})
}

// SetFieldTouched sets the touched flag for path.
func (c *Controller) SetFieldTouched(path string, touched bool) {
	key := fieldpath.Canonical(path)
	if key == "" {
		return
	}
	c.store.Update(func(s *formularity.State) bool {
		s.Touched = s.Touched.With(key, touched)
		return true
	})
	c.emit(event.Event{Type: event.FieldTouched, Path: key, Value: touched})
}

// SetTouched replaces all touched flags.
func (c *Controller) SetTouched(touched formularity.Touched) {
	next := make(formularity.Touched, len(touched))
	for k, v := range touched {
		next[fieldpath.Canonical(k)] = v
	}
	c.store.Update(func(s *formularity.State) bool {
		s.Touched = next
		return true
	})
	c.emit(event.Event{Type: event.FieldTouched})
}

// SetEditing sets the editing flag.
func (c *Controller) SetEditing(editing bool) {
	c.store.Update(func(s *formularity.State) bool {
		if s.IsEditing == editing {
			return false
		}
		s.IsEditing = editing
		return true
	})
}

func canonicalErrors(errs formularity.Errors) formularity.Errors {
	out := make(formularity.Errors, len(errs))
	for k, v := range errs {
		if v != "" {
			out[fieldpath.Canonical(k)] = v
		}
	}
	return out
}

// touchAll returns touched with every path of values set to true.
func touchAll(touched formularity.Touched, values formularity.Values) formularity.Touched {
	out := touched.Clone()
	for _, p := range deep.Keys(values) {
		out[p] = true
	}
	return out
}
