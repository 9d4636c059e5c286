// Package store holds the authoritative state of one form instance and
// notifies subscribers after every change.
package store

import (
	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/retry"
	"github.com/johnsonav1992/formularity/validate"
)

// Store is a synchronous state container.
//
// Every applied Set or Update notifies each subscriber exactly once, in
// registration order, before returning. Calls are not batched: N updates
// produce N notification rounds.
type Store interface {
	// Get returns the current snapshot. Callers must not mutate it.
	Get() formularity.State

	// Set replaces the snapshot.
	Set(state formularity.State)

	// Update applies fn to a copy of the snapshot. When fn returns false the
	// copy is discarded and no notification happens. fn runs while the store
	// is locked and must not call back into it.
	Update(fn func(s *formularity.State) bool) bool

	// Subscribe registers fn and returns an idempotent unsubscribe function.
	Subscribe(fn func()) (unsubscribe func())
}

// Config holds the options a store was created with.
type Config struct {
	// ID identifies the form instance. A random UUID when not set.
	ID string

	// Schema is the adapted external schema validator.
	Schema validate.Validator

	// Manual is the manual validation handler.
	Manual func(values formularity.Values) formularity.Errors

	// IsEditing is the initial editing flag.
	IsEditing bool

	// Retry, when set, retries the form validator on transient errors.
	Retry *retry.Config

	fields    []validate.Option
	nilSchema bool
	nilManual bool
}

// Option configures a store.
type Option func(*Config)

// WithSchema sets the form validator produced by a schema adapter.
func WithSchema(v validate.Validator) Option {
	return func(c *Config) {
		if v == nil {
			c.nilSchema = true
			return
		}
		c.Schema = v
	}
}

// WithManualValidation sets a manual validation handler.
func WithManualValidation(fn func(values formularity.Values) formularity.Errors) Option {
	return func(c *Config) {
		if fn == nil {
			c.nilManual = true
			return
		}
		c.Manual = fn
	}
}

// WithEditing sets the initial editing flag.
func WithEditing(editing bool) Option {
	return func(c *Config) {
		c.IsEditing = editing
	}
}

// WithFieldValidators registers field-level validators for path.
func WithFieldValidators(path string, validators ...validate.FieldValidator) Option {
	return func(c *Config) {
		c.fields = append(c.fields, validate.WithField(path, validators...))
	}
}

// WithRetry retries the form validator on transient errors.
func WithRetry(cfg retry.Config) Option {
	return func(c *Config) {
		c.Retry = &cfg
	}
}

// WithID sets the form instance identifier.
func WithID(id string) Option {
	return func(c *Config) {
		c.ID = id
	}
}
