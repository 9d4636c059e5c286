// Package form binds UI events to a form store.
//
// A Controller holds no form state of its own. Every read goes to the store
// and every operation is applied as store updates, so any number of
// controllers over one store agree at all times.
package form

import (
	"log/slog"

	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/deep"
	"github.com/johnsonav1992/formularity/event"
	"github.com/johnsonav1992/formularity/fieldpath"
	"github.com/johnsonav1992/formularity/store"
	"github.com/johnsonav1992/formularity/validate"
)

// Controller dispatches form operations onto a store. It is safe for
// concurrent use.
type Controller struct {
	store     store.Store
	validator *validate.Orchestrator
	logger    *slog.Logger
	events    chan<- event.Event
	kinds     map[string]FieldKind
	id        string
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithEvents emits lifecycle events to ch without blocking.
func WithEvents(ch chan<- event.Event) Option {
	return func(c *Controller) {
		c.events = ch
	}
}

// WithFieldKind declares how HandleChange derives the value of a field.
func WithFieldKind(path string, kind FieldKind) Option {
	return func(c *Controller) {
		c.kinds[fieldpath.Canonical(path)] = kind
	}
}

// WithValidator overrides the validators taken from the store.
func WithValidator(v *validate.Orchestrator) Option {
	return func(c *Controller) {
		c.validator = v
	}
}

// New binds a controller to s. When s is a *store.Memory its validators and
// ID are used.
func New(s store.Store, opts ...Option) (*Controller, error) {
	if s == nil {
		return nil, formularity.NewConfigError("controller needs a store", "", formularity.ErrNoStore)
	}

	c := &Controller{
		store:  s,
		logger: slog.New(slog.DiscardHandler),
		kinds:  make(map[string]FieldKind),
	}
	if src, ok := s.(interface{ Validator() *validate.Orchestrator }); ok {
		c.validator = src.Validator()
	}
	if src, ok := s.(interface{ ID() string }); ok {
		c.id = src.ID()
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.validator == nil {
		// no validators configured anywhere; an empty orchestrator cannot fail
		c.validator, _ = validate.New(nil)
	}
	c.logger = c.logger.With("form", c.id)
	return c, nil
}

// ID returns the form instance identifier, if the store has one.
func (c *Controller) ID() string {
	return c.id
}

// Store returns the underlying store.
func (c *Controller) Store() store.Store {
	return c.store
}

// State returns the current store snapshot. Callers must not mutate it.
func (c *Controller) State() formularity.State {
	return c.store.Get()
}

// View returns the current snapshot with its derived state.
func (c *Controller) View() View {
	return Derive(c.store.Get())
}

// Subscribe calls fn with a fresh View after every store change.
func (c *Controller) Subscribe(fn func(View)) (unsubscribe func()) {
	return c.store.Subscribe(func() {
		fn(c.View())
	})
}

// GetFieldValue returns the value at path, or nil when it does not resolve.
func (c *Controller) GetFieldValue(path string) any {
	return fieldpath.Value(c.store.Get().Values, path)
}

// GetFieldError returns the error message for path, or "".
func (c *Controller) GetFieldError(path string) string {
	return c.store.Get().Errors[fieldpath.Canonical(path)]
}

// IsFieldTouched reports whether path is marked touched.
func (c *Controller) IsFieldTouched(path string) bool {
	return c.store.Get().Touched[fieldpath.Canonical(path)]
}

// IsFieldDirty reports whether the value at path differs from its initial
// value.
func (c *Controller) IsFieldDirty(path string) bool {
	st := c.store.Get()
	cur, curOK := fieldpath.Get(st.Values, path)
	initial, initialOK := fieldpath.Get(st.InitialValues, path)
	return curOK != initialOK || !deep.Equal(cur, initial)
}

func (c *Controller) emit(e event.Event) {
	e.FormID = c.id
	event.Emit(c.events, e)
}
