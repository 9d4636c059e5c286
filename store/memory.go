package store

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/johnsonav1992/formularity"
	"github.com/johnsonav1992/formularity/deep"
	"github.com/johnsonav1992/formularity/validate"
)

// Memory is the in-memory Store. It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	state formularity.State

	subMu sync.Mutex
	subs  []*subscriber

	cfg       Config
	validator *validate.Orchestrator
}

type subscriber struct {
	fn func()
}

var _ Store = (*Memory)(nil)

// New creates a store seeded with initial. Typed maps and slices in initial
// are normalized to map[string]any and []any; the normalized copy becomes
// the immutable InitialValues baseline.
//
// Configuring both a schema and a manual handler, or a nil one, is a
// configuration error.
func New(initial formularity.Values, opts ...Option) (*Memory, error) {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}

	var errs []error
	if cfg.nilSchema {
		errs = append(errs, formularity.NewConfigError("validationSchema is nil", "", formularity.ErrNilValidator))
	}
	if cfg.nilManual {
		errs = append(errs, formularity.NewConfigError("manualValidationHandler is nil", "", formularity.ErrNilValidator))
	}
	if cfg.Schema != nil && cfg.Manual != nil {
		errs = append(errs, formularity.NewConfigError("validators are exclusive", "", formularity.ErrDualValidators))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	form := cfg.Schema
	if cfg.Manual != nil {
		form = validate.Manual(cfg.Manual)
	}
	vopts := append([]validate.Option(nil), cfg.fields...)
	if cfg.Retry != nil {
		vopts = append(vopts, validate.WithRetry(*cfg.Retry))
	}
	orch, err := validate.New(form, vopts...)
	if err != nil {
		return nil, err
	}

	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}

	baseline := deep.NormalizeValues(initial)
	return &Memory{
		cfg:       cfg,
		validator: orch,
		state: formularity.State{
			InitialValues: baseline,
			Values:        deep.CloneValues(baseline),
			Errors:        formularity.Errors{},
			Touched:       formularity.Touched{},
			IsEditing:     cfg.IsEditing,
		},
	}, nil
}

// ID returns the form instance identifier.
func (m *Memory) ID() string {
	return m.cfg.ID
}

// Config returns the options the store was created with.
func (m *Memory) Config() Config {
	return m.cfg
}

// Validator returns the orchestrator built from the store's validators.
func (m *Memory) Validator() *validate.Orchestrator {
	return m.validator
}

// Get returns the current snapshot.
func (m *Memory) Get() formularity.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Set replaces the snapshot and notifies subscribers. InitialValues is
// fixed at creation; the value carried by state is ignored.
func (m *Memory) Set(state formularity.State) {
	m.apply(func(s *formularity.State) bool {
		*s = state
		return true
	})
	m.notify()
}

// Update applies fn to a copy of the snapshot and notifies subscribers
// unless fn vetoes the change. If fn panics the snapshot is left as it was
// and the panic propagates.
func (m *Memory) Update(fn func(s *formularity.State) bool) bool {
	if !m.apply(fn) {
		return false
	}
	m.notify()
	return true
}

// apply runs fn under the write lock and commits its result.
func (m *Memory) apply(fn func(s *formularity.State) bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.state
	if !fn(&next) {
		return false
	}
	next.InitialValues = m.state.InitialValues
	m.state = next
	return true
}

// Subscribe registers fn. Subscribers run synchronously after each change,
// in registration order, outside the state lock.
func (m *Memory) Subscribe(fn func()) func() {
	sub := &subscriber{fn: fn}

	m.subMu.Lock()
	m.subs = append(m.subs, sub)
	m.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			defer m.subMu.Unlock()
			for i, s := range m.subs {
				if s == sub {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of registered subscribers.
func (m *Memory) Subscribers() int {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	return len(m.subs)
}

func (m *Memory) notify() {
	m.subMu.Lock()
	subs := append([]*subscriber(nil), m.subs...)
	m.subMu.Unlock()

	for _, s := range subs {
		s.fn()
	}
}
