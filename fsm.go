package fsm

import (
	"fmt"

	"github.com/aretw0/fsm/pkg/domain"
	"github.com/aretw0/fsm/pkg/ports"
)

// Machine is a finite-state machine with a linear, navigable history.
//
// A Machine is not safe for concurrent use. Callers sharing one across goroutines
// must serialize access themselves (see package session for a ready-made wrapper).
type Machine struct {
	config  *domain.Config
	initial string
	active  string
	history []string
	cursor  int
}

// Option defines a functional option for configuring the Machine.
type Option func(*options)

type options struct {
	strict bool
}

// WithStrict validates the configuration at construction time.
// By default the initial state and transition targets are taken as given.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// New creates a Machine positioned at the configuration's initial state.
// It returns ErrConfigMissing when cfg is nil.
func New(cfg *domain.Config, opts ...Option) (*Machine, error) {
	if cfg == nil {
		return nil, domain.ErrConfigMissing
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.strict {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	m := &Machine{
		config:  cfg,
		initial: cfg.Initial,
	}
	m.ClearHistory()
	return m, nil
}

// Open loads the named definition through the loader and creates a Machine from it.
func Open(loader ports.DefinitionLoader, name string, opts ...Option) (*Machine, error) {
	cfg, err := loader.Load(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load definition %q: %w", name, err)
	}
	return New(cfg, opts...)
}

// State returns the active state.
func (m *Machine) State() string {
	return m.active
}

// Initial returns the construction-time initial state.
func (m *Machine) Initial() string {
	return m.initial
}

// Config returns the blueprint the machine was built from. It must not be modified.
func (m *Machine) Config() *domain.Config {
	return m.config
}

// ChangeState jumps to target, which must be a configured state.
func (m *Machine) ChangeState(target string) error {
	if !m.config.HasState(target) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownState, target)
	}
	m.visit(target)
	return nil
}

// Trigger follows the transition registered for event on the active state.
// The resolved target is not checked against the configured states.
func (m *Machine) Trigger(event string) error {
	target, ok := m.config.Target(m.active, event)
	if !ok {
		return fmt.Errorf("%w: %q in state %q", domain.ErrUnknownEvent, event, m.active)
	}
	m.visit(target)
	return nil
}

// Reset goes to the initial state. History is kept.
func (m *Machine) Reset() error {
	return m.ChangeState(m.initial)
}

// States returns, in declared order, the states that have a transition for event.
// An empty event returns every state.
func (m *Machine) States(event string) []string {
	names := m.config.StateNames()
	if event == "" {
		return names
	}

	states := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := m.config.Target(name, event); ok {
			states = append(states, name)
		}
	}
	return states
}

// Undo steps back in history. It returns false when the active state is the initial one.
func (m *Machine) Undo() bool {
	if m.active == m.initial {
		return false
	}
	m.cursor--
	m.active = m.history[m.cursor]
	return true
}

// Redo steps forward in history. It returns false when there is nothing ahead.
func (m *Machine) Redo() bool {
	if len(m.history) == 1 || m.cursor+1 >= len(m.history) {
		return false
	}
	m.cursor++
	m.active = m.history[m.cursor]
	return true
}

// ClearHistory returns to the initial state and forgets every visited state.
func (m *Machine) ClearHistory() {
	m.active = m.initial
	m.history = []string{m.initial}
	m.cursor = 0
}

// History returns a copy of the visited states in first-visit order.
func (m *Machine) History() []string {
	history := make([]string, len(m.history))
	copy(history, m.history)
	return history
}

// Cursor returns the position of the active state within History.
func (m *Machine) Cursor() int {
	return m.cursor
}

// Snapshot captures the active state, history and cursor.
func (m *Machine) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Active:  m.active,
		History: m.History(),
		Cursor:  m.cursor,
	}
}

// Restore replaces the mutable state with a previously captured snapshot.
// Snapshots that break the history invariants are rejected and leave the machine untouched.
func (m *Machine) Restore(s domain.Snapshot) error {
	if err := s.Check(m.initial); err != nil {
		return err
	}
	s = s.Clone()
	m.active = s.Active
	m.history = s.History
	m.cursor = s.Cursor
	return nil
}

// visit applies the change-state effect: append on first visit, then move the cursor.
func (m *Machine) visit(target string) {
	m.active = target
	for i, name := range m.history {
		if name == target {
			m.cursor = i
			return
		}
	}
	m.history = append(m.history, target)
	m.cursor = len(m.history) - 1
}
