package domain

import (
	"fmt"
	"sort"
)

// StateDefinition describes the events a single state responds to.
type StateDefinition struct {
	// Transitions maps an event name to the state it leads to.
	Transitions map[string]string `json:"transitions" yaml:"transitions" mapstructure:"transitions"`

	// Extra keeps any additional fields found in a loaded definition.
	// The engine never reads them.
	Extra map[string]any `json:"-" yaml:"-" mapstructure:",remain"`
}

// Config is the immutable blueprint of a machine.
type Config struct {
	// Initial is the starting state. It should be a key of States.
	Initial string `json:"initial" yaml:"initial"`

	// States maps every state name to its definition.
	States map[string]StateDefinition `json:"states" yaml:"states"`

	// Order is the declared order of the state names.
	// Loaders fill it from the source document; when empty, States keys are sorted.
	Order []string `json:"-" yaml:"-"`
}

// StateNames returns the state names in declared order.
// Names listed in Order but missing from States are skipped, and states absent
// from Order are appended in lexical order.
func (c *Config) StateNames() []string {
	names := make([]string, 0, len(c.States))
	seen := make(map[string]bool, len(c.States))
	for _, name := range c.Order {
		if _, ok := c.States[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	var rest []string
	for name := range c.States {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// HasState reports whether name is a configured state.
func (c *Config) HasState(name string) bool {
	_, ok := c.States[name]
	return ok
}

// Target resolves the state an event leads to from the given state.
// An empty target counts as no transition.
func (c *Config) Target(state, event string) (string, bool) {
	def, ok := c.States[state]
	if !ok {
		return "", false
	}
	target, ok := def.Transitions[event]
	if !ok || target == "" {
		return "", false
	}
	return target, true
}

// Validate performs the strict checks the engine itself skips:
// the initial state must exist and every transition must point to a known state.
func (c *Config) Validate() error {
	if len(c.States) == 0 {
		return fmt.Errorf("%w: no states defined", ErrInvalidConfig)
	}
	if c.Initial == "" {
		return fmt.Errorf("%w: initial state is empty", ErrInvalidConfig)
	}
	if !c.HasState(c.Initial) {
		return fmt.Errorf("%w: initial state %q is not defined", ErrInvalidConfig, c.Initial)
	}

	for _, name := range c.StateNames() {
		def := c.States[name]
		events := make([]string, 0, len(def.Transitions))
		for event := range def.Transitions {
			events = append(events, event)
		}
		sort.Strings(events)

		for _, event := range events {
			target := def.Transitions[event]
			if event == "" {
				return fmt.Errorf("%w: state %q has a transition with an empty event", ErrInvalidConfig, name)
			}
			if !c.HasState(target) {
				return fmt.Errorf("%w: state %q: event %q leads to unknown state %q", ErrInvalidConfig, name, event, target)
			}
		}
	}
	return nil
}
