package domain

import "fmt"

// Snapshot captures the mutable part of a machine.
type Snapshot struct {
	// Active is the current state.
	Active string `json:"active"`

	// History lists the distinct states visited, in first-visit order.
	History []string `json:"history"`

	// Cursor is the position of Active within History.
	Cursor int `json:"cursor"`
}

// NewSnapshot creates the construction-time snapshot for an initial state.
func NewSnapshot(initial string) Snapshot {
	return Snapshot{
		Active:  initial,
		History: []string{initial},
		Cursor:  0,
	}
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	history := make([]string, len(s.History))
	copy(history, s.History)
	s.History = history
	return s
}

// Check verifies the history invariants against the given initial state.
func (s Snapshot) Check(initial string) error {
	if len(s.History) == 0 {
		return fmt.Errorf("%w: empty history", ErrInvalidSnapshot)
	}
	if s.History[0] != initial {
		return fmt.Errorf("%w: history starts at %q, want %q", ErrInvalidSnapshot, s.History[0], initial)
	}
	if s.Cursor < 0 || s.Cursor >= len(s.History) {
		return fmt.Errorf("%w: cursor %d out of range [0,%d)", ErrInvalidSnapshot, s.Cursor, len(s.History))
	}
	if s.History[s.Cursor] != s.Active {
		return fmt.Errorf("%w: active state %q does not match history[%d] = %q", ErrInvalidSnapshot, s.Active, s.Cursor, s.History[s.Cursor])
	}

	seen := make(map[string]bool, len(s.History))
	for _, name := range s.History {
		if seen[name] {
			return fmt.Errorf("%w: duplicate history entry %q", ErrInvalidSnapshot, name)
		}
		seen[name] = true
	}
	return nil
}
