package domain

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	// Active is set when the active state changed.
	Active *string `json:"active,omitempty"`

	// Cursor is set when the cursor moved.
	Cursor *int `json:"cursor,omitempty"`

	// Appended contains the states newly added to the end of the history.
	Appended []string `json:"appended,omitempty"`

	// Rewritten is true when the history was not a pure append of the old one
	// (e.g. after ClearHistory). Clients should replace their copy with History.
	Rewritten bool     `json:"rewritten,omitempty"`
	History   []string `json:"history,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap Snapshot) *SnapshotDiff {
	diff := &SnapshotDiff{}

	if oldSnap.Active != newSnap.Active {
		active := newSnap.Active
		diff.Active = &active
	}
	if oldSnap.Cursor != newSnap.Cursor {
		cursor := newSnap.Cursor
		diff.Cursor = &cursor
	}

	if isPrefix(oldSnap.History, newSnap.History) {
		if len(newSnap.History) > len(oldSnap.History) {
			diff.Appended = append([]string(nil), newSnap.History[len(oldSnap.History):]...)
		}
	} else {
		diff.Rewritten = true
		diff.History = append([]string(nil), newSnap.History...)
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.Active == nil &&
		d.Cursor == nil &&
		len(d.Appended) == 0 &&
		!d.Rewritten
}

func isPrefix(prefix, full []string) bool {
	if len(prefix) > len(full) {
		return false
	}
	for i := range prefix {
		if prefix[i] != full[i] {
			return false
		}
	}
	return true
}
