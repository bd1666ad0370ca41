package domain_test

import (
	"testing"

	"github.com/aretw0/fsm/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestSnapshot_Check(t *testing.T) {
	tests := []struct {
		name string
		snap domain.Snapshot
		ok   bool
	}{
		{"fresh", domain.NewSnapshot("idle"), true},
		{"mid history", domain.Snapshot{Active: "running", History: []string{"idle", "running", "paused"}, Cursor: 1}, true},
		{"empty history", domain.Snapshot{Active: "idle"}, false},
		{"wrong root", domain.Snapshot{Active: "running", History: []string{"running"}}, false},
		{"cursor past end", domain.Snapshot{Active: "idle", History: []string{"idle"}, Cursor: 1}, false},
		{"negative cursor", domain.Snapshot{Active: "idle", History: []string{"idle"}, Cursor: -1}, false},
		{"active mismatch", domain.Snapshot{Active: "paused", History: []string{"idle", "running"}, Cursor: 1}, false},
		{"duplicate entry", domain.Snapshot{Active: "idle", History: []string{"idle", "running", "idle"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snap.Check("idle")
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)
			}
		})
	}
}

func TestSnapshot_Clone(t *testing.T) {
	orig := domain.Snapshot{Active: "running", History: []string{"idle", "running"}, Cursor: 1}
	c := orig.Clone()
	c.History[0] = "mutated"

	assert.Equal(t, "idle", orig.History[0])
	assert.Equal(t, orig.Active, c.Active)
	assert.Equal(t, orig.Cursor, c.Cursor)
}
