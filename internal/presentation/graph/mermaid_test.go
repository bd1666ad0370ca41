package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/fsm/internal/presentation/graph"
	"github.com/aretw0/fsm/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func playerConfig() *domain.Config {
	return &domain.Config{
		Initial: "idle",
		States: map[string]domain.StateDefinition{
			"idle":    {Transitions: map[string]string{"start": "running"}},
			"running": {Transitions: map[string]string{"stop": "idle", "pause": "paused"}},
			"paused":  {Transitions: map[string]string{"resume": "running", "eject": "tray-open"}},
		},
		Order: []string{"idle", "running", "paused"},
	}
}

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(playerConfig(), nil)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	for _, want := range []string{
		`idle(("idle"))`,
		`running["running"]`,
		`paused["paused"]`,
		`tray_open{{"tray-open"}}`,
		`idle -- "start" --> running`,
		`running -- "pause" --> paused`,
		`running -- "stop" --> idle`,
		`paused -- "eject" --> tray_open`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "classDef", "no overlay requested")

	// Declared order drives node order.
	assert.Less(t, strings.Index(out, `running["running"]`), strings.Index(out, `paused["paused"]`))
	// Events are sorted per state.
	assert.Less(t, strings.Index(out, `running -- "pause"`), strings.Index(out, `running -- "stop"`))
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	snap := domain.Snapshot{Active: "running", History: []string{"idle", "running", "paused"}, Cursor: 1}
	out := graph.GenerateMermaid(playerConfig(), graph.OverlayFrom(snap))

	assert.Contains(t, out, "classDef visited")
	assert.Contains(t, out, "class idle visited;")
	assert.Contains(t, out, "class paused visited;")
	assert.Contains(t, out, "class running current;")
	assert.NotContains(t, out, "class running visited;")
}

func TestGenerateMermaid_UndeclaredInitial(t *testing.T) {
	cfg := playerConfig()
	cfg.Initial = "boot"
	out := graph.GenerateMermaid(cfg, nil)

	assert.Contains(t, out, `boot(("boot"))`)
	assert.Contains(t, out, `idle["idle"]`)
	assert.Equal(t, 1, strings.Count(out, `boot((`))
}
