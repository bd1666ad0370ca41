package validator

import (
	"testing"

	"github.com/aretw0/fsm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrawl(t *testing.T) {
	cfg := &domain.Config{
		Initial: "start",
		States: map[string]domain.StateDefinition{
			"start":  {Transitions: map[string]string{"b": "b", "a": "a"}},
			"a":      {Transitions: map[string]string{"next": "end"}},
			"b":      {Transitions: map[string]string{"next": "ghost", "back": "start"}},
			"end":    {},
			"island": {Transitions: map[string]string{"go": "start"}},
		},
		Order: []string{"start", "a", "b", "end", "island"},
	}

	report := Crawl(cfg)
	assert.Equal(t, []string{"start", "a", "b", "end"}, report.Reachable)
	assert.Equal(t, []string{"island"}, report.Unreachable)
	assert.Equal(t, []string{"ghost"}, report.Missing)
}

func TestValidateGraph(t *testing.T) {
	// start -> a -> b (end)
	valid := &domain.Config{
		Initial: "start",
		States: map[string]domain.StateDefinition{
			"start": {Transitions: map[string]string{"go": "a"}},
			"a":     {Transitions: map[string]string{"go": "b"}},
			"b":     {},
		},
	}
	require.NoError(t, ValidateGraph(valid, true))

	// start -> ghost
	broken := &domain.Config{
		Initial: "broken_start",
		States: map[string]domain.StateDefinition{
			"broken_start": {Transitions: map[string]string{"go": "ghost_node"}},
		},
	}
	err := ValidateGraph(broken, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "Missing state: 'ghost_node'")

	// Unreachable states only fail in strict mode
	orphan := &domain.Config{
		Initial: "start",
		States: map[string]domain.StateDefinition{
			"start":  {},
			"orphan": {Transitions: map[string]string{"go": "start"}},
		},
	}
	assert.NoError(t, ValidateGraph(orphan, false))
	err = ValidateGraph(orphan, true)
	assert.ErrorContains(t, err, "Unreachable state: 'orphan'")

	// An undeclared initial state is reported as missing
	assert.ErrorContains(t, ValidateGraph(&domain.Config{Initial: "nowhere"}, false), "Missing state: 'nowhere'")
}
