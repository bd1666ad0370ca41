package memory_test

import (
	"testing"

	"github.com/aretw0/fsm/pkg/adapters/memory"
	"github.com/aretw0/fsm/pkg/domain"
	contract "github.com/aretw0/fsm/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	loader, err := memory.NewFromDocuments(map[string]string{
		"player": "initial: idle\nstates:\n  idle: {transitions: {start: running}}\n  running: {}\n",
		"door":   `{"initial": "closed", "states": {"closed": {"transitions": {"open": "opened"}}, "opened": null}}`,
	})
	require.NoError(t, err)

	contract.DefinitionLoaderContractTest(t, loader, map[string]string{
		"player": "idle",
		"door":   "closed",
	})
}

func TestInMemoryLoader_Add(t *testing.T) {
	loader := memory.NewLoader(nil)
	loader.Add("light", &domain.Config{Initial: "off"})

	cfg, err := loader.Load("light")
	require.NoError(t, err)
	assert.Equal(t, "off", cfg.Initial)

	names, err := loader.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"light"}, names)
}

func TestInMemoryLoader_BadDocument(t *testing.T) {
	_, err := memory.NewFromDocuments(map[string]string{"bad": "states: [1, 2]"})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}
