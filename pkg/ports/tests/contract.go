package tests

import (
	"errors"
	"testing"

	"github.com/aretw0/fsm/pkg/domain"
	"github.com/aretw0/fsm/pkg/ports"
)

// DefinitionLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.DefinitionLoader.
// expected maps every definition name the loader should serve to its initial state.
func DefinitionLoaderContractTest(t *testing.T, loader ports.DefinitionLoader, expected map[string]string) {
	t.Helper()

	t.Run("Load_Success", func(t *testing.T) {
		for name, initial := range expected {
			cfg, err := loader.Load(name)
			if err != nil {
				t.Fatalf("unexpected error loading %s: %v", name, err)
			}
			if cfg.Initial != initial {
				t.Errorf("initial mismatch for %s. got %q, want %q", name, cfg.Initial, initial)
			}
		}
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := loader.Load("non-existent-definition")
		if !errors.Is(err, domain.ErrDefinitionNotFound) {
			t.Errorf("expected ErrDefinitionNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		names, err := loader.List()
		if err != nil {
			t.Fatalf("unexpected error listing definitions: %v", err)
		}

		if len(names) != len(expected) {
			t.Errorf("expected %d definitions, got %d", len(expected), len(names))
		}

		for i := 1; i < len(names); i++ {
			if names[i-1] > names[i] {
				t.Errorf("names not sorted: %v", names)
				break
			}
		}

		for _, name := range names {
			if _, ok := expected[name]; !ok {
				t.Errorf("unexpected definition %q", name)
			}
		}
	})
}
