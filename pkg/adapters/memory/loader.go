package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/fsm/pkg/domain"
	"github.com/aretw0/fsm/pkg/schema"
)

// Loader implements ports.DefinitionLoader using an in-memory map.
// Safe for concurrent use.
type Loader struct {
	mu      sync.RWMutex
	configs map[string]*domain.Config
}

// NewLoader creates a new Loader from already built definitions.
func NewLoader(configs map[string]*domain.Config) *Loader {
	l := &Loader{configs: make(map[string]*domain.Config, len(configs))}
	for name, cfg := range configs {
		l.configs[name] = cfg
	}
	return l
}

// NewFromDocuments creates a Loader from raw YAML/JSON definitions keyed by name.
// This handles parsing automatically, improving DX for tests.
func NewFromDocuments(docs map[string]string) (*Loader, error) {
	l := NewLoader(nil)
	for name, doc := range docs {
		cfg, err := schema.Parse([]byte(doc))
		if err != nil {
			return nil, fmt.Errorf("failed to parse definition %s: %w", name, err)
		}
		l.configs[name] = cfg
	}
	return l, nil
}

// Add registers (or replaces) a definition.
func (l *Loader) Add(name string, cfg *domain.Config) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.configs[name] = cfg
}

// Load returns the definition registered under name.
func (l *Loader) Load(name string) (*domain.Config, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	cfg, ok := l.configs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, name)
	}
	return cfg, nil
}

// List returns all available definition names.
func (l *Loader) List() ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.configs))
	for name := range l.configs {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}
