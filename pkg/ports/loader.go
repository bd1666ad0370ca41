package ports

import (
	"context"

	"github.com/aretw0/fsm/pkg/domain"
)

// DefinitionLoader defines how machine definitions are retrieved.
// This allows the storage layer (FS, Memory) to be decoupled from the engine.
type DefinitionLoader interface {
	// Load returns the definition registered under name.
	// Returns domain.ErrDefinitionNotFound if there is none.
	Load(name string) (*domain.Config, error)

	// List returns the names of all available definitions, sorted.
	List() ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that receives the name of each definition that changed.
	// The channel is closed when ctx is canceled.
	Watch(ctx context.Context) (<-chan string, error)
}
