package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/fsm/pkg/adapters/memory"
	"github.com/aretw0/fsm/pkg/domain"
)

func TestManager_LockLifecycle(t *testing.T) {
	cfg := &domain.Config{
		Initial: "idle",
		States:  map[string]domain.StateDefinition{"idle": {}},
	}
	mgr, err := NewManager(cfg, memory.NewStore())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_, _ = mgr.Get(ctx, sid)
		_ = mgr.Delete(ctx, sid)
	}

	if lockCount := len(mgr.locks); lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
