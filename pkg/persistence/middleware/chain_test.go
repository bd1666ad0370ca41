package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/fsm/pkg/adapters/memory"
	"github.com/aretw0/fsm/pkg/domain"
	"github.com/aretw0/fsm/pkg/persistence/middleware"
	"github.com/aretw0/fsm/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	ports.SnapshotStore
	name  string
	calls *[]string
}

func (r recordingStore) Save(ctx context.Context, id string, snap domain.Snapshot) error {
	*r.calls = append(*r.calls, r.name)
	return r.SnapshotStore.Save(ctx, id, snap)
}

func recorder(name string, calls *[]string) middleware.Middleware {
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return recordingStore{SnapshotStore: next, name: name, calls: calls}
	}
}

func TestChain(t *testing.T) {
	var calls []string
	store := middleware.Chain(memory.NewStore(), recorder("outer", &calls), recorder("inner", &calls))

	require.NoError(t, store.Save(context.Background(), "s1", domain.NewSnapshot("idle")))
	assert.Equal(t, []string{"outer", "inner"}, calls)
}
