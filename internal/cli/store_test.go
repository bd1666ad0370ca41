package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/fsm/pkg/adapters/file"
	"github.com/aretw0/fsm/pkg/adapters/memory"
	"github.com/aretw0/fsm/pkg/adapters/redis"
	"github.com/aretw0/fsm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	t.Run("Memory Default", func(t *testing.T) {
		p, err := OpenStore(StoreOptions{})
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, p.Store)
		assert.Nil(t, p.Locker)
		assert.Empty(t, p.ManagerOptions())
		assert.NoError(t, p.Close())
	})

	t.Run("File", func(t *testing.T) {
		dir := t.TempDir()
		p, err := OpenStore(StoreOptions{Backend: BackendFile, Dir: dir})
		require.NoError(t, err)
		require.IsType(t, &file.Store{}, p.Store)
		assert.Equal(t, dir, p.Store.(*file.Store).BasePath)
	})

	t.Run("Redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		p, err := OpenStore(StoreOptions{Backend: BackendRedis, RedisAddr: mr.Addr()})
		require.NoError(t, err)
		defer p.Close()

		assert.IsType(t, &redis.Store{}, p.Store)
		assert.NotNil(t, p.Locker)
		assert.Len(t, p.ManagerOptions(), 1)

		ctx := context.Background()
		require.NoError(t, p.Store.Save(ctx, "s1", domain.NewSnapshot("idle")))
		snap, err := p.Store.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "idle", snap.Active)
	})

	t.Run("Redis Without Address", func(t *testing.T) {
		_, err := OpenStore(StoreOptions{Backend: BackendRedis})
		assert.Error(t, err)
	})

	t.Run("Encrypted", func(t *testing.T) {
		dir := t.TempDir()
		key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
		p, err := OpenStore(StoreOptions{Backend: BackendFile, Dir: dir, Key: key})
		require.NoError(t, err)

		ctx := context.Background()
		snap := domain.Snapshot{Active: "running", History: []string{"idle", "running"}, Cursor: 1}
		require.NoError(t, p.Store.Save(ctx, "s1", snap))

		raw, err := os.ReadFile(filepath.Join(dir, "s1.json"))
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "running")

		loaded, err := p.Store.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, snap, loaded)

		_, err = OpenStore(StoreOptions{Backend: BackendFile, Dir: dir, Key: "c2hvcnQ="})
		assert.ErrorContains(t, err, "32 bytes")
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := OpenStore(StoreOptions{Backend: "etcd"})
		assert.ErrorContains(t, err, `unknown store backend "etcd"`)
	})
}
