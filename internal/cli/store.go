package cli

import (
	"encoding/base64"
	"fmt"

	"github.com/aretw0/fsm/pkg/adapters/file"
	"github.com/aretw0/fsm/pkg/adapters/memory"
	"github.com/aretw0/fsm/pkg/adapters/redis"
	"github.com/aretw0/fsm/pkg/persistence/middleware"
	"github.com/aretw0/fsm/pkg/ports"
	"github.com/aretw0/fsm/pkg/session"
	backend "github.com/redis/go-redis/v9"
)

// Persistence bundles the stores chosen by StoreOptions.
type Persistence struct {
	Store  ports.SnapshotStore
	Locker ports.DistributedLocker // nil unless the backend is shared between processes
	close  func() error
}

// Close releases backend connections.
func (p *Persistence) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}

// ManagerOptions returns the session options implied by the backend.
func (p *Persistence) ManagerOptions() []session.Option {
	if p.Locker == nil {
		return nil
	}
	return []session.Option{session.WithLocker(p.Locker)}
}

// OpenStore builds the snapshot store for opts.Backend, encrypted when opts.Key is set.
func OpenStore(opts StoreOptions) (*Persistence, error) {
	p, err := openBackend(opts)
	if err != nil {
		return nil, err
	}
	if opts.Key == "" {
		return p, nil
	}

	key, err := base64.StdEncoding.DecodeString(opts.Key)
	if err != nil || len(key) != middleware.KeySize {
		_ = p.Close()
		return nil, fmt.Errorf("store key must be %d bytes, base64 encoded", middleware.KeySize)
	}
	p.Store = middleware.Chain(p.Store, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	return p, nil
}

func openBackend(opts StoreOptions) (*Persistence, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return &Persistence{Store: memory.NewStore()}, nil
	case BackendFile:
		return &Persistence{Store: file.NewStore(opts.Dir)}, nil
	case BackendRedis:
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("redis backend requires an address")
		}
		client := backend.NewClient(&backend.Options{
			Addr: opts.RedisAddr,
			DB:   opts.RedisDB,
		})
		var storeOpts []redis.Option
		if opts.TTL > 0 {
			storeOpts = append(storeOpts, redis.WithTTL(opts.TTL))
		}
		return &Persistence{
			Store:  redis.NewFromClient(client, storeOpts...),
			Locker: redis.NewLocker(client, "fsm:"),
			close:  client.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (want %s, %s or %s)", opts.Backend, BackendMemory, BackendFile, BackendRedis)
	}
}
