package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/fsm"
	"github.com/aretw0/fsm/internal/logging"
	"github.com/aretw0/fsm/pkg/domain"
	"github.com/aretw0/fsm/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// Result is the outcome of one operation on a session.
type Result struct {
	// Snapshot is the session state after the operation.
	Snapshot domain.Snapshot `json:"snapshot"`

	// Diff lists what changed, nil when nothing did.
	Diff *domain.SnapshotDiff `json:"diff,omitempty"`

	// Moved is false when Undo/Redo had nowhere to go. It is true for every other
	// successful operation.
	Moved bool `json:"moved"`
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SnapshotStore

	cfgMu  sync.RWMutex
	config *domain.Config

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL for distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager serving cfg with the given persistence store.
func NewManager(cfg *domain.Config, store ports.SnapshotStore, opts ...Option) (*Manager, error) {
	if cfg == nil {
		return nil, domain.ErrConfigMissing
	}
	m := &Manager{
		store:   store,
		config:  cfg,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Config returns the definition currently served.
func (m *Manager) Config() *domain.Config {
	m.cfgMu.RLock()
	defer m.cfgMu.RUnlock()
	return m.config
}

// SetConfig swaps the definition for subsequent operations (hot reload).
// Stored snapshots that no longer fit the new definition are restarted on next access.
func (m *Manager) SetConfig(cfg *domain.Config) error {
	if cfg == nil {
		return domain.ErrConfigMissing
	}
	m.cfgMu.Lock()
	defer m.cfgMu.Unlock()
	m.config = cfg
	return nil
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// Get returns the session snapshot, starting (and persisting) the session if needed.
func (m *Manager) Get(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	res, err := m.Apply(ctx, sessionID, func(*fsm.Machine) (bool, error) { return true, nil })
	return res.Snapshot, err
}

// Trigger fires event on the session's machine.
func (m *Manager) Trigger(ctx context.Context, sessionID, event string) (Result, error) {
	return m.Apply(ctx, sessionID, func(mc *fsm.Machine) (bool, error) {
		return true, mc.Trigger(event)
	})
}

// ChangeState jumps the session's machine to target.
func (m *Manager) ChangeState(ctx context.Context, sessionID, target string) (Result, error) {
	return m.Apply(ctx, sessionID, func(mc *fsm.Machine) (bool, error) {
		return true, mc.ChangeState(target)
	})
}

// Reset moves the session back to the initial state, keeping its history.
func (m *Manager) Reset(ctx context.Context, sessionID string) (Result, error) {
	return m.Apply(ctx, sessionID, func(mc *fsm.Machine) (bool, error) {
		return true, mc.Reset()
	})
}

// Undo steps the session back in its history.
func (m *Manager) Undo(ctx context.Context, sessionID string) (Result, error) {
	return m.Apply(ctx, sessionID, func(mc *fsm.Machine) (bool, error) {
		return mc.Undo(), nil
	})
}

// Redo steps the session forward in its history.
func (m *Manager) Redo(ctx context.Context, sessionID string) (Result, error) {
	return m.Apply(ctx, sessionID, func(mc *fsm.Machine) (bool, error) {
		return mc.Redo(), nil
	})
}

// ClearHistory returns the session to the initial state and forgets its history.
func (m *Manager) ClearHistory(ctx context.Context, sessionID string) (Result, error) {
	return m.Apply(ctx, sessionID, func(mc *fsm.Machine) (bool, error) {
		mc.ClearHistory()
		return true, nil
	})
}

// Apply runs op against the session's machine while holding the session lock.
// The snapshot is saved only when op succeeds and something changed (or the session is new).
func (m *Manager) Apply(ctx context.Context, sessionID string, op func(*fsm.Machine) (bool, error)) (Result, error) {
	var res Result
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		mc, fresh, err := m.load(ctx, sessionID)
		if err != nil {
			return err
		}
		before := mc.Snapshot()

		moved, err := op(mc)
		if err != nil {
			res = Result{Snapshot: before}
			return err
		}

		after := mc.Snapshot()
		res = Result{
			Snapshot: after,
			Diff:     domain.Diff(before, after),
			Moved:    moved,
		}

		if fresh || res.Diff != nil {
			if err := m.store.Save(ctx, sessionID, after); err != nil {
				return fmt.Errorf("failed to save session %s: %w", sessionID, err)
			}
		}
		return nil
	})
	return res, err
}

// load rebuilds the session's machine from its snapshot.
// fresh reports that no usable snapshot existed.
func (m *Manager) load(ctx context.Context, sessionID string) (*fsm.Machine, bool, error) {
	mc, err := fsm.New(m.Config())
	if err != nil {
		return nil, false, err
	}

	snap, err := m.store.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		m.logger.Debug("starting session", "session_id", sessionID, "state", mc.State())
		return mc, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	if err := mc.Restore(snap); err != nil {
		m.logger.Warn("discarding snapshot that no longer fits the definition",
			"session_id", sessionID,
			"err", err,
		)
		return mc, true, nil
	}
	return mc, false, nil
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List returns the stored session IDs in lexical order.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	ids, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
