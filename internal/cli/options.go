package cli

import "time"

// Store backends accepted by StoreOptions.Backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// StoreOptions selects where session snapshots live.
type StoreOptions struct {
	Backend   string
	Dir       string // file backend; defaults to .fsm/sessions
	RedisAddr string
	RedisDB   int
	TTL       time.Duration
	Key       string // base64 AES-256 key; snapshots are encrypted at rest when set
}

// EnvStoreKey holds the snapshot encryption key for commands that open a store.
const EnvStoreKey = "FSM_STORE_KEY"

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	File      string
	SessionID string
	Fresh     bool
	Strict    bool
	Store     StoreOptions
}

// ServeOptions contains all the configuration for the serve command.
type ServeOptions struct {
	File  string
	Addr  string
	Watch bool
	Store StoreOptions
}
