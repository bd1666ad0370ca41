/*
Package ports defines the driven ports (interfaces) around the FSM engine.

These interfaces decouple the engine and the session manager from external
implementations, allowing definitions and snapshots to live in memory, on disk or in Redis.

# Key Interfaces

  - DefinitionLoader: Retrieves machine definitions (domain.Config) by name.
  - SnapshotStore: Persists and loads per-session machine snapshots.
  - DistributedLocker: Provides distributed locking for concurrent session access.
*/
package ports
