/*
Package domain contains the core data model of the FSM engine.

It defines the immutable blueprint a machine is built from and the mutable snapshot of a
running machine. This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Config: The blueprint (initial state plus the state/transition map).
  - StateDefinition: The transitions a single state responds to.
  - Snapshot: A copy of a machine's active state, history and cursor.
*/
package domain
