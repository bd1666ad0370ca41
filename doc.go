/*
Package fsm is a small, embeddable finite-state machine with a navigable history.

A Machine is built from a declarative domain.Config: an initial state and, for every state,
the events it responds to and the state each one leads to. The machine tracks a single active
state and records every distinct state it visits, in first-visit order, so callers can walk
back and forth along that path with Undo and Redo.

# Concept

  - ChangeState jumps to any configured state.
  - Trigger follows the transition the active state defines for an event.
  - Both append the target to the history on its first visit only, then move the cursor to it.
  - Undo and Redo move the cursor without touching the history.
  - ClearHistory forgets everything and returns to the initial state.

The engine never blocks and holds no locks. Packages session and adapters add persistence,
locking and an HTTP surface on top of it.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/fsm"
		"github.com/aretw0/fsm/pkg/domain"
	)

	func main() {
		m, err := fsm.New(&domain.Config{
			Initial: "idle",
			States: map[string]domain.StateDefinition{
				"idle":    {Transitions: map[string]string{"start": "running"}},
				"running": {Transitions: map[string]string{"stop": "idle"}},
			},
		})
		if err != nil {
			log.Fatal(err)
		}

		if err := m.Trigger("start"); err != nil {
			log.Fatal(err)
		}
		m.Undo()
		fmt.Println(m.State()) // idle
	}
*/
package fsm
