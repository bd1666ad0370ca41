package fsm_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/aretw0/fsm"
	"github.com/aretw0/fsm/pkg/domain"
	"github.com/aretw0/fsm/pkg/schema"
)

func ExampleMachine_Trigger() {
	m, err := fsm.New(&domain.Config{
		Initial: "idle",
		States: map[string]domain.StateDefinition{
			"idle":    {Transitions: map[string]string{"start": "running"}},
			"running": {Transitions: map[string]string{"stop": "idle", "pause": "paused"}},
			"paused":  {Transitions: map[string]string{"resume": "running"}},
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	_ = m.Trigger("start")
	_ = m.Trigger("pause")
	fmt.Println(m.State(), m.History())

	m.Undo()
	fmt.Println(m.State())

	if err := m.Trigger("missing"); errors.Is(err, fsm.ErrUnknownEvent) {
		fmt.Println("rejected:", m.State())
	}
	// Output:
	// paused [idle running paused]
	// running
	// rejected: running
}

// ExampleNew_yaml demonstrates building a machine from a YAML definition.
// State order in the document is preserved by States.
func ExampleNew_yaml() {
	cfg, err := schema.Parse([]byte(`
initial: draft
states:
  draft:
    transitions:
      submit: review
  review:
    transitions:
      approve: published
      reject: draft
  published:
    transitions: {}
`))
	if err != nil {
		log.Fatal(err)
	}

	m, err := fsm.New(cfg, fsm.WithStrict())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(m.States(""))
	fmt.Println(m.States("reject"))
	// Output:
	// [draft review published]
	// [review]
}
