package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/fsm/pkg/domain"
)

// Describe writes a Markdown overview of a definition: one section per state in
// declared order with its outgoing transitions and any extra fields.
func Describe(title string, cfg *domain.Config) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "Initial state: **%s**. %d states.\n", cfg.Initial, len(cfg.States))

	for _, name := range cfg.StateNames() {
		def := cfg.States[name]
		sb.WriteString("\n## ")
		sb.WriteString(name)
		if name == cfg.Initial {
			sb.WriteString(" (initial)")
		}
		sb.WriteString("\n\n")

		events := make([]string, 0, len(def.Transitions))
		for event, target := range def.Transitions {
			if target != "" {
				events = append(events, event)
			}
		}
		sort.Strings(events)

		if len(events) == 0 {
			sb.WriteString("No outgoing transitions.\n")
		} else {
			sb.WriteString("| Event | Target |\n| --- | --- |\n")
			for _, event := range events {
				target := def.Transitions[event]
				if !cfg.HasState(target) {
					target += " (undefined)"
				}
				fmt.Fprintf(&sb, "| `%s` | %s |\n", event, target)
			}
		}

		if len(def.Extra) > 0 {
			keys := make([]string, 0, len(def.Extra))
			for k := range def.Extra {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			sb.WriteString("\n")
			for _, k := range keys {
				fmt.Fprintf(&sb, "- %s: %v\n", k, def.Extra[k])
			}
		}
	}
	return sb.String()
}
