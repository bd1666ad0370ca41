package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/fsm/pkg/domain"
)

// Overlay contains session data to visualize on the graph.
type Overlay struct {
	History []string
	Active  string
}

// OverlayFrom builds an Overlay from a snapshot.
func OverlayFrom(s domain.Snapshot) *Overlay {
	return &Overlay{History: s.History, Active: s.Active}
}

// GenerateMermaid produces a Mermaid flowchart from a definition.
// The initial state is drawn as a circle, states missing from the definition
// (dangling transition targets) as a hexagon, everything else as a rectangle.
// Edges are labelled with their event. Overlay styles mark visited and active states.
func GenerateMermaid(cfg *domain.Config, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	declared := make(map[string]bool)
	for _, name := range cfg.StateNames() {
		declared[name] = true
		sb.WriteString(node(name, name == cfg.Initial, true))
	}

	// Targets and the initial state may be undeclared; draw them once.
	var dangling []string
	seen := make(map[string]bool)
	mark := func(name string) {
		if name != "" && !declared[name] && !seen[name] {
			seen[name] = true
			dangling = append(dangling, name)
		}
	}
	mark(cfg.Initial)
	for _, name := range cfg.StateNames() {
		for _, target := range cfg.States[name].Transitions {
			mark(target)
		}
	}
	sort.Strings(dangling)
	for _, name := range dangling {
		sb.WriteString(node(name, name == cfg.Initial, false))
	}

	for _, name := range cfg.StateNames() {
		transitions := cfg.States[name].Transitions
		events := make([]string, 0, len(transitions))
		for event := range transitions {
			events = append(events, event)
		}
		sort.Strings(events)

		for _, event := range events {
			target := transitions[event]
			if target == "" {
				continue
			}
			label := strings.ReplaceAll(event, "\"", "'")
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", sanitizeMermaidID(name), label, sanitizeMermaidID(target)))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		for _, name := range overlay.History {
			if name == "" || name == overlay.Active {
				continue
			}
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", sanitizeMermaidID(name)))
		}
		if overlay.Active != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.Active)))
		}
	}

	return sb.String()
}

func node(name string, initial, declared bool) string {
	opener, closer := "[", "]"
	switch {
	case initial:
		opener, closer = "((", "))"
	case !declared:
		opener, closer = "{{", "}}"
	}
	label := strings.ReplaceAll(name, "\"", "'")
	return fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(name), opener, label, closer)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "\"", "_")
	return s
}
