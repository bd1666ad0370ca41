package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/fsm/pkg/domain"
)

// Report is the outcome of crawling a definition from its initial state.
type Report struct {
	Reachable   []string // in visiting order, starting with the initial state
	Unreachable []string // declared states no transition chain leads to, in declared order
	Missing     []string // transition targets that are not declared
}

// Crawl walks the transitions breadth-first starting from the initial state.
func Crawl(cfg *domain.Config) Report {
	var report Report
	visited := make(map[string]bool)
	missing := make(map[string]bool)

	queue := []string{cfg.Initial}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		def, ok := cfg.States[current]
		if !ok {
			if !missing[current] {
				missing[current] = true
				report.Missing = append(report.Missing, current)
			}
			continue
		}
		report.Reachable = append(report.Reachable, current)

		for _, event := range sortedEvents(def.Transitions) {
			target := def.Transitions[event]
			if target != "" && !visited[target] {
				queue = append(queue, target)
			}
		}
	}

	for _, name := range cfg.StateNames() {
		if !visited[name] {
			report.Unreachable = append(report.Unreachable, name)
		}
	}
	return report
}

// ValidateGraph fails when a reachable transition leads to an undeclared state,
// and, when strict, when some declared state can never be reached.
func ValidateGraph(cfg *domain.Config, strict bool) error {
	report := Crawl(cfg)

	var errors []string
	for _, name := range report.Missing {
		errors = append(errors, fmt.Sprintf("Missing state: '%s'", name))
	}
	if strict {
		for _, name := range report.Unreachable {
			errors = append(errors, fmt.Sprintf("Unreachable state: '%s'", name))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%w: found %d errors:\n- %s", domain.ErrInvalidConfig, len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

func sortedEvents(transitions map[string]string) []string {
	events := make([]string, 0, len(transitions))
	for event := range transitions {
		events = append(events, event)
	}
	sort.Strings(events)
	return events
}
