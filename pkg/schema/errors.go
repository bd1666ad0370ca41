package schema

import (
	"fmt"

	"github.com/aretw0/fsm/pkg/domain"
)

// ValidationError represents a single problem found in a definition document.
type ValidationError struct {
	Key    string // Dotted path of the offending field
	Reason string // Human-readable reason for failure
	Line   int    // Line in the source document, 0 if unknown
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: field %q: %s", e.Line, e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
}

// Unwrap lets callers match any definition problem with domain.ErrInvalidConfig.
func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidConfig
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
