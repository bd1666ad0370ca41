// Package schema reads and writes machine definitions.
//
// Definitions are YAML documents (JSON is accepted as well, being a YAML subset):
//
//	initial: idle
//	states:
//	  idle:
//	    transitions:
//	      start: running
//	  running:
//	    transitions:
//	      stop: idle
//	    description: any extra field is kept in StateDefinition.Extra
//
// The order in which states are declared is preserved in Config.Order.
// Parse only checks the shape of the document; use Config.Validate for the
// referential checks (known initial state, no dangling transitions).
package schema
