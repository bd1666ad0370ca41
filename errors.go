package fsm

import "github.com/aretw0/fsm/pkg/domain"

// Errors returned by Machine operations. They alias the domain sentinels so callers
// can match with errors.Is without importing pkg/domain.
var (
	ErrConfigMissing = domain.ErrConfigMissing
	ErrUnknownState  = domain.ErrUnknownState
	ErrUnknownEvent  = domain.ErrUnknownEvent
)
