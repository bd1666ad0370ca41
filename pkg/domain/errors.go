package domain

import "errors"

// ErrConfigMissing is returned when a machine is constructed without a configuration.
var ErrConfigMissing = errors.New("there is no config passed")

// ErrUnknownState is returned when a state change targets a state absent from the configuration.
var ErrUnknownState = errors.New("there is no such state in config")

// ErrUnknownEvent is returned when the active state has no transition for the triggered event.
var ErrUnknownEvent = errors.New("there is no such event in current state")

// ErrInvalidConfig is returned by strict validation and by definition loaders.
var ErrInvalidConfig = errors.New("invalid config")

// ErrInvalidSnapshot is returned when a snapshot breaks the history invariants.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrDefinitionNotFound is returned when a loader has no definition under the requested name.
var ErrDefinitionNotFound = errors.New("definition not found")
