package service

import "errors"

// Errors shared by the service and its storage managers. Validation errors
// come from the engine package (engine.ErrOutOfBounds and friends).
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrInvalidScenario  = errors.New("invalid scenario")
	ErrNoVehicles       = errors.New("no vehicles added to simulation")
)
