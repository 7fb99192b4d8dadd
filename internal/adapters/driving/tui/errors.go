package tui

import "errors"

// ErrMissingSolverService is returned when the solver service is not provided.
var ErrMissingSolverService = errors.New("tui: solver service is required")

// ErrMissingProfileService is returned when the profile service is not provided.
var ErrMissingProfileService = errors.New("tui: profile service is required")
