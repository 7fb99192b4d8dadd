// Package tui provides an interactive terminal user interface for timerdiv.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/timerdiv/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Solver searches the configuration space of a profile.
	Solver driving.SolverService

	// Profile lists and resolves timer profiles.
	Profile driving.ProfileService

	// Display renders the seven-segment digit table. Optional.
	Display driving.DisplayService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	solver driving.SolverService,
	profile driving.ProfileService,
	display driving.DisplayService,
) *Ports {
	return &Ports{
		Solver:  solver,
		Profile: profile,
		Display: display,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Solver == nil {
		return ErrMissingSolverService
	}
	if p.Profile == nil {
		return ErrMissingProfileService
	}
	return nil
}
