package mcp

import (
	"github.com/custodia-labs/timerdiv/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Solver searches configuration spaces.
	Solver driving.SolverService

	// Profile resolves timer profiles by name.
	Profile driving.ProfileService

	// Display renders the seven-segment table. Optional.
	Display driving.DisplayService
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
