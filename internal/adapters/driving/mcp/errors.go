// Package mcp provides an MCP (Model Context Protocol) server adapter for timerdiv.
// It lets AI assistants search timer configurations and read the built-in
// and user timer profiles.
package mcp

import "errors"

// ErrMissingSolverService is returned when the solver service is not provided.
var ErrMissingSolverService = errors.New("mcp: solver service is required")

// ErrMissingProfileService is returned when the profile service is not provided.
var ErrMissingProfileService = errors.New("mcp: profile service is required")
