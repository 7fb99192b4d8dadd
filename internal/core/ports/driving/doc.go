// Package driving defines the interfaces the CLI, TUI and MCP server use
// to reach the core: solving, timer profiles, the seven-segment digit
// table and settings.
//
// Implementations live in internal/core/services. Adapters depend only on
// these interfaces so that tests can substitute mocks.
package driving
