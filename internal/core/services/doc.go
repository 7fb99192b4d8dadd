// Package services implements the driving port interfaces.
// Services contain the core logic and orchestrate calls to
// driven ports (adapters).
//
// The divider search itself lives here as the pure functions Solve,
// Explain and Evaluate; SolverService wraps them with profile lookup
// and the run journal.
package services
