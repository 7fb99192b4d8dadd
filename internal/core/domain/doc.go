// Package domain defines the core entities for timerdiv.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SearchSpace: The immutable description of one solving run
//   - Candidate: One admissible prescaler/postscaler/count chain
//   - TimerProfile: A named hardware timer channel and its search space
//   - Run: A recorded solving run for the history journal
//   - Glyph: A seven-segment digit pattern
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
