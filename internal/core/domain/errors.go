package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidParameter indicates a search space that cannot describe real hardware:
	// a non-positive frequency, an empty divisor domain or a negative tolerance.
	// The solver itself never returns it; it is raised by validation at the edges.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrReadOnly indicates an attempt to modify a built-in timer profile.
	ErrReadOnly = errors.New("read only")
)
