package driving

import (
	"context"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
)

// SolverService searches timer configuration spaces.
type SolverService interface {
	// Solve returns every admissible candidate of the space in enumeration order.
	// An empty result means no configuration meets the tolerance.
	Solve(ctx context.Context, space domain.SearchSpace) ([]domain.Candidate, error)

	// Explain evaluates every triple of the space, admissible or not.
	Explain(ctx context.Context, space domain.SearchSpace) ([]domain.Evaluation, error)

	// SolveProfile solves the named profile and records the run when
	// history is enabled.
	SolveProfile(ctx context.Context, name string) (*domain.Run, error)

	// History returns the most recent runs, newest first. A limit of 0
	// or less uses the history.limit setting.
	History(ctx context.Context, limit int) ([]domain.Run, error)

	// GetRun retrieves a recorded run by ID.
	GetRun(ctx context.Context, id string) (*domain.Run, error)
}
