package driven

import (
	"context"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
)

// RunStore is the journal of solving runs.
type RunStore interface {
	// Save records a run.
	Save(ctx context.Context, run *domain.Run) error

	// Get retrieves a run by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Run, error)

	// List returns up to limit runs, newest first. A non-positive limit
	// returns every run.
	List(ctx context.Context, limit int) ([]domain.Run, error)
}
