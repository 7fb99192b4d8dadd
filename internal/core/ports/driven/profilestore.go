package driven

import (
	"context"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
)

// ProfileStore persists user timer profiles.
type ProfileStore interface {
	// Save stores or replaces a profile by name.
	Save(ctx context.Context, profile domain.TimerProfile) error

	// Get retrieves a profile by name.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, name string) (*domain.TimerProfile, error)

	// Delete removes a profile.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, name string) error

	// List returns all stored profiles in storage order.
	List(ctx context.Context) ([]domain.TimerProfile, error)
}
