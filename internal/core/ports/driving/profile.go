package driving

import (
	"context"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
)

// ProfileService manages timer profiles.
type ProfileService interface {
	// List returns built-in and user profiles ordered by name.
	List(ctx context.Context) ([]domain.TimerProfile, error)

	// Get retrieves a profile by name.
	Get(ctx context.Context, name string) (*domain.TimerProfile, error)

	// Add validates and stores a user profile.
	Add(ctx context.Context, profile domain.TimerProfile) error

	// Remove deletes a user profile. Built-in profiles cannot be removed.
	Remove(ctx context.Context, name string) error
}
