package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
	"github.com/custodia-labs/timerdiv/internal/core/ports/driven"
	"github.com/custodia-labs/timerdiv/internal/core/ports/driving"
	"github.com/custodia-labs/timerdiv/internal/logger"
)

// Ensure ProfileService implements the interface.
var _ driving.ProfileService = (*ProfileService)(nil)

// ProfileService serves the built-in timer profiles together with the
// user's own. A user profile shadows a built-in of the same name.
type ProfileService struct {
	store driven.ProfileStore
}

// NewProfileService creates a new profile service.
// store may be nil, in which case only built-in profiles are available.
func NewProfileService(store driven.ProfileStore) *ProfileService {
	return &ProfileService{store: store}
}

// List returns built-in and user profiles ordered by name.
func (s *ProfileService) List(ctx context.Context) ([]domain.TimerProfile, error) {
	byName := make(map[string]domain.TimerProfile)
	for _, p := range domain.BuiltinProfiles() {
		byName[p.Name] = p
	}

	if s.store != nil {
		stored, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}
		for _, p := range stored {
			p.Builtin = false
			if err := p.Validate(); err != nil {
				logger.Warn("Profile %q cannot be solved: %v", p.Name, err)
			}
			byName[p.Name] = p
		}
	}

	profiles := make([]domain.TimerProfile, 0, len(byName))
	for _, p := range byName {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

// Get retrieves a profile by name, preferring the user's copy. A stored
// profile that does not describe a solvable timer is an error wrapping
// ErrInvalidParameter.
func (s *ProfileService) Get(ctx context.Context, name string) (*domain.TimerProfile, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	if s.store != nil {
		p, err := s.store.Get(ctx, name)
		switch {
		case err == nil:
			p.Builtin = false
			if err := p.SearchSpace().Validate(); err != nil {
				return nil, fmt.Errorf("profile %q: %w", name, err)
			}
			return p, nil
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	for _, p := range domain.BuiltinProfiles() {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Add validates and stores a user profile.
func (s *ProfileService) Add(ctx context.Context, profile domain.TimerProfile) error {
	if s.store == nil {
		return domain.ErrReadOnly
	}
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("profile %q: %w", profile.Name, err)
	}

	existing, err := s.store.Get(ctx, profile.Name)
	if err == nil && existing != nil {
		return domain.ErrAlreadyExists
	}

	profile.Builtin = false
	return s.store.Save(ctx, profile)
}

// Remove deletes a user profile.
func (s *ProfileService) Remove(ctx context.Context, name string) error {
	if name == "" {
		return domain.ErrInvalidInput
	}
	if s.store == nil {
		return domain.ErrReadOnly
	}

	err := s.store.Delete(ctx, name)
	if errors.Is(err, domain.ErrNotFound) && isBuiltin(name) {
		return fmt.Errorf("profile %q is built in: %w", name, domain.ErrReadOnly)
	}
	return err
}

func isBuiltin(name string) bool {
	for _, p := range domain.BuiltinProfiles() {
		if p.Name == name {
			return true
		}
	}
	return false
}
