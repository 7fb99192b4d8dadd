package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
	"github.com/custodia-labs/timerdiv/internal/core/ports/driven"
)

// Ensure ProfileStore implements the interface.
var _ driven.ProfileStore = (*ProfileStore)(nil)

// ProfileStore is an in-memory implementation of driven.ProfileStore.
// It keeps insertion order so listings are deterministic.
type ProfileStore struct {
	mu       sync.RWMutex
	order    []string
	profiles map[string]domain.TimerProfile
}

// NewProfileStore creates a new in-memory profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[string]domain.TimerProfile),
	}
}

// Save stores or replaces a profile.
func (s *ProfileStore) Save(_ context.Context, profile domain.TimerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profile.Name]; !ok {
		s.order = append(s.order, profile.Name)
	}
	s.profiles[profile.Name] = profile
	return nil
}

// Get retrieves a profile by name.
func (s *ProfileStore) Get(_ context.Context, name string) (*domain.TimerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &profile, nil
}

// Delete removes a profile.
func (s *ProfileStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[name]; !ok {
		return domain.ErrNotFound
	}
	delete(s.profiles, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns all profiles in insertion order.
func (s *ProfileStore) List(_ context.Context) ([]domain.TimerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profiles := make([]domain.TimerProfile, 0, len(s.order))
	for _, name := range s.order {
		profiles = append(profiles, s.profiles[name])
	}
	return profiles, nil
}
