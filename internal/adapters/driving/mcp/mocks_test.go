package mcp

import (
	"context"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
	"github.com/custodia-labs/timerdiv/internal/core/ports/driving"
	"github.com/custodia-labs/timerdiv/internal/core/services"
)

var _ driving.SolverService = (*mockSolverService)(nil)

// mockSolverService is a mock implementation of driving.SolverService.
type mockSolverService struct {
	candidates []domain.Candidate
	err        error
}

func (m *mockSolverService) Solve(_ context.Context, _ domain.SearchSpace) ([]domain.Candidate, error) {
	return m.candidates, m.err
}

func (m *mockSolverService) Explain(_ context.Context, _ domain.SearchSpace) ([]domain.Evaluation, error) {
	return nil, m.err
}

func (m *mockSolverService) SolveProfile(_ context.Context, name string) (*domain.Run, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Run{ID: "run-1", Profile: name, Candidates: m.candidates}, nil
}

func (m *mockSolverService) History(_ context.Context, _ int) ([]domain.Run, error) {
	return nil, m.err
}

func (m *mockSolverService) GetRun(_ context.Context, _ string) (*domain.Run, error) {
	return nil, m.err
}

var _ driving.ProfileService = (*mockProfileService)(nil)

// mockProfileService is a mock implementation of driving.ProfileService.
type mockProfileService struct {
	profiles []domain.TimerProfile
	err      error
}

func (m *mockProfileService) List(_ context.Context) ([]domain.TimerProfile, error) {
	return m.profiles, m.err
}

func (m *mockProfileService) Get(_ context.Context, name string) (*domain.TimerProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.profiles {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockProfileService) Add(_ context.Context, _ domain.TimerProfile) error {
	return m.err
}

func (m *mockProfileService) Remove(_ context.Context, _ string) error {
	return m.err
}

// realPorts wires the core services with built-in profiles only.
func realPorts() *Ports {
	profiles := services.NewProfileService(nil)
	return &Ports{
		Solver:  services.NewSolverService(profiles, nil, nil),
		Profile: profiles,
		Display: services.NewDisplayService(nil),
	}
}
