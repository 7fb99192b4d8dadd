package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
	"github.com/custodia-labs/timerdiv/internal/core/ports/driven"
	"github.com/custodia-labs/timerdiv/internal/core/ports/driving"
	"github.com/custodia-labs/timerdiv/internal/logger"
)

// Ensure SolverService implements the interface.
var _ driving.SolverService = (*SolverService)(nil)

// maxExactCount is the largest float64 that still converts to int exactly.
const maxExactCount = 1 << 53

// Evaluate computes the best-fit integer count for one divisor triple and
// judges it against the register range and the tolerance.
//
// The count is rounded half to even. It is admissible iff
// 1 <= count < space.CountMax, and the triple is accepted iff the achieved
// relative error is strictly inside the tolerance. Degenerate input
// (non-positive or non-finite values) is rejected rather than reported.
func Evaluate(space domain.SearchSpace, source domain.Freq, prescaler, postscaler int) domain.Evaluation {
	e := domain.Evaluation{
		Candidate: domain.Candidate{
			Source:     source,
			Prescaler:  prescaler,
			Postscaler: postscaler,
		},
	}

	adjusted := float64(source) / (float64(prescaler) * float64(postscaler))
	count := math.RoundToEven(adjusted / float64(space.Target))
	if count >= 0 && count < maxExactCount {
		e.Count = int(count)
	}

	switch {
	case !(count >= 1):
		e.Verdict = domain.VerdictZeroCount
		return e
	case count >= float64(space.CountMax):
		e.Verdict = domain.VerdictOutOfRange
		return e
	}

	actual := adjusted / count
	e.Actual = domain.Freq(actual)
	e.RelativeError = actual/float64(space.Target) - 1

	if math.Abs(e.RelativeError) < space.Tolerance {
		e.Verdict = domain.VerdictAccepted
	} else {
		e.Verdict = domain.VerdictOutsideTolerance
	}
	return e
}

// Explain evaluates every triple of the space, source-major, then
// prescaler, then postscaler.
func Explain(space domain.SearchSpace) []domain.Evaluation {
	out := make([]domain.Evaluation, 0, space.Size())
	for _, source := range space.Sources {
		for _, pre := range space.Prescalers {
			for _, post := range space.Postscalers {
				out = append(out, Evaluate(space, source, pre, post))
			}
		}
	}
	return out
}

// Solve returns every admissible candidate of the space in enumeration
// order. It never fails: a space with no admissible triple, including a
// malformed one, yields an empty slice. Distinct triples reaching the same
// count and frequency are all reported.
func Solve(space domain.SearchSpace) []domain.Candidate {
	out := make([]domain.Candidate, 0)
	for _, source := range space.Sources {
		for _, pre := range space.Prescalers {
			for _, post := range space.Postscalers {
				if e := Evaluate(space, source, pre, post); e.Accepted() {
					out = append(out, e.Candidate)
				}
			}
		}
	}
	return out
}

// SolverService runs the solver against profiles and keeps the run journal.
type SolverService struct {
	profiles driving.ProfileService
	settings driving.SettingsService
	runStore driven.RunStore
	now      func() time.Time
}

// NewSolverService creates a new solver service.
// runStore may be nil, in which case runs are never recorded.
func NewSolverService(
	profiles driving.ProfileService,
	settings driving.SettingsService,
	runStore driven.RunStore,
) *SolverService {
	return &SolverService{
		profiles: profiles,
		settings: settings,
		runStore: runStore,
		now:      time.Now,
	}
}

// Solve returns every admissible candidate of the space.
func (s *SolverService) Solve(ctx context.Context, space domain.SearchSpace) ([]domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Section("Solve")
	logger.Debug("Space: %d sources x %d prescalers x %d postscalers, target %s, tolerance %g",
		len(space.Sources), len(space.Prescalers), len(space.Postscalers), space.Target, space.Tolerance)

	candidates := Solve(space)

	logger.Info("%d of %d triples admissible", len(candidates), space.Size())
	return candidates, nil
}

// Explain evaluates every triple of the space.
func (s *SolverService) Explain(ctx context.Context, space domain.SearchSpace) ([]domain.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Explain(space), nil
}

// SolveProfile solves the named profile.
func (s *SolverService) SolveProfile(ctx context.Context, name string) (*domain.Run, error) {
	if s.profiles == nil {
		return nil, fmt.Errorf("profile service not configured: %w", domain.ErrNotFound)
	}

	profile, err := s.profiles.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get profile %q: %w", name, err)
	}

	space := profile.SearchSpace()
	candidates, err := s.Solve(ctx, space)
	if err != nil {
		return nil, err
	}

	run := &domain.Run{
		ID:         uuid.NewString(),
		Profile:    profile.Name,
		Space:      space,
		Candidates: candidates,
		CreatedAt:  s.now().UTC(),
	}

	if s.historyEnabled() {
		if err := s.runStore.Save(ctx, run); err != nil {
			// The result is still valid without a journal entry.
			logger.Warn("Failed to record run %s: %v", run.ID, err)
		} else {
			logger.Debug("Recorded run %s", run.ID)
		}
	}

	return run, nil
}

// History returns the most recent runs, newest first. A limit of 0 or
// less falls back to the history.limit setting.
func (s *SolverService) History(ctx context.Context, limit int) ([]domain.Run, error) {
	if s.runStore == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = s.historyLimit()
	}
	runs, err := s.runStore.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun retrieves a recorded run by ID.
func (s *SolverService) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.runStore == nil {
		return nil, domain.ErrNotFound
	}
	return s.runStore.Get(ctx, id)
}

func (s *SolverService) historyLimit() int {
	defaults := domain.DefaultAppSettings().History.Limit
	if s.settings == nil {
		return defaults
	}
	settings, err := s.settings.Get()
	if err != nil {
		logger.Warn("Failed to read settings: %v", err)
		return defaults
	}
	return settings.History.Limit
}

func (s *SolverService) historyEnabled() bool {
	if s.runStore == nil {
		return false
	}
	if s.settings == nil {
		return domain.DefaultAppSettings().History.Enabled
	}
	settings, err := s.settings.Get()
	if err != nil {
		logger.Warn("Failed to read settings: %v", err)
		return false
	}
	return settings.History.Enabled
}
