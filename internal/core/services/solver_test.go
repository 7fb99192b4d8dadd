package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/timerdiv/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/timerdiv/internal/core/domain"
)

func minuteTickSpace(sources ...domain.Freq) domain.SearchSpace {
	return domain.SearchSpace{
		Sources:     sources,
		Prescalers:  domain.PowersOfTwo(16),
		Postscalers: domain.Range(1, 16),
		CountMax:    65536,
		Target:      domain.FreqFromPeriod(60),
		Tolerance:   1e-8,
	}
}

func TestSolve_RejectsCountsBeyondRegister(t *testing.T) {
	space := domain.SearchSpace{
		Sources:     []domain.Freq{31000},
		Prescalers:  []int{1, 2, 4},
		Postscalers: []int{1},
		CountMax:    65536,
		Target:      domain.FreqFromPeriod(60),
		Tolerance:   1e-8,
	}

	assert.Empty(t, Solve(space))

	// The rejection must come from the range check, not from the tolerance.
	wantCounts := []int{1860000, 930000, 465000}
	for i, pre := range space.Prescalers {
		e := Evaluate(space, 31000, pre, 1)
		assert.Equal(t, domain.VerdictOutOfRange, e.Verdict, "prescaler %d", pre)
		assert.Equal(t, wantCounts[i], e.Count, "prescaler %d", pre)
	}
}

func TestSolve_MinuteTickFromFOSC(t *testing.T) {
	space := minuteTickSpace(8 * domain.MHz)

	// 8MHz * 60s = 4.8e8 = prescaler * postscaler * count. Only exact
	// factorisations can meet a 1e-8 tolerance with a 16-bit count, so
	// enumerate them with integer arithmetic.
	const ticks = 480_000_000
	var want []domain.Candidate
	for _, pre := range space.Prescalers {
		for _, post := range space.Postscalers {
			if ticks%(pre*post) != 0 {
				continue
			}
			count := ticks / (pre * post)
			if count >= space.CountMax {
				continue
			}
			want = append(want, domain.Candidate{
				Source:     8 * domain.MHz,
				Prescaler:  pre,
				Postscaler: post,
				Count:      count,
			})
		}
	}
	require.Len(t, want, 5)

	got := Solve(space)
	require.Len(t, got, len(want))

	stripped := make([]domain.Candidate, len(got))
	for i, c := range got {
		stripped[i] = withoutFrequency(c)
		assert.Less(t, math.Abs(c.RelativeError), space.Tolerance)
		assert.InEpsilon(t, float64(space.Target), float64(c.Actual), 1e-8)
	}
	if diff := cmp.Diff(want, stripped); diff != "" {
		t.Errorf("Solve() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, domain.Candidate{
		Source: 8 * domain.MHz, Prescaler: 2048, Postscaler: 15, Count: 15625,
	}, withoutFrequency(got[4]))

	// 256 needs 1875000 = post*count, impossible for post <= 16.
	for _, c := range got {
		assert.NotEqual(t, 256, c.Prescaler)
	}
}

func TestSolve_MinuteTickFromFOSCQuarter(t *testing.T) {
	got := Solve(minuteTickSpace(2 * domain.MHz))

	want := []domain.Candidate{
		{Source: 2 * domain.MHz, Prescaler: 128, Postscaler: 15, Count: 62500},
		{Source: 2 * domain.MHz, Prescaler: 256, Postscaler: 10, Count: 46875},
		{Source: 2 * domain.MHz, Prescaler: 256, Postscaler: 15, Count: 31250},
		{Source: 2 * domain.MHz, Prescaler: 512, Postscaler: 5, Count: 46875},
		{Source: 2 * domain.MHz, Prescaler: 512, Postscaler: 15, Count: 15625},
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i], withoutFrequency(got[i]))
		assert.Less(t, math.Abs(got[i].RelativeError), 1e-8)
	}
}

func TestSolve_BuiltinMinuteTick(t *testing.T) {
	profile := domain.BuiltinProfiles()[0]

	got := Solve(profile.SearchSpace())

	require.Len(t, got, 37)
	assert.Equal(t, domain.Candidate{
		Source: 31 * domain.KHz, Prescaler: 2, Postscaler: 15, Count: 62000,
	}, withoutFrequency(got[0]))

	var found bool
	for _, c := range got {
		if c.Source == 31*domain.KHz && c.Prescaler == 32 && c.Postscaler == 15 {
			found = true
			assert.Equal(t, 3875, c.Count)
		}
	}
	assert.True(t, found, "LFINTOSC / 32 / 15 should be admissible")
}

func TestSolve_BuiltinStrobeIsSingleStage(t *testing.T) {
	profile := domain.BuiltinProfiles()[1]

	got := Solve(profile.SearchSpace())

	type row struct {
		source domain.Freq
		pre    int
		count  int
	}
	want := []row{
		{31000, 1, 4}, {31000, 2, 2}, {31000, 4, 1},
		{32000, 1, 5}, {32000, 2, 2}, {32000, 4, 1},
		{500000, 1, 71}, {500000, 2, 36}, {500000, 4, 18}, {500000, 8, 9},
		{2000000, 1, 286}, {2000000, 2, 143}, {2000000, 4, 71}, {2000000, 8, 36},
		{8000000, 1, 1143}, {8000000, 2, 571}, {8000000, 4, 286}, {8000000, 8, 143},
	}
	require.Len(t, got, len(want))

	for i, w := range want {
		c := got[i]
		assert.Equal(t, w.source, c.Source, "row %d", i)
		assert.Equal(t, w.pre, c.Prescaler, "row %d", i)
		assert.Equal(t, 1, c.Postscaler, "row %d", i)
		assert.Equal(t, w.count, c.Count, "row %d", i)

		actual := float64(w.source) / float64(w.pre) / float64(w.count)
		assert.InDelta(t, actual, float64(c.Actual), 1e-9)
		assert.InDelta(t, actual/7000-1, c.RelativeError, 1e-12)
	}

	// LFINTOSC with prescaler 8 rounds to a single tick at 3875Hz: far off target.
	e := Evaluate(profile.SearchSpace(), 31000, 8, 1)
	assert.Equal(t, 1, e.Count)
	assert.Equal(t, domain.VerdictOutsideTolerance, e.Verdict)
}

func TestEvaluate_Boundaries(t *testing.T) {
	t.Run("count equal to register max is rejected", func(t *testing.T) {
		space := domain.SearchSpace{CountMax: 65536, Target: 1, Tolerance: 0.5}

		e := Evaluate(space, 65536, 1, 1)

		assert.Equal(t, domain.VerdictOutOfRange, e.Verdict)
		assert.Equal(t, 65536, e.Count)
	})

	t.Run("count one below register max is accepted", func(t *testing.T) {
		space := domain.SearchSpace{CountMax: 65536, Target: 1, Tolerance: 0.5}

		e := Evaluate(space, 65535, 1, 1)

		assert.Equal(t, domain.VerdictAccepted, e.Verdict)
		assert.Equal(t, 65535, e.Count)
		assert.Equal(t, 0.0, e.RelativeError)
	})

	t.Run("count of one is accepted", func(t *testing.T) {
		space := domain.SearchSpace{CountMax: 65536, Target: 7000, Tolerance: 0.01}

		e := Evaluate(space, 7000, 1, 1)

		assert.Equal(t, domain.VerdictAccepted, e.Verdict)
		assert.Equal(t, 1, e.Count)
		assert.Equal(t, domain.Freq(7000), e.Actual)
	})

	t.Run("zero count is rejected", func(t *testing.T) {
		space := domain.SearchSpace{CountMax: 65536, Target: 7000, Tolerance: 10}

		e := Evaluate(space, 31000, 16, 1)

		assert.Equal(t, domain.VerdictZeroCount, e.Verdict)
		assert.Equal(t, 0, e.Count)
		assert.Zero(t, e.Actual)
	})

	t.Run("tolerance is strict", func(t *testing.T) {
		// 5Hz through postscaler 2 is 2.5 ticks of a 1Hz target; rounding to 2
		// achieves 1.25Hz, an error of exactly 0.25.
		space := domain.SearchSpace{CountMax: 65536, Target: 1, Tolerance: 0.25}

		e := Evaluate(space, 5, 1, 2)

		assert.Equal(t, 2, e.Count)
		assert.Equal(t, 0.25, e.RelativeError)
		assert.Equal(t, domain.VerdictOutsideTolerance, e.Verdict)
		assert.True(t, Evaluate(space.WithTolerance(0.2500001), 5, 1, 2).Accepted())
	})
}

func TestEvaluate_RoundsHalfToEven(t *testing.T) {
	space := domain.SearchSpace{CountMax: 65536, Target: 2, Tolerance: 1}

	assert.Equal(t, 2, Evaluate(space, 5, 1, 1).Count, "2.5 rounds to 2")
	assert.Equal(t, 4, Evaluate(space, 7, 1, 1).Count, "3.5 rounds to 4")
	assert.Equal(t, 3, Evaluate(space, 5.2, 1, 1).Count, "2.6 rounds to 3")
}

func TestSolve_IffProperty(t *testing.T) {
	spaces := []domain.SearchSpace{
		domain.BuiltinProfiles()[0].SearchSpace(),
		domain.BuiltinProfiles()[1].SearchSpace(),
		domain.BuiltinProfiles()[1].SearchSpace().WithTolerance(0.01),
	}

	for _, space := range spaces {
		evaluations := Explain(space)
		require.Len(t, evaluations, space.Size())

		var accepted []domain.Candidate
		i := 0
		for _, source := range space.Sources {
			for _, pre := range space.Prescalers {
				for _, post := range space.Postscalers {
					e := evaluations[i]
					i++
					require.Equal(t, source, e.Source)
					require.Equal(t, pre, e.Prescaler)
					require.Equal(t, post, e.Postscaler)

					adjusted := float64(source) / float64(pre*post)
					count := math.RoundToEven(adjusted / float64(space.Target))
					admissible := count >= 1 && count < float64(space.CountMax) &&
						math.Abs(adjusted/count/float64(space.Target)-1) < space.Tolerance

					assert.Equal(t, admissible, e.Accepted(), "triple %v/%d/%d", source, pre, post)
					if e.Accepted() {
						accepted = append(accepted, e.Candidate)
					}
				}
			}
		}

		if diff := cmp.Diff(accepted, Solve(space), cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Solve() differs from accepted evaluations (-want +got):\n%s", diff)
		}
	}
}

func TestSolve_Deterministic(t *testing.T) {
	space := domain.BuiltinProfiles()[1].SearchSpace()

	first := Solve(space)
	second := Solve(space)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated Solve() differs (-first +second):\n%s", diff)
	}
}

func TestSolve_MonotonicInTolerance(t *testing.T) {
	base := domain.BuiltinProfiles()[1].SearchSpace()
	tolerances := []float64{0, 1e-4, 1e-3, 0.005, 0.01, 0.1, 0.2, 0.5}

	key := func(c domain.Candidate) [3]float64 {
		return [3]float64{float64(c.Source), float64(c.Prescaler), float64(c.Postscaler)}
	}

	for i := 1; i < len(tolerances); i++ {
		narrow := Solve(base.WithTolerance(tolerances[i-1]))
		wide := make(map[[3]float64]bool)
		for _, c := range Solve(base.WithTolerance(tolerances[i])) {
			wide[key(c)] = true
		}
		for _, c := range narrow {
			assert.True(t, wide[key(c)], "tolerance %g candidate %+v missing at %g",
				tolerances[i-1], c, tolerances[i])
		}
	}
}

func TestSolve_DoesNotMutateSpace(t *testing.T) {
	space := domain.BuiltinProfiles()[0].SearchSpace()
	before := domain.SearchSpace{
		Sources:     append([]domain.Freq(nil), space.Sources...),
		Prescalers:  append([]int(nil), space.Prescalers...),
		Postscalers: append([]int(nil), space.Postscalers...),
		CountMax:    space.CountMax,
		Target:      space.Target,
		Tolerance:   space.Tolerance,
	}

	first := Solve(space)
	second := Solve(space)

	assert.Equal(t, before, space)
	assert.Equal(t, first, second)
}

func TestSolve_NoDeduplication(t *testing.T) {
	space := domain.SearchSpace{
		Sources:     []domain.Freq{8 * domain.MHz, 8 * domain.MHz},
		Prescalers:  []int{1, 2},
		Postscalers: []int{2, 1},
		CountMax:    65536,
		Target:      7000,
		Tolerance:   0.0009,
	}

	got := Solve(space)

	// Per source: 1/2 and 2/1 both reach 571 ticks, 1/1 reaches 1143 and
	// 2/2 (286 ticks, err ~1e-3) misses the tolerance.
	require.Len(t, got, 6)
	assert.Equal(t, 1, got[0].Prescaler)
	assert.Equal(t, 2, got[0].Postscaler)
	assert.Equal(t, 1143, got[1].Count)
	assert.Equal(t, 2, got[2].Prescaler)
	assert.Equal(t, 1, got[2].Postscaler)
	assert.Equal(t, 571, got[0].Count)
	assert.Equal(t, got[0].Count, got[2].Count)
	assert.Equal(t, got[0].Actual, got[2].Actual)
	assert.Equal(t, got[0:3], got[3:6])
}

func TestSolve_DegenerateInputYieldsNothing(t *testing.T) {
	valid := domain.BuiltinProfiles()[1].SearchSpace()

	tests := []struct {
		name   string
		mutate func(*domain.SearchSpace)
	}{
		{name: "no sources", mutate: func(s *domain.SearchSpace) { s.Sources = nil }},
		{name: "empty prescalers", mutate: func(s *domain.SearchSpace) { s.Prescalers = nil }},
		{name: "empty postscalers", mutate: func(s *domain.SearchSpace) { s.Postscalers = []int{} }},
		{name: "zero source", mutate: func(s *domain.SearchSpace) { s.Sources = []domain.Freq{0} }},
		{name: "negative source", mutate: func(s *domain.SearchSpace) { s.Sources = []domain.Freq{-8e6} }},
		{name: "zero target", mutate: func(s *domain.SearchSpace) { s.Target = 0 }},
		{name: "negative target", mutate: func(s *domain.SearchSpace) { s.Target = -7000 }},
		{name: "negative tolerance", mutate: func(s *domain.SearchSpace) { s.Tolerance = -1 }},
		{name: "zero prescaler", mutate: func(s *domain.SearchSpace) { s.Prescalers = []int{0} }},
		{name: "zero register", mutate: func(s *domain.SearchSpace) { s.CountMax = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			space := valid
			tt.mutate(&space)

			got := Solve(space)

			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestSolve_ConcurrentInvocations(t *testing.T) {
	space := domain.BuiltinProfiles()[0].SearchSpace()
	want := Solve(space)

	var wg sync.WaitGroup
	results := make([][]domain.Candidate, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Solve(space)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func withoutFrequency(c domain.Candidate) domain.Candidate {
	c.Actual = 0
	c.RelativeError = 0
	return c
}

// ==================== SolverService ====================

func TestSolverService_Solve(t *testing.T) {
	svc := NewSolverService(nil, nil, nil)

	got, err := svc.Solve(context.Background(), domain.BuiltinProfiles()[1].SearchSpace())

	require.NoError(t, err)
	assert.Len(t, got, 18)
}

func TestSolverService_Solve_CancelledContext(t *testing.T) {
	svc := NewSolverService(nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Solve(ctx, domain.BuiltinProfiles()[1].SearchSpace())
	assert.ErrorIs(t, err, context.Canceled)

	_, err = svc.Explain(ctx, domain.BuiltinProfiles()[1].SearchSpace())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolverService_Explain(t *testing.T) {
	svc := NewSolverService(nil, nil, nil)
	space := domain.BuiltinProfiles()[1].SearchSpace()

	got, err := svc.Explain(context.Background(), space)

	require.NoError(t, err)
	assert.Len(t, got, space.Size())
}

func TestSolverService_SolveProfile_RecordsRun(t *testing.T) {
	ctx := context.Background()
	runs := memory.NewRunStore()
	svc := NewSolverService(NewProfileService(nil), NewSettingsService(memory.NewConfigStore()), runs)
	fixed := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	run, err := svc.SolveProfile(ctx, "tmr1")

	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "tmr1", run.Profile)
	assert.Equal(t, fixed, run.CreatedAt)
	assert.Len(t, run.Candidates, 18)
	assert.True(t, run.Space.SingleStage())

	stored, err := svc.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Candidates, stored.Candidates)

	history, err := svc.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, run.ID, history[0].ID)
}

func TestSolverService_History_DefaultLimit(t *testing.T) {
	ctx := context.Background()
	settings := NewSettingsService(memory.NewConfigStore())
	svc := NewSolverService(NewProfileService(nil), settings, memory.NewRunStore())
	for i := 0; i < 31; i++ {
		_, err := svc.SolveProfile(ctx, "tmr1")
		require.NoError(t, err)
	}

	tests := []struct {
		name    string
		setting int
		limit   int
		want    int
	}{
		{name: "zero uses default setting", limit: 0, want: 20},
		{name: "negative uses default setting", limit: -1, want: 20},
		{name: "zero uses stored setting", setting: 3, limit: 0, want: 3},
		{name: "explicit limit wins", setting: 3, limit: 25, want: 25},
		{name: "limit above journal size", limit: 100, want: 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, settings.Reset())
			if tt.setting > 0 {
				require.NoError(t, settings.SetHistoryLimit(tt.setting))
			}

			history, err := svc.History(ctx, tt.limit)

			require.NoError(t, err)
			assert.Len(t, history, tt.want)
		})
	}
}

func TestSolverService_History_NoSettings(t *testing.T) {
	ctx := context.Background()
	svc := NewSolverService(NewProfileService(nil), nil, memory.NewRunStore())
	for i := 0; i < 22; i++ {
		_, err := svc.SolveProfile(ctx, "tmr1")
		require.NoError(t, err)
	}

	history, err := svc.History(ctx, 0)

	require.NoError(t, err)
	assert.Len(t, history, domain.DefaultAppSettings().History.Limit)
}

func TestSolverService_SolveProfile_HistoryDisabled(t *testing.T) {
	ctx := context.Background()
	runs := memory.NewRunStore()
	settings := NewSettingsService(memory.NewConfigStore())
	require.NoError(t, settings.SetHistoryEnabled(false))
	svc := NewSolverService(NewProfileService(nil), settings, runs)

	run, err := svc.SolveProfile(ctx, "tmr0")

	require.NoError(t, err)
	assert.Len(t, run.Candidates, 37)

	history, err := svc.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSolverService_SolveProfile_NoRunStore(t *testing.T) {
	svc := NewSolverService(NewProfileService(nil), nil, nil)

	run, err := svc.SolveProfile(context.Background(), "tmr1")
	require.NoError(t, err)
	assert.NotEmpty(t, run.Candidates)

	history, err := svc.History(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = svc.GetRun(context.Background(), run.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSolverService_SolveProfile_UnknownProfile(t *testing.T) {
	svc := NewSolverService(NewProfileService(nil), nil, nil)

	_, err := svc.SolveProfile(context.Background(), "tmr9")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "tmr9")
}

func TestSolverService_SolveProfile_StoreFailureKeepsResult(t *testing.T) {
	svc := NewSolverService(NewProfileService(nil), nil, failingRunStore{})

	run, err := svc.SolveProfile(context.Background(), "tmr1")

	require.NoError(t, err)
	assert.Len(t, run.Candidates, 18)

	_, err = svc.History(context.Background(), 1)
	assert.Error(t, err)
}

func TestSolverService_GetRun_EmptyID(t *testing.T) {
	svc := NewSolverService(nil, nil, memory.NewRunStore())

	_, err := svc.GetRun(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type failingRunStore struct{}

func (failingRunStore) Save(context.Context, *domain.Run) error {
	return errors.New("disk full")
}

func (failingRunStore) Get(context.Context, string) (*domain.Run, error) {
	return nil, errors.New("disk full")
}

func (failingRunStore) List(context.Context, int) ([]domain.Run, error) {
	return nil, errors.New("disk full")
}
