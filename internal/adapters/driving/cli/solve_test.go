package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/timerdiv/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/timerdiv/internal/core/domain"
	"github.com/custodia-labs/timerdiv/internal/core/ports/driving"
	"github.com/custodia-labs/timerdiv/internal/core/services"
)

// countingProfiles records how often a profile is looked up.
type countingProfiles struct {
	driving.ProfileService
	gets int
}

func (c *countingProfiles) Get(ctx context.Context, name string) (*domain.TimerProfile, error) {
	c.gets++
	return c.ProfileService.Get(ctx, name)
}

func TestSolveCmd_Use(t *testing.T) {
	assert.Equal(t, "solve [profile]", solveCmd.Use)
}

func TestSolveCmd_HasFlags(t *testing.T) {
	for _, name := range []string{"source", "prescalers", "count-bits", "target", "tolerance", "json", "watch"} {
		assert.NotNil(t, solveCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "16", solveCmd.Flags().Lookup("count-bits").DefValue)
	assert.Equal(t, "w", solveCmd.Flags().Lookup("watch").Shorthand)
}

func TestSolveCmd_NoServices(t *testing.T) {
	_, err := execute(t, "solve", "tmr0")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "solver service not configured")
}

func TestSolveCmd_BuiltinProfile(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "solve", "tmr1")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 19)
	assert.Equal(t, "  f_source\t pre\ttimer\t     err", lines[0])
	assert.Equal(t, "     31000\t   1\t    4\t 1.1e-01", lines[1])

	// Named profiles are journalled.
	runs, err := env.solver.History(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "tmr1", runs[0].Profile)
}

func TestSolveCmd_NamedProfileLookedUpOnce(t *testing.T) {
	profiles := &countingProfiles{ProfileService: services.NewProfileService(memory.NewProfileStore())}
	SetServices(Services{
		Solver:  services.NewSolverService(profiles, nil, memory.NewRunStore()),
		Profile: profiles,
	})
	t.Cleanup(func() { SetServices(Services{}) })

	out, err := execute(t, "solve", "tmr1")

	require.NoError(t, err)
	assert.Equal(t, 1, profiles.gets)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 19)
	assert.Equal(t, "  f_source\t pre\ttimer\t     err", lines[0])
}

func TestSolveCmd_TwoStageHeader(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "solve", "tmr0")

	require.NoError(t, err)
	assert.Contains(t, out, "  f_source\t pre\t post\ttimer\t     err\n")
}

func TestSolveCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "solve", "tmr0", "--json")

	require.NoError(t, err)
	var candidates []domain.Candidate
	require.NoError(t, json.Unmarshal([]byte(out), &candidates))
	assert.Len(t, candidates, 37)
	for _, c := range candidates {
		assert.Less(t, c.Count, 65536)
		assert.GreaterOrEqual(t, c.Count, 1)
	}
}

func TestSolveCmd_JSONFromSettings(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, env.settings.SetOutputFormat(domain.OutputJSON))

	out, err := execute(t, "solve", "tmr1")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "["))
}

func TestSolveCmd_AdHoc(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "solve",
		"-s", "FOSC=16MHz", "--prescalers", "1,8,64,256,1024",
		"--count-bits", "8", "-t", "1kHz", "--tolerance", "0.005")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "  16000000\t  64\t  250\t 0.0e+00", lines[1])

	// Ad-hoc timers are not journalled.
	runs, err := env.solver.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSolveCmd_AdHocPeriod(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "solve",
		"-s", "31kHz", "--prescaler-bits", "16", "--postscaler-max", "16",
		"--period", "60", "--tolerance", "1e-8", "--json")

	require.NoError(t, err)
	var candidates []domain.Candidate
	require.NoError(t, json.Unmarshal([]byte(out), &candidates))
	require.NotEmpty(t, candidates)
	assert.Equal(t, domain.Freq(31000), candidates[0].Source)
}

func TestSolveCmd_ToleranceOverride(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "solve", "tmr1", "--tolerance", "0.001")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Less(t, len(lines), 19)

	runs, err := env.solver.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSolveCmd_AdHocToleranceFromSettings(t *testing.T) {
	env := setupTestServices(t)
	args := []string{"solve", "-s", "FOSC=16MHz", "--prescalers", "1,8,64,256,1024",
		"--count-bits", "8", "-t", "1.1kHz"}

	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, "No admissible configuration.\n", out)

	require.NoError(t, env.settings.SetDefaultTolerance(0.005))
	out, err = execute(t, args...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "  16000000\t  64\t  227\t"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "  16000000\t 256\t   57\t"), lines[2])
}

func TestSolveCmd_NoAdmissible(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "solve", "-s", "1000", "-t", "3", "--tolerance", "1e-9")

	require.NoError(t, err)
	assert.Equal(t, "No admissible configuration.\n", out)
}

func TestSolveCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "nothing to solve",
			args:    []string{"solve"},
			wantErr: "specify a profile name",
		},
		{
			name:    "profile with timer flags",
			args:    []string{"solve", "tmr0", "-s", "8MHz"},
			wantErr: "cannot be combined",
		},
		{
			name:    "unknown profile",
			args:    []string{"solve", "tmr9"},
			wantErr: "tmr9",
		},
		{
			name:    "missing target",
			args:    []string{"solve", "-s", "8MHz"},
			wantErr: "--target or --period is required",
		},
		{
			name:    "bad source",
			args:    []string{"solve", "-s", "fast", "-t", "1kHz"},
			wantErr: "--source",
		},
		{
			name:    "zero prescaler",
			args:    []string{"solve", "-s", "8MHz", "-t", "1kHz", "--prescalers", "0"},
			wantErr: "prescaler",
		},
		{
			name:    "too many args",
			args:    []string{"solve", "tmr0", "tmr1"},
			wantErr: "accepts at most 1 arg(s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t)

			_, err := execute(t, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSolveCmd_Watch(t *testing.T) {
	setupTestServices(t)
	watchProfiles = func(_ context.Context) (<-chan struct{}, error) {
		ch := make(chan struct{}, 1)
		ch <- struct{}{}
		close(ch)
		return ch, nil
	}

	out, err := execute(t, "solve", "tmr1", "--watch")

	require.NoError(t, err)
	assert.Contains(t, out, "profiles changed")
	assert.Equal(t, 2, strings.Count(out, "f_source"))
}

func TestSolveCmd_WatchErrors(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "solve", "tmr1", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile watching not configured")

	_, err = execute(t, "solve", "-s", "8MHz", "-t", "1kHz", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--watch requires a profile name")
}
