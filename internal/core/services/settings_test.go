package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/timerdiv/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/timerdiv/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("output.format", "json")
	_ = store.Set("history.enabled", false)
	_ = store.Set("history.limit", int64(5))
	_ = store.Set("profiles.path", "/tmp/profiles.toml")
	_ = store.Set("solver.tolerance", int64(0))

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.OutputJSON, settings.Output.Format)
	assert.False(t, settings.History.Enabled)
	assert.Equal(t, 5, settings.History.Limit)
	assert.Equal(t, "/tmp/profiles.toml", settings.Profiles.Path)
	assert.Equal(t, 0.0, settings.Solver.Tolerance)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("output.format", "xml")
	_ = store.Set("history.limit", -3)
	_ = store.Set("solver.tolerance", -0.5)

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.OutputTable, settings.Output.Format)
	assert.Equal(t, 20, settings.History.Limit)
	assert.Equal(t, domain.DefaultTolerance, settings.Solver.Tolerance)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	in := &domain.AppSettings{
		Output:   domain.OutputSettings{Format: domain.OutputJSON},
		History:  domain.HistorySettings{Enabled: false, Limit: 3},
		Profiles: domain.ProfileSettings{Path: "boards.toml"},
		Solver:   domain.SolverSettings{Tolerance: 0.01},
	}
	require.NoError(t, service.Save(in))

	out, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSettingsService_Setters(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	require.NoError(t, service.SetOutputFormat(domain.OutputJSON))
	require.NoError(t, service.SetHistoryEnabled(false))
	require.NoError(t, service.SetProfilesPath("/etc/timers.toml"))
	require.NoError(t, service.SetDefaultTolerance(0.02))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.OutputJSON, settings.Output.Format)
	assert.False(t, settings.History.Enabled)
	assert.Equal(t, "/etc/timers.toml", settings.Profiles.Path)
	assert.Equal(t, 0.02, settings.Solver.Tolerance)

	err = service.SetOutputFormat("yaml")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	err = service.SetDefaultTolerance(-1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_SetHistoryLimit(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetHistoryLimit(5))
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, settings.History.Limit)

	for _, limit := range []int{0, -2} {
		err := service.SetHistoryLimit(limit)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "limit=%d", limit)
	}
	assert.Equal(t, 5, store.GetInt("history.limit"), "rejected values are not stored")
}

func TestSettingsService_Reset(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)
	require.NoError(t, service.SetOutputFormat(domain.OutputJSON))
	require.NoError(t, service.SetDefaultTolerance(0.5))
	require.NoError(t, store.Set("user.note", "kept"))

	require.NoError(t, service.Reset())

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
	_, ok := store.Get("output.format")
	assert.False(t, ok)
	assert.Equal(t, "kept", store.GetString("user.note"))
}

func TestSettingsService_GetDefaults(t *testing.T) {
	assert.Equal(t, domain.DefaultAppSettings(), NewSettingsService(memory.NewConfigStore()).GetDefaults())
}
