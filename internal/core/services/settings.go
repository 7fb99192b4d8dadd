package services

import (
	"fmt"
	"math"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
	"github.com/custodia-labs/timerdiv/internal/core/ports/driven"
	"github.com/custodia-labs/timerdiv/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyOutputFormat   = "output.format"
	keyHistoryEnabled = "history.enabled"
	keyHistoryLimit   = "history.limit"
	keyProfilesPath   = "profiles.path"
	keyTolerance      = "solver.tolerance"
)

var settingKeys = []string{keyOutputFormat, keyHistoryEnabled, keyHistoryLimit, keyProfilesPath, keyTolerance}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Output: domain.OutputSettings{
			Format: s.getOutputFormat(defaults.Output.Format),
		},
		History: domain.HistorySettings{
			Enabled: s.getBool(keyHistoryEnabled, defaults.History.Enabled),
			Limit:   s.getInt(keyHistoryLimit, defaults.History.Limit),
		},
		Profiles: domain.ProfileSettings{
			Path: s.configStore.GetString(keyProfilesPath), // No default - empty selects the config directory
		},
		Solver: domain.SolverSettings{
			Tolerance: s.getTolerance(defaults.Solver.Tolerance),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyOutputFormat, settings.Output.Format.String()); err != nil {
		return fmt.Errorf("save output format: %w", err)
	}
	if err := s.configStore.Set(keyHistoryEnabled, settings.History.Enabled); err != nil {
		return fmt.Errorf("save history enabled: %w", err)
	}
	if err := s.configStore.Set(keyHistoryLimit, settings.History.Limit); err != nil {
		return fmt.Errorf("save history limit: %w", err)
	}
	if err := s.configStore.Set(keyProfilesPath, settings.Profiles.Path); err != nil {
		return fmt.Errorf("save profiles path: %w", err)
	}
	if err := s.configStore.Set(keyTolerance, settings.Solver.Tolerance); err != nil {
		return fmt.Errorf("save solver tolerance: %w", err)
	}
	return nil
}

// SetOutputFormat updates the default output format.
func (s *SettingsService) SetOutputFormat(format domain.OutputFormat) error {
	if !format.IsValid() {
		return fmt.Errorf("invalid output format: %s: %w", format, domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Output.Format = format
	return s.Save(settings)
}

// SetHistoryEnabled toggles the run journal.
func (s *SettingsService) SetHistoryEnabled(enabled bool) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.History.Enabled = enabled
	return s.Save(settings)
}

// SetHistoryLimit sets the number of runs listed by default.
func (s *SettingsService) SetHistoryLimit(limit int) error {
	if limit < 1 {
		return fmt.Errorf("invalid history limit: %d: %w", limit, domain.ErrInvalidInput)
	}
	return s.configStore.Set(keyHistoryLimit, limit)
}

// SetProfilesPath sets the user profiles file.
func (s *SettingsService) SetProfilesPath(path string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Profiles.Path = path
	return s.Save(settings)
}

// SetDefaultTolerance sets the tolerance of ad-hoc searches.
func (s *SettingsService) SetDefaultTolerance(tolerance float64) error {
	if tolerance < 0 || math.IsNaN(tolerance) || math.IsInf(tolerance, 0) {
		return fmt.Errorf("invalid tolerance: %g: %w", tolerance, domain.ErrInvalidInput)
	}
	return s.configStore.Set(keyTolerance, tolerance)
}

// Reset removes every stored setting.
func (s *SettingsService) Reset() error {
	for _, key := range settingKeys {
		if err := s.configStore.Unset(key); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// getTolerance accepts zero, which makes ad-hoc searches exact.
func (s *SettingsService) getTolerance(defaultVal float64) float64 {
	if _, exists := s.configStore.Get(keyTolerance); !exists {
		return defaultVal
	}
	v := s.configStore.GetFloat(keyTolerance)
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return defaultVal
	}
	return v
}

func (s *SettingsService) getOutputFormat(defaultVal domain.OutputFormat) domain.OutputFormat {
	val := s.configStore.GetString(keyOutputFormat)
	if val == "" {
		return defaultVal
	}
	format := domain.OutputFormat(val)
	if !format.IsValid() {
		return defaultVal
	}
	return format
}
