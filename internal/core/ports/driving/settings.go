package driving

import "github.com/custodia-labs/timerdiv/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetOutputFormat updates the default output format.
	SetOutputFormat(format domain.OutputFormat) error

	// SetHistoryEnabled toggles the run journal.
	SetHistoryEnabled(enabled bool) error

	// SetHistoryLimit sets the number of runs listed by default. It must
	// be at least 1.
	SetHistoryLimit(limit int) error

	// SetProfilesPath sets the user profiles file.
	SetProfilesPath(path string) error

	// SetDefaultTolerance sets the tolerance of ad-hoc searches.
	// It must be a finite number that is not negative.
	SetDefaultTolerance(tolerance float64) error

	// Reset removes every stored setting so the defaults apply.
	Reset() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
