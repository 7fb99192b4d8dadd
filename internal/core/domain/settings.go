package domain

const unknownDescription = "Unknown"

// OutputFormat selects how candidate tables are printed.
type OutputFormat string

// Available output formats.
const (
	// OutputTable prints tab-separated columns.
	OutputTable OutputFormat = "table"

	// OutputJSON prints an indented JSON array.
	OutputJSON OutputFormat = "json"
)

// IsValid returns true if the output format is recognised.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputTable, OutputJSON:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f OutputFormat) String() string {
	return string(f)
}

// Description returns a human-readable description of the format.
func (f OutputFormat) Description() string {
	switch f {
	case OutputTable:
		return "Table (tab-separated columns)"
	case OutputJSON:
		return "JSON"
	default:
		return unknownDescription
	}
}

// AppSettings holds all application settings.
type AppSettings struct {
	Output   OutputSettings
	History  HistorySettings
	Profiles ProfileSettings
	Solver   SolverSettings
}

// OutputSettings configures result presentation.
type OutputSettings struct {
	Format OutputFormat
}

// HistorySettings configures the run journal.
type HistorySettings struct {
	// Enabled records every profile run to the journal.
	Enabled bool

	// Limit is the default number of runs listed.
	Limit int
}

// ProfileSettings configures where user timer profiles are read from.
type ProfileSettings struct {
	// Path is the profiles TOML file. Empty means the default location.
	Path string
}

// SolverSettings configures ad-hoc searches.
type SolverSettings struct {
	// Tolerance is the relative error allowed when no tolerance is given.
	// Profiles carry their own.
	Tolerance float64
}

// DefaultTolerance is the relative error allowed by default in ad-hoc searches.
const DefaultTolerance = 1e-6

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Output: OutputSettings{
			Format: OutputTable,
		},
		History: HistorySettings{
			Enabled: true,
			Limit:   20,
		},
		Solver: SolverSettings{
			Tolerance: DefaultTolerance,
		},
	}
}
