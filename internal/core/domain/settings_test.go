package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputFormat_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		format   OutputFormat
		expected bool
	}{
		{name: "table is valid", format: OutputTable, expected: true},
		{name: "json is valid", format: OutputJSON, expected: true},
		{name: "empty string is invalid", format: OutputFormat(""), expected: false},
		{name: "csv is invalid", format: OutputFormat("csv"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.format.IsValid())
		})
	}
}

func TestOutputFormat_Description(t *testing.T) {
	assert.Equal(t, "JSON", OutputJSON.Description())
	assert.Contains(t, OutputTable.Description(), "Table")
	assert.Equal(t, "Unknown", OutputFormat("xml").Description())
}

func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	assert.Equal(t, OutputTable, settings.Output.Format)
	assert.True(t, settings.History.Enabled)
	assert.Equal(t, 20, settings.History.Limit)
	assert.Empty(t, settings.Profiles.Path)
	assert.Equal(t, 1e-6, settings.Solver.Tolerance)
}
