package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in ~/.timerdiv/config.toml.

Keys:
  output.format    table or json
  history.enabled  record profile runs in the journal (true/false)
  history.limit    default number of runs listed by 'history'
  profiles.path    user profiles file (empty for the default)
  solver.tolerance relative error of ad-hoc searches without --tolerance`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Output]")
	cmd.Printf("  Format: %s\n", settings.Output.Format.Description())
	cmd.Println()

	cmd.Println("[History]")
	if settings.History.Enabled {
		cmd.Printf("  Enabled: yes\n")
	} else {
		cmd.Printf("  Enabled: no\n")
	}
	cmd.Printf("  Limit: %d\n", settings.History.Limit)
	cmd.Println()

	cmd.Println("[Profiles]")
	if settings.Profiles.Path == "" {
		cmd.Println("  Path: (default)")
	} else {
		cmd.Printf("  Path: %s\n", settings.Profiles.Path)
	}
	cmd.Println()

	cmd.Println("[Solver]")
	cmd.Printf("  Tolerance: %g\n", settings.Solver.Tolerance)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	var err error
	switch key {
	case "output.format":
		err = settingsService.SetOutputFormat(domain.OutputFormat(value))
	case "history.enabled":
		var enabled bool
		enabled, err = strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("history.enabled must be true or false: %w", domain.ErrInvalidInput)
		}
		err = settingsService.SetHistoryEnabled(enabled)
	case "history.limit":
		var limit int
		limit, err = strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("history.limit must be a positive integer: %w", domain.ErrInvalidInput)
		}
		err = settingsService.SetHistoryLimit(limit)
	case "profiles.path":
		err = settingsService.SetProfilesPath(value)
	case "solver.tolerance":
		var tolerance float64
		tolerance, err = strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("solver.tolerance must be a number: %w", domain.ErrInvalidInput)
		}
		err = settingsService.SetDefaultTolerance(tolerance)
	default:
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Reset(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}
