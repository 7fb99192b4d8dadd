// Package cli provides the timerdiv command-line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/timerdiv/internal/core/ports/driving"
	"github.com/custodia-labs/timerdiv/internal/logger"
)

// version is overwritten at build time.
var version = "dev"

var (
	verbose   bool
	configDir string
)

// Services wired by SetServices or the bootstrap.
var (
	solverService   driving.SolverService
	profileService  driving.ProfileService
	displayService  driving.DisplayService
	settingsService driving.SettingsService
	watchProfiles   WatchFunc
)

// WatchFunc starts watching the user profiles file. The returned channel
// receives a value after every change and closes when ctx is done.
type WatchFunc func(ctx context.Context) (<-chan struct{}, error)

// Services groups the core services the commands drive.
type Services struct {
	Solver   driving.SolverService
	Profile  driving.ProfileService
	Display  driving.DisplayService
	Settings driving.SettingsService
	Watch    WatchFunc
}

// Bootstrap builds the services for a configuration directory (empty
// selects the default). The returned cleanup runs after the command exits.
type Bootstrap func(configDir string) (*Services, func() error, error)

var (
	bootstrap Bootstrap
	cleanup   func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "timerdiv",
	Short: "Find prescaler, postscaler and count settings for hardware timers",
	Long: `timerdiv searches every combination of clock source, prescaler and
postscaler for a hardware timer and lists the configurations whose output
frequency lands within tolerance of a target.

Timer profiles describe the hardware (tmr0 and tmr1 are built in; add your
own to ~/.timerdiv/profiles.toml). Ad-hoc searches can be given with flags.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"configuration directory (default $TIMERDIV_HOME or ~/.timerdiv)")
}

// setup enables logging and wires services on first use.
func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || solverService != nil {
		return nil
	}

	services, done, err := bootstrap(configDir)
	if err != nil {
		return err
	}
	SetServices(*services)
	cleanup = done
	return nil
}

// SetServices wires the core services into the commands.
func SetServices(s Services) {
	solverService = s.Solver
	profileService = s.Profile
	displayService = s.Display
	settingsService = s.Settings
	watchProfiles = s.Watch
}

// SetBootstrap registers the function that builds services before a
// command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command and releases any stores opened by the
// bootstrap.
func Execute() error {
	err := rootCmd.Execute()
	if cleanup != nil {
		err = errors.Join(err, cleanup())
		cleanup = nil
	}
	return err
}
