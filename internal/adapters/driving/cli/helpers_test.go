package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/timerdiv/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/timerdiv/internal/core/services"
)

// testEnv holds the services wired by setupTestServices.
type testEnv struct {
	solver   *services.SolverService
	profiles *services.ProfileService
	settings *services.SettingsService
}

// setupTestServices wires real services over in-memory stores and
// restores the package state when the test ends.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	settings := services.NewSettingsService(memory.NewConfigStore())
	profiles := services.NewProfileService(memory.NewProfileStore())
	solver := services.NewSolverService(profiles, settings, memory.NewRunStore())

	SetServices(Services{
		Solver:   solver,
		Profile:  profiles,
		Display:  services.NewDisplayService(nil),
		Settings: settings,
	})
	t.Cleanup(func() {
		SetServices(Services{})
	})

	return &testEnv{solver: solver, profiles: profiles, settings: settings}
}

// execute runs the root command with args and returns everything printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// in package variables between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
