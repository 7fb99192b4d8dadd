package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
)

var (
	solveFlags spaceFlags
	solveJSON  bool
	solveWatch bool
)

var solveCmd = &cobra.Command{
	Use:   "solve [profile]",
	Short: "List timer configurations that hit a target frequency",
	Long: `Enumerates every clock source, prescaler and postscaler of a timer and
prints the configurations whose rounded count lands within tolerance of the
target frequency, in enumeration order.

Examples:
  # Built-in profile
  timerdiv solve tmr0

  # Ad-hoc timer: 8-bit count, prescalers 1..1024, 1 kHz from 16 MHz
  timerdiv solve -s FOSC=16MHz --prescalers 1,8,64,256,1024 --count-bits 8 -t 1kHz --tolerance 0.005

  # Re-solve whenever the profiles file changes
  timerdiv solve mytimer --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSolve,
}

func init() {
	solveFlags.register(solveCmd)
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "output candidates as JSON")
	solveCmd.Flags().BoolVarP(&solveWatch, "watch", "w", false, "re-solve when the profiles file changes")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	if solverService == nil {
		return errors.New("solver service not configured")
	}

	if !solveWatch {
		return solveOnce(cmd, args)
	}

	if len(args) != 1 {
		return errors.New("--watch requires a profile name")
	}
	if watchProfiles == nil {
		return errors.New("profile watching not configured")
	}
	return watchSolve(cmd, args)
}

func solveOnce(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var (
		space      domain.SearchSpace
		candidates []domain.Candidate
	)
	if len(args) == 1 && !cmd.Flags().Changed("tolerance") {
		if solveFlags.adHoc(cmd) {
			return errProfileWithTimerFlags
		}
		// Runs of stored profiles go to the history journal.
		run, err := solverService.SolveProfile(ctx, args[0])
		if err != nil {
			return fmt.Errorf("solve failed: %w", err)
		}
		space, candidates = run.Space, run.Candidates
	} else {
		profile, err := resolveProfile(ctx, cmd, &solveFlags, args)
		if err != nil {
			return err
		}
		space = profile.SearchSpace()
		candidates, err = solverService.Solve(ctx, space)
		if err != nil {
			return fmt.Errorf("solve failed: %w", err)
		}
	}

	if wantJSON(solveJSON) {
		return outputJSON(cmd, candidates)
	}
	outputCandidateTable(cmd, candidates, space.SingleStage())
	return nil
}

func watchSolve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	changes, err := watchProfiles(ctx)
	if err != nil {
		return fmt.Errorf("watch profiles: %w", err)
	}

	if err := solveOnce(cmd, args); err != nil {
		cmd.PrintErrf("Error: %v\n", err)
	}
	for range changes {
		cmd.Printf("\n# %s profiles changed\n", time.Now().Format(time.TimeOnly))
		if err := solveOnce(cmd, args); err != nil {
			cmd.PrintErrf("Error: %v\n", err)
		}
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

// wantJSON reports whether JSON output was requested by flag or setting.
func wantJSON(flag bool) bool {
	if flag {
		return true
	}
	if settingsService == nil {
		return false
	}
	settings, err := settingsService.Get()
	if err != nil {
		return false
	}
	return settings.Output.Format == domain.OutputJSON
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// outputCandidateTable prints tab-separated columns. The postscaler column
// is left out for timers without a postscaler stage.
func outputCandidateTable(cmd *cobra.Command, candidates []domain.Candidate, singleStage bool) {
	if len(candidates) == 0 {
		cmd.Println("No admissible configuration.")
		return
	}

	if singleStage {
		cmd.Printf("%10s\t%4s\t%5s\t%8s\n", "f_source", "pre", "timer", "err")
	} else {
		cmd.Printf("%10s\t%4s\t%5s\t%5s\t%8s\n", "f_source", "pre", "post", "timer", "err")
	}

	for _, c := range candidates {
		src := strconv.FormatFloat(float64(c.Source), 'f', -1, 64)
		if singleStage {
			cmd.Printf("%10s\t%4d\t%5d\t%8.1e\n", src, c.Prescaler, c.Count, c.RelativeError)
		} else {
			cmd.Printf("%10s\t%4d\t%5d\t%5d\t%8.1e\n", src, c.Prescaler, c.Postscaler, c.Count, c.RelativeError)
		}
	}
}
