package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show previous solver runs",
	Long: `Every 'solve' of a named profile is recorded in the run journal
(~/.timerdiv/data/history.db) unless history is disabled in settings.`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show the candidates of a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", 0, "maximum number of runs (default from settings)")
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if solverService == nil {
		return errors.New("solver service not configured")
	}

	runs, err := solverService.History(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if historyJSON {
		return outputJSON(cmd, runs)
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	for i := range runs {
		r := &runs[i]
		cmd.Printf("%s  %s  %-12s %3d candidates\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Profile, len(r.Candidates))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if solverService == nil {
		return errors.New("solver service not configured")
	}

	run, err := solverService.GetRun(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("run %q: %w", args[0], err)
	}

	if historyJSON {
		return outputJSON(cmd, run)
	}

	cmd.Printf("Run:       %s\n", run.ID)
	cmd.Printf("Profile:   %s\n", run.Profile)
	cmd.Printf("Recorded:  %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	cmd.Printf("Target:    %s\n", run.Space.Target)
	cmd.Printf("Tolerance: %g\n", run.Space.Tolerance)
	cmd.Println()
	outputCandidateTable(cmd, run.Candidates, run.Space.SingleStage())
	return nil
}
