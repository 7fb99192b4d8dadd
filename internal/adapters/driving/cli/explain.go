package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

)

var (
	explainFlags    spaceFlags
	explainJSON     bool
	explainRejected bool
)

var explainCmd = &cobra.Command{
	Use:   "explain [profile]",
	Short: "Show why each divisor combination was accepted or rejected",
	Long: `Evaluates every clock source, prescaler and postscaler combination and
prints the rounded count, achieved frequency, relative error and verdict of
each. Accepts the same profile and timer flags as solve.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExplain,
}

func init() {
	explainFlags.register(explainCmd)
	explainCmd.Flags().BoolVar(&explainJSON, "json", false, "output evaluations as JSON")
	explainCmd.Flags().BoolVar(&explainRejected, "rejected", false, "only show rejected combinations")
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	if solverService == nil {
		return errors.New("solver service not configured")
	}

	profile, err := resolveProfile(cmd.Context(), cmd, &explainFlags, args)
	if err != nil {
		return err
	}

	evaluations, err := solverService.Explain(cmd.Context(), profile.SearchSpace())
	if err != nil {
		return fmt.Errorf("explain failed: %w", err)
	}

	if explainRejected {
		rejected := evaluations[:0]
		for _, e := range evaluations {
			if !e.Accepted() {
				rejected = append(rejected, e)
			}
		}
		evaluations = rejected
	}

	if wantJSON(explainJSON) {
		return outputJSON(cmd, evaluations)
	}

	accepted := 0
	cmd.Printf("%-12s\t%10s\t%5s\t%4s\t%8s\t%14s\t%9s\t%s\n",
		"source", "f_source", "pre", "post", "count", "actual", "err", "verdict")
	for _, e := range evaluations {
		if e.Accepted() {
			accepted++
		}
		cmd.Printf("%-12s\t%10s\t%5d\t%4d\t%8d\t%14.6g\t%9.1e\t%s\n",
			profile.SourceName(e.Source),
			strconv.FormatFloat(float64(e.Source), 'f', -1, 64),
			e.Prescaler, e.Postscaler, e.Count, float64(e.Actual), e.RelativeError, e.Verdict)
	}
	cmd.Printf("\n%d of %d combinations shown are admissible.\n", accepted, len(evaluations))
	return nil
}
