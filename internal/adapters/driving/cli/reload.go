package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
)

var (
	reloadFlags  spaceFlags
	reloadPick   int
	reloadPrefix string
	reloadCount  int
)

var reloadCmd = &cobra.Command{
	Use:   "reload [profile]",
	Short: "Print the register reload defines for a configuration",
	Long: `An up-counting timer that overflows at the register bound is reloaded
with bound - count after every overflow. This command prints that value and
its high and low bytes as C defines.

The configuration is the --pick'th candidate (1-based) of the profile or
ad-hoc timer, or an explicit --count.

Examples:
  timerdiv reload tmr0 --pick 5 --prefix T0
  timerdiv reload --count 3875 --prefix T0`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReload,
}

func init() {
	reloadFlags.register(reloadCmd)
	reloadCmd.Flags().IntVarP(&reloadPick, "pick", "p", 1, "candidate number to use")
	reloadCmd.Flags().StringVar(&reloadPrefix, "prefix", "", "define name prefix (default upper-case profile name)")
	reloadCmd.Flags().IntVarP(&reloadCount, "count", "c", 0, "explicit count instead of a solved candidate")
	rootCmd.AddCommand(reloadCmd)
}

func runReload(cmd *cobra.Command, args []string) error {
	if reloadCount > 0 {
		countMax := reloadFlags.countMax
		if countMax == 0 {
			var err error
			if countMax, err = reloadFlags.registerMax(); err != nil {
				return err
			}
		}
		if reloadCount >= countMax {
			return fmt.Errorf("count %d does not fit below %d: %w", reloadCount, countMax, domain.ErrInvalidInput)
		}
		prefix := reloadPrefix
		if prefix == "" {
			prefix = "TMR"
		}
		c := domain.Candidate{Count: reloadCount}
		cmd.Print(c.Reload(countMax).Defines(prefix))
		return nil
	}

	if solverService == nil {
		return errors.New("solver service not configured")
	}

	profile, err := resolveProfile(cmd.Context(), cmd, &reloadFlags, args)
	if err != nil {
		return err
	}
	space := profile.SearchSpace()

	candidates, err := solverService.Solve(cmd.Context(), space)
	if err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}
	if len(candidates) == 0 {
		return errors.New("no admissible configuration")
	}
	if reloadPick < 1 || reloadPick > len(candidates) {
		return fmt.Errorf("--pick must be between 1 and %d", len(candidates))
	}
	c := candidates[reloadPick-1]

	prefix := reloadPrefix
	if prefix == "" {
		prefix = strings.ToUpper(strings.NewReplacer("-", "_", "/", "_").Replace(profile.Name))
	}

	source := profile.SourceName(c.Source)
	if source == "" {
		source = c.Source.String()
	}
	cmd.Printf("// %s: %s / %d / %d / %d = %s\n",
		profile.Name, source, c.Prescaler, c.Postscaler, c.Count, c.Actual)
	cmd.Print(c.Reload(space.CountMax).Defines(prefix))
	return nil
}
