package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	profilesAddFlags   spaceFlags
	profileDescription string
	profilesJSON       bool
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage timer profiles",
	Long: `List, inspect, add and remove timer profiles.

The built-in profiles tmr0 and tmr1 describe the clock firmware timers.
User profiles are stored in ~/.timerdiv/profiles.toml and shadow built-in
profiles of the same name.`,
	RunE: runProfilesList,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List timer profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfilesList,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a timer profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesShow,
}

var profilesAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a user timer profile",
	Long: `Stores a timer profile built from the same flags solve accepts.

Example:
  timerdiv profiles add pwm -s FOSC=16MHz --prescalers 1,8,64,256,1024 \
      --count-bits 8 -t 1kHz --tolerance 0.005 --description "8-bit PWM base"`,
	Args: cobra.ExactArgs(1),
	RunE: runProfilesAdd,
}

var profilesRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a user timer profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesRemove,
}

func init() {
	profilesAddFlags.register(profilesAddCmd)
	profilesAddCmd.Flags().StringVarP(&profileDescription, "description", "d", "", "what the timer is used for")
	profilesListCmd.Flags().BoolVar(&profilesJSON, "json", false, "output profiles as JSON")

	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesCmd.AddCommand(profilesAddCmd)
	profilesCmd.AddCommand(profilesRemoveCmd)
	rootCmd.AddCommand(profilesCmd)
}

func runProfilesList(cmd *cobra.Command, _ []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}

	profiles, err := profileService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	if profilesJSON {
		return outputJSON(cmd, profiles)
	}

	if len(profiles) == 0 {
		cmd.Println("No profiles.")
		return nil
	}

	cmd.Println("Timer profiles:")
	cmd.Println()
	for i := range profiles {
		p := &profiles[i]
		origin := "user"
		if p.Builtin {
			origin = "built-in"
		}
		cmd.Printf("  %-12s %-9s target %-12s %s\n", p.Name, origin, p.Target, p.Description)
	}
	return nil
}

func runProfilesShow(cmd *cobra.Command, args []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}

	p, err := profileService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("profile %q: %w", args[0], err)
	}

	space := p.SearchSpace()
	cmd.Printf("Name:        %s\n", p.Name)
	if p.Description != "" {
		cmd.Printf("Description: %s\n", p.Description)
	}
	cmd.Printf("Built-in:    %t\n", p.Builtin)
	cmd.Printf("Target:      %s (period %gs)\n", p.Target, p.Target.Period())
	cmd.Printf("Tolerance:   %g\n", p.Tolerance)
	cmd.Printf("Count max:   %d\n", p.CountMax)
	cmd.Printf("Prescalers:  %s\n", joinInts(space.Prescalers))
	if space.SingleStage() {
		cmd.Println("Postscalers: none")
	} else {
		cmd.Printf("Postscalers: %s\n", joinInts(space.Postscalers))
	}
	cmd.Println("Sources:")
	for _, s := range p.Sources {
		cmd.Printf("  %-12s %s\n", s.Name, s.Frequency)
	}
	cmd.Printf("Search size: %d combinations\n", space.Size())
	return nil
}

func runProfilesAdd(cmd *cobra.Command, args []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}

	p, err := profilesAddFlags.profile(args[0])
	if err != nil {
		return err
	}
	p.Description = profileDescription

	if err := profileService.Add(cmd.Context(), p); err != nil {
		return fmt.Errorf("failed to add profile: %w", err)
	}

	cmd.Printf("Added profile %s.\n", p.Name)
	return nil
}

func runProfilesRemove(cmd *cobra.Command, args []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}

	if err := profileService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove profile: %w", err)
	}

	cmd.Printf("Removed profile %s.\n", args[0])
	return nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}
