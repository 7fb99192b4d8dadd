package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var digitsOutput string

var digitsCmd = &cobra.Command{
	Use:   "digits",
	Short: "Generate the seven-segment digit table",
	Long: `Encodes the decimal digits as seven-segment masks (bit 0 = segment A,
bit 6 = segment G) and prints them as the seg_patterns C array used by the
display firmware.`,
	Args: cobra.NoArgs,
	RunE: runDigits,
}

func init() {
	digitsCmd.Flags().StringVarP(&digitsOutput, "output", "o", "", "write the header to a file instead of stdout")
	rootCmd.AddCommand(digitsCmd)
}

func runDigits(cmd *cobra.Command, _ []string) error {
	if displayService == nil {
		return errors.New("display service not configured")
	}

	header := displayService.Header()

	if digitsOutput == "" {
		cmd.Print(header)
		return nil
	}

	if err := os.WriteFile(digitsOutput, []byte(header), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", digitsOutput, err)
	}
	cmd.Printf("Wrote %s\n", digitsOutput)
	return nil
}
