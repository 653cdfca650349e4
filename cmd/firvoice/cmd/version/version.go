package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"fir-voice/internal/app/api/provider"
)

// Version is overridden at build time with -ldflags "-X ...version.Version=..."
var Version = "v0.1.0"

// Cmd represents the version command
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of firvoice",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
		fmt.Fprintf(cmd.OutOrStdout(), "engines: %v\n", provider.Registered())
		return nil
	},
}
