package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/singleboostr/boostr/internal/config"
	"github.com/singleboostr/boostr/internal/console"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "boostr version %s\n\n", cmd.Root().Version)
		for _, line := range console.VersionLines(cmd.Root().Version) {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long:  `Display the configuration after flags, BOOSTR_* environment variables, the config file and defaults are merged.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := config.Display()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}
