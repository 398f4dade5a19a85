// Package cli wires configuration, logging, and the console into the
// boostr command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/singleboostr/boostr/internal/appid"
	"github.com/singleboostr/boostr/internal/config"
	"github.com/singleboostr/boostr/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "boostr [appid]",
	Short: "Keep Steam games marked as running",
	Long: `boostr keeps a set of Steam games marked as running so their playtime
accumulates while nothing is actually played.

Without arguments it opens the mode selector. With a single AppId it runs
as a headless child that binds to that game and idles until it is killed.`,
	Args:         validateArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration (Viper resolves behind the scenes)
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger, err := logging.Init(cfg.LogLevel)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			id, _ := appid.ParseID(args[0])
			err = runHeadless(cmd.Context(), id, newSteamClient(cfg, logger), newReporter(cmd), logger)
		} else {
			err = runMenu(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logger, cmd.Root().Version)
		}

		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	defaults := config.Default()

	flags := rootCmd.PersistentFlags()
	flags.String("index-file", defaults.IndexFile, "identifier file read by mode 2 (.txt, .yaml or .json)")
	flags.String("steam-path", "", "Steam install directory (auto-detected when empty)")
	flags.String("log-level", defaults.LogLevel, "diagnostic log level (debug|info|warn|error)")
	flags.Bool("offline", defaults.Offline, "skip store name lookups")
	flags.Duration("launch-delay", defaults.Timing.LaunchDelay, "pause after each launch")
	flags.Duration("stop-timeout", defaults.Timing.StopTimeout, "wait for a killed process to exit")

	// Bind flags to viper
	for _, key := range []string{"index-file", "steam-path", "log-level", "offline", "launch-delay", "stop-timeout"} {
		if err := config.BindFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(versionCmd, configCmd)
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context, which stops every child of the running session.
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.Version = version
	return rootCmd.ExecuteContext(ctx)
}

// validateArgs enforces the invocation contract: nothing for the mode
// selector, or exactly one positive AppId for headless mode.
func validateArgs(_ *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return nil
	case 1:
		if _, ok := appid.ParseID(args[0]); !ok {
			return fmt.Errorf("invalid AppId %q, usage: boostr [appid]", args[0])
		}
		return nil
	default:
		return fmt.Errorf("accepts at most one AppId, received %d, usage: boostr [appid]", len(args))
	}
}
