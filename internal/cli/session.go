package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/singleboostr/boostr/internal/appid"
	"github.com/singleboostr/boostr/internal/config"
	"github.com/singleboostr/boostr/internal/console"
	"github.com/singleboostr/boostr/internal/library"
	"github.com/singleboostr/boostr/internal/platform"
	"github.com/singleboostr/boostr/internal/process"
	"github.com/singleboostr/boostr/internal/report"
	"github.com/singleboostr/boostr/internal/supervisor"
)

// app holds what every session of one invocation shares.
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	rep      *report.Reporter
	launcher process.Launcher
	resolver platform.Resolver
}

func newApp(cfg *config.Config, out io.Writer, logger *log.Logger) *app {
	return &app{
		cfg:      cfg,
		logger:   logger,
		rep:      report.New(out),
		launcher: &process.ExecLauncher{Stdout: childOutput(), Stderr: childOutput(), Logger: logger},
		resolver: newResolver(cfg, logger),
	}
}

func newResolver(cfg *config.Config, logger *log.Logger) platform.Resolver {
	if cfg.Offline {
		return platform.StaticResolver{}
	}
	return platform.NewStoreResolver(platform.DefaultStoreURL, cfg.Timing.ResolveTimeout, logger)
}

// newSession gives every mode entry its own registry and name cache.
func (a *app) newSession() *supervisor.Supervisor {
	return supervisor.New(a.launcher, platform.NewNameCache(a.resolver), a.rep, supervisor.Options{
		LaunchDelay: a.cfg.Timing.LaunchDelay,
		StopTimeout: a.cfg.Timing.StopTimeout,
		Logger:      a.logger,
	})
}

func (a *app) discover() (appid.Set, error) {
	root, err := library.LocateSteam(a.cfg.SteamPath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("steam located", "path", root)
	return library.Discover(root)
}

func (a *app) menu(out io.Writer, version string) *console.Menu {
	env := console.Environment{
		Reporter:  a.rep,
		Logger:    a.logger,
		Version:   version,
		IndexFile: a.cfg.IndexFile,
		Discover:  a.discover,
		OpenFile:  console.OpenWithDefault,
	}
	if f, ok := out.(*os.File); ok {
		env.Clear = console.ClearScreen(f)
	}

	return &console.Menu{
		Env:         env,
		NewSession:  a.newSession,
		ReturnDelay: a.cfg.Timing.ReturnDelay,
	}
}

func runMenu(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, logger *log.Logger, version string) error {
	a := newApp(cfg, out, logger)
	return a.menu(out, version).Run(ctx, console.ReadLines(ctx, in))
}

func newSteamClient(cfg *config.Config, logger *log.Logger) *platform.SteamClient {
	return &platform.SteamClient{
		Probe: func() error {
			_, err := library.LocateSteam(cfg.SteamPath)
			return err
		},
		Resolver: newResolver(cfg, logger),
	}
}

func newReporter(cmd *cobra.Command) *report.Reporter {
	return report.New(headlessOutput(cmd.OutOrStdout()))
}
