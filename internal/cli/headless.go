package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"github.com/singleboostr/boostr/internal/appid"
	"github.com/singleboostr/boostr/internal/platform"
	"github.com/singleboostr/boostr/internal/report"
)

// runHeadless is the child side of a launch: bind to one app, then stay
// alive until the supervisor kills us or the context ends. A failed
// handshake is not retried.
func runHeadless(ctx context.Context, id appid.ID, client platform.Client, rep *report.Reporter, logger *log.Logger) error {
	rep.Rule()
	rep.Info("[headless] connecting to Steam as AppId %d...", id)

	name, err := client.Connect(ctx, id)
	if err != nil {
		rep.Error("[headless] failed to bind AppId %d: %v", id, err)
		logger.Error("handshake failed", "appid", id, "err", err)
		return err
	}

	rep.Success("[headless] idling %s (AppId %d | PID %d)", name, id, os.Getpid())
	rep.Info("[headless] close this window or press Ctrl+C to stop")
	rep.Rule()
	logger.Info("headless child bound", "appid", id, "name", name)

	<-ctx.Done()
	logger.Info("headless child stopping", "appid", id)
	return nil
}
