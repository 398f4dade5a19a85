package platform

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/singleboostr/boostr/internal/appid"
)

// ErrHandshake is returned when the headless child cannot bind to the client.
var ErrHandshake = errors.New("platform handshake failed")

// Client performs the headless child's one-shot binding to the Steam client.
type Client interface {
	Connect(ctx context.Context, id appid.ID) (string, error)
}

// SteamClient binds the current process to an app by exporting the
// environment the Steam client inspects, after checking the client is
// installed. It opens no connection to the client; whether the idling
// process is counted as in game is up to the Steam client.
type SteamClient struct {
	// Probe checks that a Steam installation is reachable.
	Probe func() error
	// Resolver names the bound app.
	Resolver Resolver
	// Setenv defaults to os.Setenv.
	Setenv func(key, value string) error
}

// Connect implements Client.
func (c *SteamClient) Connect(ctx context.Context, id appid.ID) (string, error) {
	setenv := c.Setenv
	if setenv == nil {
		setenv = os.Setenv
	}

	for _, key := range []string{"SteamAppId", "SteamGameId"} {
		if err := setenv(key, id.String()); err != nil {
			return "", fmt.Errorf("%w: set %s: %v", ErrHandshake, key, err)
		}
	}

	if c.Probe != nil {
		if err := c.Probe(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrHandshake, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHandshake, err)
	}

	if c.Resolver == nil {
		return Placeholder(id), nil
	}
	return c.Resolver.Resolve(ctx, id), nil
}
