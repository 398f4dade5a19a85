package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singleboostr/boostr/internal/appid"
	"github.com/singleboostr/boostr/internal/config"
	"github.com/singleboostr/boostr/internal/logging"
	"github.com/singleboostr/boostr/internal/platform"
	"github.com/singleboostr/boostr/internal/process"
	"github.com/singleboostr/boostr/internal/report"
)

func TestValidateArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "no args opens the menu", args: nil},
		{name: "single AppId", args: []string{"730"}},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "negative", args: []string{"-1"}, wantErr: true},
		{name: "not a number", args: []string{"csgo"}, wantErr: true},
		{name: "two AppIds", args: []string{"730", "883710"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateArgs(rootCmd, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "usage: boostr [appid]")
				return
			}
			assert.NoError(t, err)
		})
	}
}

type stubClient struct {
	name string
	err  error
	ids  []appid.ID
}

func (c *stubClient) Connect(_ context.Context, id appid.ID) (string, error) {
	c.ids = append(c.ids, id)
	return c.name, c.err
}

func TestRunHeadless(t *testing.T) {
	var out bytes.Buffer
	client := &stubClient{name: "Counter-Strike 2"}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runHeadless(ctx, 730, client, report.New(&out), logging.Discard()) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("headless mode did not stop on cancellation")
	}

	assert.Equal(t, []appid.ID{730}, client.ids)
	assert.Contains(t, out.String(), "idling Counter-Strike 2 (AppId 730")
}

func TestRunHeadless_HandshakeFailure(t *testing.T) {
	var out bytes.Buffer
	client := &stubClient{err: errors.Join(platform.ErrHandshake, errors.New("steam not running"))}

	err := runHeadless(context.Background(), 730, client, report.New(&out), logging.Discard())
	assert.ErrorIs(t, err, platform.ErrHandshake)
	assert.Contains(t, out.String(), "failed to bind AppId 730")
	assert.Len(t, client.ids, 1)
}

func TestNewSteamClient_MissingSteam(t *testing.T) {
	cfg := config.Default()
	cfg.SteamPath = t.TempDir() + "/nope"
	cfg.Offline = true

	client := newSteamClient(cfg, logging.Discard())
	client.Setenv = func(string, string) error { return nil }

	_, err := client.Connect(context.Background(), 730)
	assert.ErrorIs(t, err, platform.ErrHandshake)
}

func TestNewSteamClient_Offline(t *testing.T) {
	cfg := config.Default()
	cfg.SteamPath = t.TempDir()
	cfg.Offline = true

	client := newSteamClient(cfg, logging.Discard())
	client.Setenv = func(string, string) error { return nil }

	name, err := client.Connect(context.Background(), 730)
	require.NoError(t, err)
	assert.Equal(t, platform.Placeholder(730), name)
}

func TestRunMenu_Quit(t *testing.T) {
	cfg := config.Default()
	cfg.Offline = true

	var out bytes.Buffer
	err := runMenu(context.Background(), cfg, strings.NewReader("9\n4\n"), &out, logging.Discard(), "test")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "boostr test")
	assert.Contains(t, out.String(), "invalid choice")
	assert.Contains(t, out.String(), "bye")
}

func TestRunMenu_EndOfInput(t *testing.T) {
	cfg := config.Default()
	cfg.Offline = true

	var out bytes.Buffer
	err := runMenu(context.Background(), cfg, strings.NewReader(""), &out, logging.Discard(), "test")
	assert.NoError(t, err)
}

func TestApp_Discover(t *testing.T) {
	cfg := config.Default()
	cfg.SteamPath = t.TempDir()

	a := newApp(cfg, &bytes.Buffer{}, logging.Discard())
	ids, err := a.discover()
	assert.Error(t, err)
	assert.Empty(t, ids)
}

func TestNewApp_ChildOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("children write to their own console window")
	}

	a := newApp(config.Default(), &bytes.Buffer{}, logging.Discard())
	launcher, ok := a.launcher.(*process.ExecLauncher)
	require.True(t, ok)
	assert.Equal(t, os.Stderr, launcher.Stdout)
	assert.Equal(t, os.Stderr, launcher.Stderr)

	var out bytes.Buffer
	assert.Same(t, &out, headlessOutput(&out))
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"730", "883710"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one AppId")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	rootCmd.Version = "1.2.3"
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.Version = ""
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "boostr version 1.2.3")
	assert.Contains(t, out.String(), "non-commercial use only")
}
