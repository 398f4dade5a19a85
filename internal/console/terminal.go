package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"runtime/debug"

	"golang.org/x/term"
)

// ReadLines feeds lines from r into the returned channel until EOF or
// cancellation. The channel is closed when reading stops.
func ReadLines(ctx context.Context, r io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case out <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// ClearScreen returns a func that wipes the terminal behind f. When f is
// not a terminal it only prints a blank line.
func ClearScreen(f *os.File) func() {
	return func() {
		fd := int(f.Fd())
		if !term.IsTerminal(fd) {
			fmt.Fprintln(f)
			return
		}
		// Home, erase screen, erase scrollback.
		fmt.Fprint(f, "\x1b[H\x1b[2J\x1b[3J")
	}
}

// OpenWithDefault opens path with the operating system's default handler.
func OpenWithDefault(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch default handler: %w", err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// VersionLines describes the running binary.
func VersionLines(version string) []string {
	lines := []string{
		"  name:       boostr",
		"  version:    " + version,
		"  go:         " + runtime.Version(),
		"  platform:   " + runtime.GOOS + "/" + runtime.GOARCH,
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		lines = append(lines, "  module:     "+info.Main.Path)
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				lines = append(lines, "  revision:   "+s.Value)
			}
		}
	}

	lines = append(lines, "  non-commercial use only")
	return lines
}
