//go:build windows

package cli

import (
	"io"
	"os"
)

// childOutput is nil on Windows: every child gets a console window of its
// own and writes there through headlessOutput.
func childOutput() io.Writer {
	return nil
}

// headlessOutput writes to the process's own console. os/exec hands the
// child NUL as stdout, so the console is opened directly.
func headlessOutput(fallback io.Writer) io.Writer {
	f, err := os.OpenFile("CONOUT$", os.O_WRONLY, 0)
	if err != nil {
		return fallback
	}
	return f
}
