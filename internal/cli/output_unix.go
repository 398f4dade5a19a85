//go:build !windows

package cli

import (
	"io"
	"os"
)

// childOutput is where headless children write. Without a console of
// their own they share the parent's stderr, so prompts on stdout stay
// clean.
func childOutput() io.Writer {
	return os.Stderr
}

// headlessOutput returns the writer for headless status lines.
func headlessOutput(fallback io.Writer) io.Writer {
	return fallback
}
