// Package boostr keeps Steam games marked as running so their playtime
// accumulates.
//
// # Overview
//
// boostr supervises one headless child process per AppId. Each child binds
// to the Steam client as that game and idles until it is stopped. The
// parent keeps a registry of running children, resolves display names
// through the store, and reports every start, exit, and close.
//
// # Installation
//
//	go install github.com/singleboostr/boostr/cmd/boostr@latest
//
// # Quick Start
//
//	boostr            # mode selector
//	boostr 730        # headless child for one AppId
//	boostr config     # resolved configuration
//	boostr version
//
// # Modes
//
// The selector offers four entries:
//   - 1: enter AppIds by hand, launch them, then manage them
//   - 2: read AppIds from gameindex.txt (or a .yaml/.json file)
//   - 3: command mode with start, stop, list, stopall and all
//   - 4: quit
//
// # Configuration
//
// Flags, BOOSTR_* environment variables, $HOME/.boostr/config.yaml, and
// built-in defaults, in that order of precedence.
package boostr
