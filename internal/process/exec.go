package process

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/singleboostr/boostr/internal/appid"
)

// ExecLauncher starts children by re-executing a binary, by default the
// running one, with the identifier as its only argument.
type ExecLauncher struct {
	// Executable is the binary to run. Empty means os.Executable().
	Executable string
	// Stdout and Stderr receive the child's output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
	// Logger may be nil.
	Logger *log.Logger
}

// Launch implements Launcher.
func (l *ExecLauncher) Launch(id appid.ID) (Handle, error) {
	path := l.Executable
	if path == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to locate own executable: %w", err)
		}
		path = self
	}

	cmd := exec.Command(path, id.String())
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	configureChild(cmd)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s %s: %w", path, id, err)
	}

	if l.Logger != nil {
		l.Logger.Debug("child started", "path", path, "appid", id, "pid", cmd.Process.Pid)
	}

	h := &execHandle{cmd: cmd, done: make(chan struct{})}
	h.exitCode.Store(-1)
	go h.wait()
	return h, nil
}

type execHandle struct {
	cmd      *exec.Cmd
	done     chan struct{}
	exitCode atomic.Int32
}

func (h *execHandle) wait() {
	_ = h.cmd.Wait()
	if state := h.cmd.ProcessState; state != nil {
		h.exitCode.Store(int32(state.ExitCode()))
	}
	close(h.done)
}

func (h *execHandle) PID() int {
	return h.cmd.Process.Pid
}

func (h *execHandle) Kill() error {
	return killTree(h.cmd)
}

func (h *execHandle) Done() <-chan struct{} {
	return h.done
}

func (h *execHandle) ExitCode() int {
	return int(h.exitCode.Load())
}
