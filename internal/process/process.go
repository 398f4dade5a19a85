// Package process tracks the child processes launched for each app.
package process

import (
	"sync/atomic"
	"time"

	"github.com/singleboostr/boostr/internal/appid"
)

// Handle is a started OS process.
type Handle interface {
	// PID returns the OS process id.
	PID() int
	// Kill force-terminates the process.
	Kill() error
	// Done is closed once the process has exited and been reaped.
	Done() <-chan struct{}
	// ExitCode returns the exit status, or -1 while running or when unknown.
	ExitCode() int
}

// Launcher starts the child process for one identifier.
type Launcher interface {
	Launch(id appid.ID) (Handle, error)
}

// Managed is one supervised child bound to an identifier.
type Managed struct {
	ID      appid.ID
	Handle  Handle
	Started time.Time

	// suppressed is set before an explicit stop so the exit watcher does
	// not race the stopper with a second removal.
	suppressed atomic.Bool
}

// NewManaged wraps a started handle.
func NewManaged(id appid.ID, h Handle) *Managed {
	return &Managed{ID: id, Handle: h, Started: time.Now()}
}

// PID returns the child's OS process id.
func (m *Managed) PID() int {
	return m.Handle.PID()
}

// Exited reports whether the child has already exited.
func (m *Managed) Exited() bool {
	select {
	case <-m.Handle.Done():
		return true
	default:
		return false
	}
}

// WaitExit blocks until the child exits or timeout elapses. It reports
// whether the exit was observed.
func (m *Managed) WaitExit(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-m.Handle.Done():
		return true
	case <-timer.C:
		return false
	}
}

// Suppress disables exit notifications for this child.
func (m *Managed) Suppress() {
	m.suppressed.Store(true)
}

// Suppressed reports whether exit notifications are disabled.
func (m *Managed) Suppressed() bool {
	return m.suppressed.Load()
}
