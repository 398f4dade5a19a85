package supervisor

import (
	"github.com/singleboostr/boostr/internal/appid"
)

// Outcome is what happened to one identifier during a start, stop, or exit.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeStarted
	OutcomeAlreadyRunning
	OutcomeLaunchFailed
	OutcomeExited
	OutcomeClosed
	OutcomeForceClosed
	OutcomeAlreadyExited
	OutcomeNotRunning
	OutcomeCloseFailed
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeStarted:
		return "started"
	case OutcomeAlreadyRunning:
		return "already running"
	case OutcomeLaunchFailed:
		return "launch failed"
	case OutcomeExited:
		return "exited"
	case OutcomeClosed:
		return "closed"
	case OutcomeForceClosed:
		return "force-closed"
	case OutcomeAlreadyExited:
		return "already exited"
	case OutcomeNotRunning:
		return "not running"
	case OutcomeCloseFailed:
		return "close failed"
	default:
		return "unknown"
	}
}

// Result records the outcome for one identifier.
type Result struct {
	ID       appid.ID
	Name     string
	PID      int
	ExitCode int
	Outcome  Outcome
	Err      error
}
