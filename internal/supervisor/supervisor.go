// Package supervisor starts, stops, and accounts for the per-app child
// processes of one supervising session.
//
// A Supervisor owns its registry and name cache; both live exactly as long
// as the session. Child exits arrive as ExitEvents on Events() and are
// applied by whoever runs the session loop via HandleExit, so every
// registry mutation triggered by an exit happens on that loop.
package supervisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/singleboostr/boostr/internal/appid"
	"github.com/singleboostr/boostr/internal/platform"
	"github.com/singleboostr/boostr/internal/process"
	"github.com/singleboostr/boostr/internal/report"
)

const eventBuffer = 64

// ExitEvent reports that a supervised child exited on its own.
type ExitEvent struct {
	Proc *process.Managed
}

// Options configures a Supervisor.
type Options struct {
	// LaunchDelay is slept after every successful launch.
	LaunchDelay time.Duration
	// StopTimeout bounds the wait for a killed child to exit.
	StopTimeout time.Duration
	// Logger may be nil.
	Logger *log.Logger
}

// Supervisor orchestrates launches and terminations against a registry.
type Supervisor struct {
	registry *process.Registry
	names    *platform.NameCache
	launcher process.Launcher
	report   *report.Reporter
	logger   *log.Logger

	launchDelay time.Duration
	stopTimeout time.Duration

	events    chan ExitEvent
	quit      chan struct{}
	closeOnce sync.Once
	session   string
}

// New creates a Supervisor for one session.
func New(launcher process.Launcher, names *platform.NameCache, rep *report.Reporter, opts Options) *Supervisor {
	session := uuid.NewString()

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Supervisor{
		registry:    process.NewRegistry(),
		names:       names,
		launcher:    launcher,
		report:      rep,
		logger:      logger.With("session", session),
		launchDelay: opts.LaunchDelay,
		stopTimeout: opts.StopTimeout,
		events:      make(chan ExitEvent, eventBuffer),
		quit:        make(chan struct{}),
		session:     session,
	}
}

// Session returns the session id attached to this supervisor's logs.
func (s *Supervisor) Session() string {
	return s.session
}

// Registry exposes the session's process table.
func (s *Supervisor) Registry() *process.Registry {
	return s.registry
}

// Names exposes the session's name cache.
func (s *Supervisor) Names() *platform.NameCache {
	return s.names
}

// Events delivers exit notifications for children that were not stopped
// explicitly.
func (s *Supervisor) Events() <-chan ExitEvent {
	return s.events
}

// Prefetch resolves and caches display names ahead of a batch launch.
func (s *Supervisor) Prefetch(ctx context.Context, ids appid.Set) {
	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}
		s.names.Name(ctx, id)
	}
}

// Start launches the child for id and registers it. A failed launch is
// reported and leaves the registry untouched.
func (s *Supervisor) Start(ctx context.Context, id appid.ID) Result {
	if existing, ok := s.registry.FindByIdentifier(id); ok {
		return s.emit(Result{ID: id, Name: s.names.Label(id), PID: existing.PID(), Outcome: OutcomeAlreadyRunning})
	}

	name := s.names.Name(ctx, id)

	h, err := s.launcher.Launch(id)
	if err != nil {
		s.logger.Error("launch failed", "appid", id, "err", err)
		return s.emit(Result{ID: id, Name: name, Outcome: OutcomeLaunchFailed, Err: err})
	}

	proc := process.NewManaged(id, h)
	if !s.registry.Insert(proc) {
		// Lost a race with another start for the same id; keep the first.
		_ = safeKill(proc)
		existing, _ := s.registry.FindByIdentifier(id)
		res := Result{ID: id, Name: name, Outcome: OutcomeAlreadyRunning}
		if existing != nil {
			res.PID = existing.PID()
		}
		return s.emit(res)
	}

	go s.watch(proc)

	s.logger.Info("child registered", "appid", id, "pid", proc.PID())
	res := s.emit(Result{ID: id, Name: name, PID: proc.PID(), Outcome: OutcomeStarted})

	sleep(ctx, s.launchDelay)
	return res
}

// StartBatch starts every id in order. One failure never aborts the rest.
func (s *Supervisor) StartBatch(ctx context.Context, ids appid.Set) []Result {
	s.report.Info("[starting] launching %d idle process(es)...", len(ids))

	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		if ctx.Err() != nil {
			s.report.Warn("[starting] interrupted, %d of %d launched", len(results), len(ids))
			break
		}
		results = append(results, s.Start(ctx, id))
	}
	return results
}

// Stop terminates the child running for id.
func (s *Supervisor) Stop(id appid.ID) Result {
	proc, ok := s.registry.FindByIdentifier(id)
	if !ok {
		return s.emit(Result{ID: id, Name: s.names.Label(id), Outcome: OutcomeNotRunning})
	}
	res, owned := s.terminate(proc, false)
	if !owned {
		// The exit path removed and reported it first.
		s.logger.Debug("stop lost to exit", "appid", id, "pid", res.PID)
		return res
	}
	return s.emit(res)
}

// StopBatch stops every id in order.
func (s *Supervisor) StopBatch(ids appid.Set) []Result {
	s.report.Info("[stopping] closing %d idle process(es)...", len(ids))

	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		results = append(results, s.Stop(id))
	}
	return results
}

// StopAll drains the registry and terminates everything that was in it.
// The registry is empty when StopAll returns, whatever the kill outcomes.
func (s *Supervisor) StopAll() []Result {
	procs := s.registry.Drain()
	if len(procs) == 0 {
		s.report.Info("[stopall] no processes running")
		return nil
	}

	s.report.Info("[stopall] closing %d idle process(es)...", len(procs))
	results := make([]Result, 0, len(procs))
	for _, proc := range procs {
		res, _ := s.terminate(proc, true)
		results = append(results, s.emit(res))
	}
	s.report.Info("[stopall] done")
	return results
}

// List prints the running children and returns the snapshot it printed.
func (s *Supervisor) List() []*process.Managed {
	procs := s.registry.Snapshot()

	s.report.Rule()
	s.report.Plain("  running processes: %d", len(procs))
	if len(procs) == 0 {
		s.report.Plain("  no idle processes running")
	}
	for _, proc := range procs {
		s.report.Plain("  - %s (AppId %d | PID %d | up %s)",
			s.names.Label(proc.ID), proc.ID, proc.PID(), time.Since(proc.Started).Round(time.Second))
	}
	s.report.Rule()
	return procs
}

// HandleExit applies an exit notification. Only the caller that actually
// removes the entry reports it; a stale or duplicate event is a no-op.
func (s *Supervisor) HandleExit(ev ExitEvent) (Result, bool) {
	if ev.Proc == nil || !s.registry.Remove(ev.Proc) {
		return Result{}, false
	}
	return s.emit(Result{
		ID:       ev.Proc.ID,
		Name:     s.names.Label(ev.Proc.ID),
		PID:      ev.Proc.PID(),
		ExitCode: ev.Proc.Handle.ExitCode(),
		Outcome:  OutcomeExited,
	}), true
}

// Close ends the session: every child is stopped and the name cache is
// cleared. Safe to call more than once.
func (s *Supervisor) Close() []Result {
	results := s.StopAll()
	s.names.Clear()
	s.closeOnce.Do(func() { close(s.quit) })
	return results
}

// terminate kills proc, waits up to the stop timeout, and removes it. It
// reports whether this call owns the removal; drained entries are already
// owned by the caller. A result that is not owned must not be reported.
func (s *Supervisor) terminate(proc *process.Managed, drained bool) (Result, bool) {
	res := Result{ID: proc.ID, Name: s.names.Label(proc.ID), PID: proc.PID()}
	claim := func() bool {
		return s.registry.Remove(proc) || drained
	}

	if proc.Exited() {
		res.Outcome = OutcomeAlreadyExited
		return res, claim()
	}

	proc.Suppress()
	if err := safeKill(proc); err != nil {
		s.logger.Warn("kill failed", "appid", proc.ID, "pid", res.PID, "err", err)
		if !claim() {
			res.Outcome = OutcomeAlreadyExited
			return res, false
		}
		res.Outcome = OutcomeCloseFailed
		res.Err = err
		return res, true
	}

	exited := proc.WaitExit(s.stopTimeout)
	owned := claim()

	switch {
	case !owned:
		res.Outcome = OutcomeAlreadyExited
	case exited:
		res.Outcome = OutcomeClosed
	default:
		s.logger.Warn("child did not exit before timeout", "appid", proc.ID, "pid", res.PID, "timeout", s.stopTimeout)
		res.Outcome = OutcomeForceClosed
	}
	return res, owned
}

// watch posts an ExitEvent when proc exits, unless it was stopped on purpose.
func (s *Supervisor) watch(proc *process.Managed) {
	select {
	case <-proc.Handle.Done():
	case <-s.quit:
		return
	}

	if proc.Suppressed() {
		return
	}

	select {
	case s.events <- ExitEvent{Proc: proc}:
	case <-s.quit:
	}
}

func (s *Supervisor) emit(res Result) Result {
	r := s.report
	switch res.Outcome {
	case OutcomeStarted:
		r.Success("[started] %s (AppId %d | PID %d)", res.Name, res.ID, res.PID)
	case OutcomeAlreadyRunning:
		r.Warn("[skipped] %s (AppId %d) is already running (PID %d)", res.Name, res.ID, res.PID)
	case OutcomeLaunchFailed:
		r.Error("[launch failed] %s (AppId %d): %v", res.Name, res.ID, res.Err)
	case OutcomeExited:
		r.Warn("[exited] %s (AppId %d | PID %d) exit code %d", res.Name, res.ID, res.PID, res.ExitCode)
	case OutcomeClosed:
		r.Success("[closed] %s (AppId %d | PID %d)", res.Name, res.ID, res.PID)
	case OutcomeForceClosed:
		r.Warn("[force-closed] %s (AppId %d | PID %d) timed out waiting for exit", res.Name, res.ID, res.PID)
	case OutcomeAlreadyExited:
		r.Warn("[already exited] %s (AppId %d) had already exited", res.Name, res.ID)
	case OutcomeNotRunning:
		r.Error("[not running] no running process found for %s (AppId %d)", res.Name, res.ID)
	case OutcomeCloseFailed:
		r.Error("[close failed] %s (AppId %d | PID %d): %v", res.Name, res.ID, res.PID, res.Err)
	}
	return res
}

// safeKill converts a panicking Kill into an error so one bad handle
// cannot abort a batch.
func safeKill(proc *process.Managed) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("kill panicked: %v", r)
		}
	}()
	return proc.Handle.Kill()
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
