package supervisor

import (
	"bytes"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/singleboostr/boostr/internal/appid"
	"github.com/singleboostr/boostr/internal/logging"
	"github.com/singleboostr/boostr/internal/platform"
	"github.com/singleboostr/boostr/internal/process"
	"github.com/singleboostr/boostr/internal/report"
)

// fakeHandle is a controllable child. Kill closes done unless hang is set.
type fakeHandle struct {
	pid     int
	done    chan struct{}
	once    sync.Once
	kills   *atomic.Int32
	killErr error
	hang    bool
	panics  bool
}

func (h *fakeHandle) PID() int              { return h.pid }
func (h *fakeHandle) Done() <-chan struct{} { return h.done }
func (h *fakeHandle) ExitCode() int         { return 0 }

func (h *fakeHandle) Kill() error {
	h.kills.Add(1)
	if h.panics {
		panic("handle gone")
	}
	if h.killErr != nil {
		return h.killErr
	}
	if !h.hang {
		h.exit()
	}
	return nil
}

func (h *fakeHandle) exit() {
	h.once.Do(func() { close(h.done) })
}

// fakeLauncher hands out fakeHandles and records launches.
type fakeLauncher struct {
	mu       sync.Mutex
	nextPID  int
	handles  map[appid.ID]*fakeHandle
	fail     map[appid.ID]bool
	hang     map[appid.ID]bool
	killErr  map[appid.ID]error
	panics   map[appid.ID]bool
	launches []appid.ID
	kills    atomic.Int32
}

func newFakeLauncher() *fakeLauncher {
	return &fakeLauncher{
		nextPID: 1000,
		handles: map[appid.ID]*fakeHandle{},
		fail:    map[appid.ID]bool{},
		hang:    map[appid.ID]bool{},
		killErr: map[appid.ID]error{},
		panics:  map[appid.ID]bool{},
	}
}

func (l *fakeLauncher) Launch(id appid.ID) (process.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.launches = append(l.launches, id)
	if l.fail[id] {
		return nil, errors.New("exec format error")
	}
	l.nextPID++
	h := &fakeHandle{
		pid:     l.nextPID,
		done:    make(chan struct{}),
		kills:   &l.kills,
		hang:    l.hang[id],
		killErr: l.killErr[id],
		panics:  l.panics[id],
	}
	l.handles[id] = h
	return h, nil
}

func (l *fakeLauncher) handle(id appid.ID) *fakeHandle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handles[id]
}

type fixture struct {
	sup      *Supervisor
	launcher *fakeLauncher
	out      *syncBuffer
}

// syncBuffer collects reporter output written from several goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	launcher := newFakeLauncher()
	out := &syncBuffer{}
	names := platform.NewNameCache(platform.StaticResolver{
		730:    "Counter-Strike 2",
		883710: "Wallpaper Engine",
	})
	sup := New(launcher, names, report.New(out), Options{
		StopTimeout: 50 * time.Millisecond,
		Logger:      logging.Discard(),
	})
	t.Cleanup(func() { sup.Close() })

	return &fixture{sup: sup, launcher: launcher, out: out}
}
