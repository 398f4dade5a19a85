package console

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/singleboostr/boostr/internal/appid"
	"github.com/singleboostr/boostr/internal/supervisor"
)

// Menu is the top-level mode selector.
type Menu struct {
	Env Environment
	// NewSession creates a fresh supervisor for each mode entry.
	NewSession func() *supervisor.Supervisor
	// ReturnDelay is the pause before going back to the selector after a
	// failed mode entry.
	ReturnDelay time.Duration

	mode Mode
}

// Run drives the selector until the user quits, input ends, or ctx is
// cancelled.
func (m *Menu) Run(ctx context.Context, lines <-chan string) error {
	if m.Env.Logger == nil {
		m.Env.Logger = log.Default()
	}
	m.mode = ModeSelect

	for {
		next, err := m.selectMode(ctx, lines)
		if err != nil {
			if errors.Is(err, ErrInputClosed) {
				return nil
			}
			return err
		}
		m.enter(next)

		switch next {
		case ModeManual, ModeFile:
			err = m.runBatch(ctx, lines, next)
		case ModeCommand:
			err = NewDispatcher(Command, m.NewSession(), m.Env).Run(ctx, lines)
		case ModeQuit:
			m.Env.Reporter.Rule()
			m.Env.Reporter.Info("thanks for using boostr, bye")
			return nil
		}

		if err != nil {
			if errors.Is(err, ErrInputClosed) {
				return nil
			}
			return err
		}
		m.enter(ModeSelect)
	}
}

// Mode returns the current console mode.
func (m *Menu) Mode() Mode {
	return m.mode
}

func (m *Menu) enter(to Mode) {
	if !CanTransition(m.mode, to) {
		m.Env.Logger.Warn("unexpected mode transition", "from", m.mode, "to", to)
	}
	m.Env.Logger.Debug("mode", "from", m.mode, "to", to)
	m.mode = to
}

func (m *Menu) printSelector() {
	r := m.Env.Reporter
	r.Rule()
	r.Info("boostr %s - Steam playtime idler", m.Env.Version)
	r.Rule()
	r.Plain("  select a mode:")
	r.Table([][2]string{
		{"1.", "enter AppIds manually"},
		{"2.", "read AppIds from " + m.Env.IndexFile},
		{"3.", "command mode"},
		{"4.", "quit"},
	})
	r.Rule()
	r.Prompt("  mode (1/2/3/4): ")
}

func (m *Menu) selectMode(ctx context.Context, lines <-chan string) (Mode, error) {
	if m.Env.Clear != nil {
		m.Env.Clear()
	}
	m.printSelector()

	for {
		line, err := readLine(ctx, lines)
		if err != nil {
			return ModeSelect, err
		}
		if mode, ok := selectorChoices[strings.TrimSpace(line)]; ok {
			return mode, nil
		}
		m.Env.Reporter.Prompt("  invalid choice, enter 1, 2, 3 or 4: ")
	}
}

// runBatch collects identifiers for the manual and file modes, launches
// them, and hands over to the interactive loop.
func (m *Menu) runBatch(ctx context.Context, lines <-chan string, mode Mode) error {
	r := m.Env.Reporter
	skip := func(token string) { r.Warn("[ignored] invalid AppId: %s", token) }

	var (
		ids appid.Set
		ok  bool
	)
	switch mode {
	case ModeManual:
		r.Rule()
		r.Plain("  enter AppIds (comma or space separated):")
		line, err := readLine(ctx, lines)
		if err != nil {
			return err
		}
		ids, ok = appid.Parse(line, skip)
	case ModeFile:
		var err error
		ids, err = appid.LoadFile(m.Env.IndexFile, skip)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			r.Error("[error] %s not found, create it and add AppIds first", m.Env.IndexFile)
		case err != nil:
			r.Error("[error] failed to read %s: %v", m.Env.IndexFile, err)
		}
		ok = err == nil && len(ids) > 0
	}

	if !ok {
		r.Warn("no valid AppIds, returning to mode selection in %s", m.ReturnDelay)
		pause(ctx, m.ReturnDelay)
		return ctx.Err()
	}

	sup := m.NewSession()
	r.Info("resolving game names, please wait...")
	sup.Prefetch(ctx, ids)
	r.Info("got %d valid AppId(s), starting child processes", len(ids))
	sup.StartBatch(ctx, ids)

	m.enter(ModeInteractive)
	return NewDispatcher(Interactive, sup, m.Env).Run(ctx, lines)
}

func readLine(ctx context.Context, lines <-chan string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lines:
		if !ok {
			return "", ErrInputClosed
		}
		return line, nil
	}
}

func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
