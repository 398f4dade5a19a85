// Package console runs the line-oriented menus and command loops in front
// of a supervisor session.
package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/singleboostr/boostr/internal/appid"
	"github.com/singleboostr/boostr/internal/report"
	"github.com/singleboostr/boostr/internal/supervisor"
)

// ErrInputClosed is returned when the console input reaches EOF.
var ErrInputClosed = errors.New("console input closed")

// Variant selects the command vocabulary of a Dispatcher.
type Variant int

const (
	// Interactive is the loop entered after a batch launch; it cannot
	// start anything new.
	Interactive Variant = iota
	// Command is the full command mode.
	Command
)

// Environment bundles the collaborators a Dispatcher needs beyond the
// supervisor.
type Environment struct {
	Reporter  *report.Reporter
	Logger    *log.Logger
	Version   string
	IndexFile string
	// Discover returns the locally installed identifiers for "all".
	Discover func() (appid.Set, error)
	// OpenFile opens a path with the OS default handler.
	OpenFile func(path string) error
	// Clear wipes the terminal.
	Clear func()
}

type handler func(ctx context.Context, d *Dispatcher, operand string) (exit bool)

type command struct {
	name     string
	usage    string
	summary  string
	variants map[Variant]bool
	run      handler
}

var both = map[Variant]bool{Interactive: true, Command: true}

var commandTable = []command{
	{name: "start", usage: "start <ids>", summary: "start idling the given AppIds (comma or space separated)", variants: map[Variant]bool{Command: true}, run: cmdStart},
	{name: "stop", usage: "stop <ids>", summary: "stop the idle process for the given AppIds", variants: both, run: cmdStop},
	{name: "list", usage: "list", summary: "list running idle processes", variants: both, run: cmdList},
	{name: "stopall", usage: "stopall", summary: "stop every idle process", variants: both, run: cmdStopAll},
	{name: "all", usage: "all", summary: "start every game installed in the local Steam library", variants: map[Variant]bool{Command: true}, run: cmdAll},
	{name: "help", usage: "help", summary: "show this command list", variants: both, run: cmdHelp},
	{name: "file", usage: "file", summary: "open the identifier file in the default editor", variants: both, run: cmdFile},
	{name: "version", usage: "version", summary: "show version information", variants: both, run: cmdVersion},
	{name: "clear", usage: "clear", summary: "clear the screen", variants: both, run: cmdClear},
	{name: "exit", usage: "exit", summary: "stop everything and return to mode selection", variants: both, run: cmdExit},
}

// Dispatcher reads commands and routes them to a supervisor session.
type Dispatcher struct {
	variant  Variant
	sup      *supervisor.Supervisor
	env      Environment
	commands map[string]command
	order    []command
}

// NewDispatcher builds a dispatcher for one session.
func NewDispatcher(variant Variant, sup *supervisor.Supervisor, env Environment) *Dispatcher {
	if env.Logger == nil {
		env.Logger = log.Default()
	}

	d := &Dispatcher{variant: variant, sup: sup, env: env, commands: make(map[string]command)}
	for _, c := range commandTable {
		if c.variants[variant] {
			d.commands[c.name] = c
			d.order = append(d.order, c)
		}
	}
	return d
}

// Run processes lines until "exit", EOF, or cancellation. Exit
// notifications from the session are applied between commands. The
// session is always closed before Run returns.
func (d *Dispatcher) Run(ctx context.Context, lines <-chan string) error {
	d.Banner()
	if d.variant == Interactive {
		d.sup.List()
	}
	d.prompt()

	for {
		select {
		case <-ctx.Done():
			d.sup.Close()
			return ctx.Err()

		case ev := <-d.sup.Events():
			if _, reported := d.sup.HandleExit(ev); reported {
				d.prompt()
			}

		case line, ok := <-lines:
			if !ok {
				d.env.Reporter.Plain("")
				d.sup.Close()
				return ErrInputClosed
			}
			if d.Execute(ctx, line) {
				return nil
			}
			d.prompt()
		}
	}
}

// Execute runs one command line and reports whether the loop should end.
func (d *Dispatcher) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	verb := strings.ToLower(fields[0])
	operand := strings.Join(fields[1:], " ")

	cmd, ok := d.commands[verb]
	if !ok {
		d.env.Reporter.Error("[error] unknown command: %s, type help for the command list", verb)
		return false
	}

	d.env.Logger.Debug("command", "verb", verb, "operand", operand, "session", d.sup.Session())
	return cmd.run(ctx, d, operand)
}

// Banner prints the title and the command table for this variant.
func (d *Dispatcher) Banner() {
	r := d.env.Reporter
	r.Rule()
	r.Info("boostr %s - Steam playtime idler", d.env.Version)
	r.Rule()
	r.Plain("  commands (case-insensitive):")
	r.Table(d.helpRows())
	r.Rule()
}

func (d *Dispatcher) helpRows() [][2]string {
	rows := make([][2]string, 0, len(d.order))
	for _, c := range d.order {
		rows = append(rows, [2]string{c.usage, c.summary})
	}
	return rows
}

func (d *Dispatcher) prompt() {
	d.env.Reporter.Prompt("> ")
}

// parseOperand turns a start/stop operand into identifiers, reporting
// problems. It returns false when nothing should be done.
func (d *Dispatcher) parseOperand(verb, operand string) (appid.Set, bool) {
	r := d.env.Reporter
	if operand == "" {
		r.Error("[error] missing AppId, usage: %s 730 or %s 730,883710 or %s 730 883710", verb, verb, verb)
		return nil, false
	}

	ids, ok := appid.Parse(operand, func(token string) {
		r.Warn("[ignored] invalid AppId: %s", token)
	})
	if !ok {
		r.Error("[error] no valid AppId, nothing to %s", verb)
		return nil, false
	}
	return ids, true
}

func cmdStart(ctx context.Context, d *Dispatcher, operand string) bool {
	ids, ok := d.parseOperand("start", operand)
	if !ok {
		return false
	}
	d.sup.StartBatch(ctx, ids)
	return false
}

func cmdStop(_ context.Context, d *Dispatcher, operand string) bool {
	ids, ok := d.parseOperand("stop", operand)
	if !ok {
		return false
	}
	d.sup.StopBatch(ids)
	return false
}

func cmdList(_ context.Context, d *Dispatcher, _ string) bool {
	d.sup.List()
	return false
}

func cmdStopAll(_ context.Context, d *Dispatcher, _ string) bool {
	d.sup.StopAll()
	return false
}

func cmdAll(ctx context.Context, d *Dispatcher, _ string) bool {
	r := d.env.Reporter
	r.Rule()
	r.Info("[all] scanning the local Steam library...")

	if d.env.Discover == nil {
		r.Error("[all] library discovery is not available")
		return false
	}

	ids, err := d.env.Discover()
	if err != nil {
		r.Error("[all] failed to read the Steam library: %v", err)
	}
	if len(ids) == 0 {
		r.Warn("[all] no installed games found, nothing to start")
		return false
	}

	r.Info("[all] found %d installed game(s)", len(ids))
	d.sup.StartBatch(ctx, ids)
	return false
}

func cmdHelp(_ context.Context, d *Dispatcher, _ string) bool {
	r := d.env.Reporter
	r.Rule()
	r.Plain("  commands:")
	r.Table(d.helpRows())
	r.Rule()
	return false
}

func cmdFile(_ context.Context, d *Dispatcher, _ string) bool {
	r := d.env.Reporter
	if d.env.OpenFile == nil {
		r.Error("[file] opening files is not available")
		return false
	}
	r.Info("[file] opening %s", d.env.IndexFile)
	if err := d.env.OpenFile(d.env.IndexFile); err != nil {
		r.Error("[file] failed to open %s: %v", d.env.IndexFile, err)
		return false
	}
	r.Success("[file] opened %s", d.env.IndexFile)
	return false
}

func cmdVersion(_ context.Context, d *Dispatcher, _ string) bool {
	d.env.Reporter.Rule()
	for _, line := range VersionLines(d.env.Version) {
		d.env.Reporter.Plain("%s", line)
	}
	d.env.Reporter.Rule()
	return false
}

func cmdClear(_ context.Context, d *Dispatcher, _ string) bool {
	if d.env.Clear != nil {
		d.env.Clear()
	}
	d.Banner()
	return false
}

func cmdExit(_ context.Context, d *Dispatcher, _ string) bool {
	r := d.env.Reporter
	r.Info("[exit] cleaning up, returning to mode selection...")
	d.sup.Close()
	r.Info("[exit] done")
	return true
}

// String names the variant.
func (v Variant) String() string {
	switch v {
	case Interactive:
		return "interactive"
	case Command:
		return "command"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}
