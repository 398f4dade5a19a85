// Package report prints the human-readable console lines shared by the
// supervisor and the command loops.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const rule = "======================================"

// Reporter writes coloured status lines to one writer. Colour follows
// fatih/color's terminal detection, so buffers in tests get plain text.
type Reporter struct {
	out     io.Writer
	info    *color.Color
	success *color.Color
	warn    *color.Color
	fail    *color.Color
}

// New returns a Reporter writing to out.
func New(out io.Writer) *Reporter {
	return &Reporter{
		out:     out,
		info:    color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed),
	}
}

// Writer returns the underlying writer.
func (r *Reporter) Writer() io.Writer {
	return r.out
}

// Info prints a progress line.
func (r *Reporter) Info(format string, args ...any) {
	r.line(r.info, format, args...)
}

// Success prints a completion line.
func (r *Reporter) Success(format string, args ...any) {
	r.line(r.success, format, args...)
}

// Warn prints a non-fatal anomaly.
func (r *Reporter) Warn(format string, args ...any) {
	r.line(r.warn, format, args...)
}

// Error prints a failure line.
func (r *Reporter) Error(format string, args ...any) {
	r.line(r.fail, format, args...)
}

// Plain prints an uncoloured line.
func (r *Reporter) Plain(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Prompt prints text without a trailing newline.
func (r *Reporter) Prompt(text string) {
	fmt.Fprint(r.out, text)
}

// Rule prints a separator line.
func (r *Reporter) Rule() {
	r.Plain(rule)
}

// Table prints rows as aligned two-column entries.
func (r *Reporter) Table(rows [][2]string) {
	width := 0
	for _, row := range rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}
	for _, row := range rows {
		r.Plain("  %s%s  %s", row[0], strings.Repeat(" ", width-len(row[0])), row[1])
	}
}

func (r *Reporter) line(c *color.Color, format string, args ...any) {
	c.Fprintf(r.out, format+"\n", args...)
}
