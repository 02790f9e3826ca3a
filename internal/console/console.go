// Package console prints operator-facing progress lines. Status, warning and
// error lines are told apart by color.
package console

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/gookit/color"
)

// Printer writes styled lines to a writer. It is safe for concurrent use and
// is itself an io.Writer so that raw output (like the log tail redraw) is
// serialized with the styled lines.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Write implements io.Writer.
func (p *Printer) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.w.Write(b)
}

func (p *Printer) line(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, s)
}

// Status announces the next thing the tool is doing.
func (p *Printer) Status(format string, args ...any) {
	p.line(color.Info.Sprintf(">>> "+format, args...))
}

// Success reports something that finished well.
func (p *Printer) Success(format string, args ...any) {
	p.line(color.Success.Sprintf(format, args...))
}

// Warn reports something the operator should notice but that does not stop the run.
func (p *Printer) Warn(format string, args ...any) {
	p.line(color.Warn.Sprintf("WARNING: "+format, args...))
}

// Error reports a failure.
func (p *Printer) Error(format string, args ...any) {
	p.line(color.Danger.Sprintf("ERROR: "+format, args...))
}

// Detail prints an indented, unstyled line.
func (p *Printer) Detail(format string, args ...any) {
	p.line("    " + fmt.Sprintf(format, args...))
}

// Values prints a map as sorted `key = "value"` lines.
func (p *Printer) Values(values map[string]string) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.Detail("%s = %q", k, values[k])
	}
}
