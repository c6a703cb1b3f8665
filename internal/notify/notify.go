// Package notify is the user-facing error sink. Operations that absorb their
// own failures (cache refresh, page resolution) use it to tell the user what
// went wrong without returning an error.
package notify

import (
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Sink receives user-facing error messages.
type Sink interface {
	Error(msg string)
}

// Func adapts a plain function to a Sink.
type Func func(msg string)

// Error calls f(msg).
func (f Func) Error(msg string) { f(msg) }

// Discard drops every message.
var Discard Sink = Func(func(string) {})

// Terminal prints messages in red to a writer, stderr by default.
type Terminal struct {
	w     io.Writer
	paint *color.Color
}

// NewTerminal returns a sink writing to stderr.
func NewTerminal() *Terminal {
	return NewTerminalTo(os.Stderr)
}

// NewTerminalTo returns a sink writing to w. Colour is disabled
// automatically when the process is not attached to a terminal.
func NewTerminalTo(w io.Writer) *Terminal {
	return &Terminal{w: w, paint: color.New(color.FgRed, color.Bold)}
}

// Error writes msg on its own line.
func (t *Terminal) Error(msg string) {
	_, _ = t.paint.Fprintln(t.w, msg)
}

// Collector keeps every message. Safe for concurrent use.
type Collector struct {
	mu   sync.Mutex
	msgs []string
}

// Error records msg.
func (c *Collector) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

// Messages returns a copy of the recorded messages.
func (c *Collector) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.msgs))
	copy(out, c.msgs)
	return out
}
