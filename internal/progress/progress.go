// Package progress provides the progress sink used by long-running
// operations. Operations report increments that sum to roughly 100 units;
// the terminal implementation turns them into a percentage on stderr,
// and TTY detection keeps scripted output clean.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// Total is the nominal sum of increments for one logical operation.
const Total = 100

// Update is a single progress notification. Either field may be zero.
type Update struct {
	Message   string
	Increment float64
}

// Reporter receives progress updates.
type Reporter interface {
	Report(u Update)
}

// Func adapts a plain function to a Reporter.
type Func func(u Update)

// Report calls f(u).
func (f Func) Report(u Update) { f(u) }

// Nop discards all updates.
var Nop Reporter = Func(func(Update) {})

// Bar renders cumulative progress on stderr.
type Bar struct {
	w       io.Writer
	label   string
	current float64
	message string
	isTTY   bool
}

// New creates a bar that writes to stderr.
func New(label string) *Bar {
	return &Bar{
		w:     os.Stderr,
		label: label,
		isTTY: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Report accumulates the increment and redraws the line.
// On non-TTY output this only tracks the total.
func (b *Bar) Report(u Update) {
	b.current += u.Increment
	if u.Message != "" {
		b.message = u.Message
	}
	if !b.isTTY {
		return
	}

	pct := min(int(b.current), Total)
	if b.message != "" {
		fmt.Fprintf(b.w, "\r%s: %s... %d%%", b.label, b.message, pct)
		return
	}
	fmt.Fprintf(b.w, "\r%s... %d%%", b.label, pct)
}

// Current returns the accumulated increments.
func (b *Bar) Current() float64 {
	return b.current
}

// Done clears the progress line (on TTY) to make way for final output.
func (b *Bar) Done() {
	if b.isTTY {
		fmt.Fprintf(b.w, "\r%s\r", "                                                            ")
	}
}

// Recorder keeps every update it receives. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	updates []Update
}

// Report appends u.
func (r *Recorder) Report(u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

// Updates returns a copy of the recorded updates.
func (r *Recorder) Updates() []Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Update, len(r.updates))
	copy(out, r.updates)
	return out
}

// Increments returns just the increments, in order.
func (r *Recorder) Increments() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.updates))
	for i, u := range r.updates {
		out[i] = u.Increment
	}
	return out
}

// Sum returns the total of all increments.
func (r *Recorder) Sum() float64 {
	var s float64
	for _, inc := range r.Increments() {
		s += inc
	}
	return s
}
