// Package tldr keeps the local page index in step with the tldr-pages
// repository and resolves commands to page text.
//
// Neither Refresh nor Resolve returns an error. Refresh reports failures
// through the notification sink and leaves the cache untouched; Resolve
// folds every failure into its Result so the caller always has something
// to show.
package tldr

import (
	"io"
	"log/slog"

	"github.com/jpl-au/tldr-panel/internal/memory"
	"github.com/jpl-au/tldr-panel/internal/notify"
	"github.com/jpl-au/tldr-panel/internal/remote"
)

// Upstream locations of the tldr-pages repository.
const (
	TreeURL    = "https://api.github.com/repos/tldr-pages/tldr/git/trees/main?recursive=0"
	RawBaseURL = "https://raw.githubusercontent.com/tldr-pages/tldr/main"
)

// Source locates the page listing and the raw page content.
type Source struct {
	TreeURL    string
	RawBaseURL string
}

// DefaultSource is the public tldr-pages repository.
var DefaultSource = Source{TreeURL: TreeURL, RawBaseURL: RawBaseURL}

// Client refreshes the cache and resolves pages.
type Client struct {
	mem    *memory.Memory
	fetch  remote.Fetcher
	notify notify.Sink
	src    Source
	log    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithSource points the client at a different repository layout, such as
// a mirror or a test server.
func WithSource(s Source) Option {
	return func(c *Client) { c.src = s }
}

// WithLogger sets the diagnostics logger. Diagnostics are discarded by
// default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a client over mem that fetches with f and reports
// user-facing errors to sink.
func New(mem *memory.Memory, f remote.Fetcher, sink notify.Sink, opts ...Option) *Client {
	c := &Client{
		mem:    mem,
		fetch:  f,
		notify: sink,
		src:    DefaultSource,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(c)
	}
	if c.notify == nil {
		c.notify = notify.Discard
	}
	return c
}

// Memory returns the settings and state the client works against.
func (c *Client) Memory() *memory.Memory {
	return c.mem
}

// Source returns where pages are fetched from.
func (c *Client) Source() Source {
	return c.src
}

// WithSink returns a copy of the client that reports user-facing errors to
// s. Used where errors should be returned to a caller rather than printed.
func (c *Client) WithSink(s notify.Sink) *Client {
	cp := *c
	cp.notify = s
	return &cp
}
