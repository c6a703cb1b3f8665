// context.go defines the Context interface for extension access to
// tldr-panel internals.
//
// Extensions receive a Context during Init and in MCP handlers, after the
// state store has been opened, rather than at construction.

package extension

import (
	"github.com/jpl-au/tldr-panel/internal/config"
	"github.com/jpl-au/tldr-panel/internal/memory"
	"github.com/jpl-au/tldr-panel/internal/tldr"
)

// Context provides extensions controlled access to shared resources.
type Context interface {
	// Client refreshes the page index and resolves pages.
	Client() *tldr.Client

	// Memory exposes settings and cached state.
	Memory() *memory.Memory

	// Config returns the loaded configuration file.
	Config() *config.Config

	// Dir is the state directory in use.
	Dir() string
}

// extContext implements Context.
type extContext struct {
	client *tldr.Client
	cfg    *config.Config
	dir    string
}

// NewContext creates a new extension context.
func NewContext(client *tldr.Client, cfg *config.Config, dir string) Context {
	return &extContext{client: client, cfg: cfg, dir: dir}
}

func (c *extContext) Client() *tldr.Client   { return c.client }
func (c *extContext) Memory() *memory.Memory { return c.client.Memory() }
func (c *extContext) Config() *config.Config { return c.cfg }
func (c *extContext) Dir() string            { return c.dir }
