// Package core provides the core extension for tldr-panel.
// It registers commands: config, serve, guide, version.
package core

import (
	"github.com/jpl-au/tldr-panel/extension"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the core extension.
type Extension struct {
	ctx extension.Context
}

// Compile-time interface compliance.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
	_ extension.Storeless     = (*Extension)(nil)
)

// Name returns "core".
func (e *Extension) Name() string { return "core" }

// Init receives the shared context; serve hands it to the MCP server.
func (e *Extension) Init(ctx extension.Context) error {
	e.ctx = ctx
	return nil
}

// Commands returns the core CLI commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newConfigCmd(),
		e.newServeCmd(),
		newGuideCmd(),
		newVersionCmd(),
	}
}

// MCPTools returns the version tool. The page tools are built into the
// server itself.
func (e *Extension) MCPTools() []extension.MCPTool {
	return []extension.MCPTool{versionTool()}
}

// NoStoreCommands returns commands that work without the state store.
func (e *Extension) NoStoreCommands() []string {
	return []string{"config", "guide", "version"}
}
