// Package extension provides the plugin architecture for tldr-panel.
// Extensions bundle CLI commands and MCP tools and register at init time.
package extension

import (
	"github.com/spf13/cobra"
)

// Extension defines the contract for tldr-panel extensions.
type Extension interface {
	// Name returns a unique identifier for this extension.
	Name() string

	// Commands returns CLI commands to register with the root command.
	Commands() []*cobra.Command

	// MCPTools returns MCP tools to register with the server.
	MCPTools() []MCPTool
}

// Initializable extensions can perform setup once the state store is open.
type Initializable interface {
	Extension
	Init(ctx Context) error
}

// Storeless is an optional interface for extensions with commands that
// don't need the state store. Commands returned by NoStoreCommands() will
// not trigger store initialisation in PersistentPreRunE.
type Storeless interface {
	NoStoreCommands() []string
}
