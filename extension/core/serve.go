// serve.go implements the "tldr-panel serve" command for MCP server operation.
//
// Unlike other commands that run and exit, serve blocks handling MCP
// requests over stdio until the client disconnects.

package core

import (
	"github.com/jpl-au/tldr-panel/cmd"
	"github.com/jpl-au/tldr-panel/internal/log"
	"github.com/jpl-au/tldr-panel/internal/mcp"
	"github.com/spf13/cobra"
)

func (e *Extension) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start MCP server",
		Long: `Start an MCP (Model Context Protocol) server over stdio for LLM integration.

Tools: tldr_page, tldr_refresh, tldr_commands, tldr_languages,
tldr_set_language, tldr_set_platform, tldr_config_get, tldr_config_set,
tldr_guide, tldr_version.
Resource: tldr://pages/{command}

See 'tldr-panel guide mcp' for client configuration.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			err := mcp.Serve(e.ctx, cmd.MCPTools())
			log.Event("core:serve", "serve").Write(err)
			return err
		},
	}
}
