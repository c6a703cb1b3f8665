// version.go implements the version command and its MCP tool.

package core

import (
	"context"
	"fmt"

	"github.com/jpl-au/tldr-panel/cmd"
	"github.com/jpl-au/tldr-panel/extension"
	"github.com/jpl-au/tldr-panel/internal/version"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, git commit, Go version, and platform.`,
		Run: func(_ *cobra.Command, _ []string) {
			info := version.Get()
			if cmd.JSON() {
				_ = cmd.PrintJSON(info)
				return
			}
			fmt.Fprint(cmd.Out(), info.String())
		},
	}
}

func versionTool() extension.MCPTool {
	return extension.MCPTool{
		Tool: mcp.NewTool("tldr_version",
			mcp.WithDescription("Get tldr-panel build information"),
		),
		Handler: func(_ context.Context, _ extension.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(version.Get().String()), nil
		},
	}
}
