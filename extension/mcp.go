package extension

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPHandler handles one call of an extension's MCP tool. extCtx is the
// same context the extension was initialised with.
type MCPHandler func(ctx context.Context, extCtx Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// MCPTool is a tool an extension contributes to the MCP server.
type MCPTool struct {
	Tool    mcp.Tool
	Handler MCPHandler
}

// Bind closes the handler over extCtx so it can be registered with the
// server directly.
func (t MCPTool) Bind(extCtx Context) server.ServerTool {
	h := t.Handler
	return server.ServerTool{
		Tool: t.Tool,
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return h(ctx, extCtx, req)
		},
	}
}
