// tools_config.go implements MCP tools for configuration management.
//
// The server shares one *config.Config with the page client, so a change
// applies to the next tool call without a reload.

package mcp

import (
	"context"
	"fmt"

	"github.com/jpl-au/tldr-panel/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// configGet handles tldr_config_get tool calls.
func (h *handlers) configGet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.ext.Config()

	key := getString(req, "key", "")
	if key == "" {
		log.Event("mcp:tldr_config_get", "list").Write(nil)
		return jsonResult(cfg.All())
	}

	v, err := cfg.Get(key)

	log.Event("mcp:tldr_config_get", "get").Detail("key", key).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{key: v})
}

// configSet handles tldr_config_set tool calls.
func (h *handlers) configSet(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil //nolint:nilerr
	}
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("value is required"), nil //nolint:nilerr
	}

	cfg := h.ext.Config()
	if err := cfg.Set(key, value); err != nil {
		log.Event("mcp:tldr_config_set", "set").Detail("key", key).Detail("value", value).Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = cfg.Save()

	log.Event("mcp:tldr_config_set", "set").Detail("key", key).Detail("value", value).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	v, _ := cfg.Get(key)
	return mcp.NewToolResultText(fmt.Sprintf("%s = %s", key, v)), nil
}
