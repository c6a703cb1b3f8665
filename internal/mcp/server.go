// Package mcp implements the Model Context Protocol server, exposing
// tldr-panel operations to LLMs: page lookup, cache refresh, and the
// language and platform preferences.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jpl-au/tldr-panel/extension"
	"github.com/jpl-au/tldr-panel/internal/progress"
	"github.com/jpl-au/tldr-panel/internal/version"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Name is advertised to clients during capability negotiation.
const Name = "tldr-panel"

// Serve starts the MCP server over stdio. Tools contributed by extensions
// are registered after the built-in ones.
func Serve(extCtx extension.Context, extra []extension.MCPTool) error {
	// Log to stderr; stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	s := NewServer(extCtx, extra, logger)

	slog.Info("tldr-panel MCP server ready", "version", version.Version, "transport", "stdio")

	err := server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// NewServer builds the MCP server without starting a transport.
func NewServer(extCtx extension.Context, extra []extension.MCPTool, logger *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		Name,
		version.Version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)

	h := newHandlers(extCtx, logger)
	registerResources(s, h)
	registerTools(s, h)

	for _, t := range extra {
		s.AddTools(t.Bind(extCtx))
	}
	return s
}

// handlers provides MCP request handlers with access to the page client.
type handlers struct {
	ext      extension.Context
	progress progress.Reporter
}

func newHandlers(extCtx extension.Context, logger *slog.Logger) *handlers {
	h := &handlers{ext: extCtx, progress: progress.Nop}
	if logger != nil {
		h.progress = progress.Func(func(u progress.Update) {
			if u.Message != "" {
				logger.Debug("progress", "message", u.Message, "increment", u.Increment)
			}
		})
	}
	return h
}

// registerResources adds URI-based access to pages.
func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"tldr://pages/{command}",
			"Page",
			mcp.WithTemplateDescription("Read the tldr page for a command in the configured language and platform"),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		h.readPage,
	)
}

// registerTools exposes tldr-panel operations as MCP tools.
func registerTools(s *server.MCPServer, h *handlers) {
	s.AddTool(
		mcp.NewTool("tldr_page",
			mcp.WithDescription("Get the tldr page for a command. Refreshes the page index first if it has expired."),
			mcp.WithString("command", mcp.Required(), mcp.Description("Command name, e.g. 'tar' or 'git-commit'")),
			mcp.WithString("language", mcp.Description("Page language (default: configured language)")),
			mcp.WithString("platform", mcp.Description("Page platform: android, common, linux, osx, sunos, windows (default: configured platform)")),
		),
		h.page,
	)

	s.AddTool(
		mcp.NewTool("tldr_refresh",
			mcp.WithDescription("Rebuild the page index from the tldr-pages repository"),
			mcp.WithBoolean("force", mcp.Description("Refresh even if the cache has not expired")),
		),
		h.refresh,
	)

	s.AddTool(
		mcp.NewTool("tldr_commands",
			mcp.WithDescription("List commands in the page index"),
			mcp.WithString("query", mcp.Description("Fuzzy filter applied to command names")),
		),
		h.commands,
	)

	s.AddTool(
		mcp.NewTool("tldr_languages",
			mcp.WithDescription("List languages in the page index and the configured default"),
		),
		h.languages,
	)

	s.AddTool(
		mcp.NewTool("tldr_status",
			mcp.WithDescription("Report when the page index was last refreshed, when it expires and what is cached. Does not refresh."),
		),
		h.status,
	)

	s.AddTool(
		mcp.NewTool("tldr_set_language",
			mcp.WithDescription("Set the default page language. Empty resets to 'en'."),
			mcp.WithString("language", mcp.Required(), mcp.Description("Language code, e.g. 'de' or 'pt_BR'")),
		),
		h.setLanguage,
	)

	s.AddTool(
		mcp.NewTool("tldr_set_platform",
			mcp.WithDescription("Set the default page platform. Empty reverts to the host platform."),
			mcp.WithString("platform", mcp.Required(), mcp.Description("One of android, common, linux, osx, sunos, windows")),
		),
		h.setPlatform,
	)

	s.AddTool(
		mcp.NewTool("tldr_config_get",
			mcp.WithDescription("Get a configuration value"),
			mcp.WithString("key", mcp.Description("Config key (cache.timeout_minutes, language.default, platform.default, panel.position, debug.show_info) or empty for all")),
		),
		h.configGet,
	)

	s.AddTool(
		mcp.NewTool("tldr_config_set",
			mcp.WithDescription("Set a configuration value. An empty value resets the key."),
			mcp.WithString("key", mcp.Required(), mcp.Description("Config key")),
			mcp.WithString("value", mcp.Required(), mcp.Description("Value to set")),
		),
		h.configSet,
	)

	s.AddTool(
		mcp.NewTool("tldr_guide",
			mcp.WithDescription("Get help/guide content for tldr-panel"),
			mcp.WithString("topic", mcp.Description("Guide topic (e.g. 'config', 'mcp') or empty for the main guide")),
		),
		h.getGuide,
	)
}
