// tools_pages.go implements MCP tools for page lookup and the page index.
//
// The client reports refresh and lookup failures through a notify sink
// rather than returning errors. Each call swaps in a Collector so those
// messages reach the LLM instead of the server's stderr.

package mcp

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jpl-au/tldr-panel/internal/changes"
	"github.com/jpl-au/tldr-panel/internal/log"
	"github.com/jpl-au/tldr-panel/internal/notify"
	"github.com/jpl-au/tldr-panel/internal/pages"
	"github.com/jpl-au/tldr-panel/internal/picker"
	"github.com/jpl-au/tldr-panel/internal/tldr"
	"github.com/mark3labs/mcp-go/mcp"
)

// page handles tldr_page tool calls.
func (h *handlers) page(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command := strings.TrimSpace(getString(req, "command", ""))
	if command == "" {
		return mcp.NewToolResultError("command is required"), nil
	}
	opts := tldr.ResolveOptions{
		Language: getString(req, "language", ""),
		Platform: getString(req, "platform", ""),
	}
	if opts.Platform != "" && !pages.IsPlatform(opts.Platform) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown platform %q: must be one of %s",
			opts.Platform, strings.Join(pages.Platforms(), ", "))), nil
	}

	var sink notify.Collector
	client := h.ext.Client().WithSink(&sink)
	client.EnsureFresh(ctx, h.progress)
	res := client.Resolve(ctx, h.progress, command, opts)

	log.Event("mcp:tldr_page", "resolve").
		Command(command).
		Language(res.Language).
		Platform(res.Platform).
		Detail("kind", res.Kind.String()).
		Write(res.Err())

	if res.Kind != tldr.KindFound {
		msg := res.Text()
		if len(res.Available) > 0 {
			msg += "\nAvailable languages: " + strings.Join(res.Available, ", ")
		}
		return mcp.NewToolResultError(withNotices(msg, sink.Messages())), nil
	}
	return mcp.NewToolResultText(res.Markdown), nil
}

// refresh handles tldr_refresh tool calls.
func (h *handlers) refresh(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	force := getBool(req, "force", false)
	mem := h.ext.Memory()

	before, err := mem.CommandList(ctx)
	if err != nil {
		log.Event("mcp:tldr_refresh", "refresh").Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sink notify.Collector
	outcome := h.ext.Client().WithSink(&sink).Refresh(ctx, h.progress, force)

	after, err := mem.CommandList(ctx)
	if err != nil {
		log.Event("mcp:tldr_refresh", "refresh").Detail("outcome", outcome.String()).Write(err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	sum := changes.Compute(before, after)

	var refreshErr error
	if outcome == tldr.Failed {
		refreshErr = fmt.Errorf("refresh failed: %s", strings.Join(sink.Messages(), "; "))
	}
	log.Event("mcp:tldr_refresh", "refresh").
		Detail("outcome", outcome.String()).
		Detail("forced", force).
		Detail("commands", len(after)).
		Write(refreshErr)

	if outcome == tldr.Failed {
		return mcp.NewToolResultError(withNotices("refresh failed", sink.Messages())), nil
	}
	return jsonResult(map[string]any{
		"outcome":  outcome.String(),
		"commands": len(after),
		"added":    sum.Added,
		"removed":  sum.Removed,
	})
}

// commands handles tldr_commands tool calls.
func (h *handlers) commands(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := getString(req, "query", "")
	cmds, err := h.ext.Memory().CommandList(ctx)
	if err == nil {
		cmds = picker.Match(query, cmds)
	}

	log.Event("mcp:tldr_commands", "list").Detail("query", query).Detail("count", len(cmds)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(cmds)
}

// languages handles tldr_languages tool calls.
func (h *handlers) languages(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mem := h.ext.Memory()
	langs, err := mem.LanguageList(ctx)

	log.Event("mcp:tldr_languages", "list").Detail("count", len(langs)).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"default":   mem.DefaultLanguage(),
		"languages": langs,
	})
}

// status handles tldr_status tool calls.
func (h *handlers) status(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := h.ext.Memory().Status(ctx)

	log.Event("mcp:tldr_status", "read").Detail("commands", st.Commands).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(st)
}

// setLanguage handles tldr_set_language tool calls.
func (h *handlers) setLanguage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lang, err := req.RequireString("language")
	if err != nil {
		return mcp.NewToolResultError("language is required"), nil //nolint:nilerr
	}
	lang = strings.TrimSpace(lang)
	mem := h.ext.Memory()

	if lang != "" {
		langs, err := mem.LanguageList(ctx)
		if err != nil {
			log.Event("mcp:tldr_set_language", "set").Language(lang).Write(err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		if len(langs) > 0 && !slices.Contains(langs, lang) {
			err := fmt.Errorf("language %q is not in the page index", lang)
			log.Event("mcp:tldr_set_language", "set").Language(lang).Write(err)
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	err = mem.SetDefaultLanguage(lang)

	log.Event("mcp:tldr_set_language", "set").Language(lang).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("language.default = " + mem.DefaultLanguage()), nil
}

// setPlatform handles tldr_set_platform tool calls.
func (h *handlers) setPlatform(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	platform, err := req.RequireString("platform")
	if err != nil {
		return mcp.NewToolResultError("platform is required"), nil //nolint:nilerr
	}
	platform = strings.TrimSpace(platform)
	mem := h.ext.Memory()

	err = mem.SetPlatformOverride(platform)

	log.Event("mcp:tldr_set_platform", "set").Platform(platform).Write(err)

	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("platform.default = " + mem.DefaultPlatform()), nil
}

// withNotices appends sink messages to msg.
func withNotices(msg string, notices []string) string {
	if len(notices) == 0 {
		return msg
	}
	return msg + "\n" + strings.Join(notices, "\n")
}
