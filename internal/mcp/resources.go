// resources.go implements MCP resource handlers for page access.
//
// Resource URIs follow tldr://pages/{command}. The page is resolved with
// the configured language and platform, exactly as tldr_page does without
// overrides.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jpl-au/tldr-panel/internal/log"
	"github.com/jpl-au/tldr-panel/internal/notify"
	"github.com/jpl-au/tldr-panel/internal/tldr"
	"github.com/mark3labs/mcp-go/mcp"
)

// PageURIPrefix is the scheme and host of page resource URIs.
const PageURIPrefix = "tldr://pages/"

var (
	// ErrInvalidURI indicates a malformed resource URI.
	ErrInvalidURI = errors.New("invalid URI")
	// ErrEmptyCommand indicates a page URI with no command.
	ErrEmptyCommand = errors.New("empty command")
)

// readPage handles tldr://pages/{command} resource requests.
func (h *handlers) readPage(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	command, err := parsePageURI(uri)
	if err != nil {
		return nil, err
	}

	client := h.ext.Client().WithSink(notify.Discard)
	client.EnsureFresh(ctx, h.progress)
	res := client.Resolve(ctx, h.progress, command, tldr.ResolveOptions{})

	log.Event("mcp:resource", "resolve").
		Command(command).
		Language(res.Language).
		Platform(res.Platform).
		Detail("kind", res.Kind.String()).
		Write(res.Err())

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     res.Text(),
		},
	}, nil
}

// parsePageURI extracts the command from a page URI.
func parsePageURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, PageURIPrefix) {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	rest := strings.TrimPrefix(uri, PageURIPrefix)
	command, err := url.PathUnescape(rest)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	if command == "" {
		return "", ErrEmptyCommand
	}
	return command, nil
}
