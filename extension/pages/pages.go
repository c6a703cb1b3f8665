// Package pages provides the pages extension: refreshing the page index,
// showing pages and choosing the page language and platform.
// Registers commands: refresh, show, language, platform, list, status.
package pages

import (
	"context"
	"errors"

	"github.com/jpl-au/tldr-panel/cmd"
	"github.com/jpl-au/tldr-panel/extension"
	"github.com/jpl-au/tldr-panel/internal/picker"
	"github.com/jpl-au/tldr-panel/internal/progress"
	"github.com/jpl-au/tldr-panel/internal/tldr"
	"github.com/spf13/cobra"
)

// ErrRefreshFailed is returned by commands whose refresh could not complete.
// The reason has already been shown to the user.
var ErrRefreshFailed = errors.New("refresh failed")

func init() {
	extension.Register(&Extension{})
}

// Extension implements the pages extension.
type Extension struct {
	ctx    extension.Context
	client *tldr.Client
}

// Compile-time interface compliance.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "pages".
func (e *Extension) Name() string { return "pages" }

// Init connects to the shared page client.
func (e *Extension) Init(ctx extension.Context) error {
	e.ctx = ctx
	e.client = ctx.Client()
	return nil
}

// Commands returns the page commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newRefreshCmd(),
		e.newShowCmd(),
		e.newLanguageCmd(),
		e.newPlatformCmd(),
		e.newListCmd(),
		e.newStatusCmd(),
	}
}

// MCPTools returns nil - page tools are provided by internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// ensureFresh refreshes an expired index behind a progress bar.
func (e *Extension) ensureFresh(ctx context.Context) tldr.Outcome {
	bar := progress.New("Refreshing page index")
	defer bar.Done()
	return e.client.EnsureFresh(ctx, bar)
}

// pick prompts on the command's input with choices listed on stderr.
func pick(placeholder string, items []string) (string, error) {
	return picker.New(cmd.In(), cmd.Err()).Pick(placeholder, items, "")
}
