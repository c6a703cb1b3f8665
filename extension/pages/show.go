// show.go implements the "tldr-panel show" command.
//
// Without an argument the user picks a command from the cached index. The
// page is shown according to panel.position: rendered in the terminal
// (active) or written to an HTML file whose path is printed (beside).

package pages

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jpl-au/tldr-panel/cmd"
	"github.com/jpl-au/tldr-panel/extension"
	"github.com/jpl-au/tldr-panel/internal/log"
	"github.com/jpl-au/tldr-panel/internal/pages"
	"github.com/jpl-au/tldr-panel/internal/preview"
	"github.com/jpl-au/tldr-panel/internal/progress"
	"github.com/jpl-au/tldr-panel/internal/tldr"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newShowCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "show [command]",
		Short: "Show the page for a command",
		Long: `Show the tldr page for a command in the configured language and platform.

  tldr-panel show              # pick a command
  tldr-panel show tar          # page for tar
  tldr-panel show tar -L de    # German page
  tldr-panel show dir -p windows
  tldr-panel show git --raw    # markdown, never rendered

When the platform has no page, the common page is used, then the first
platform the command has. The language does not fall back.`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runShow,
	}
	c.Flags().StringP(extension.FlagLanguage, "L", "", "Page language for this lookup")
	c.Flags().StringP(extension.FlagPlatform, "p", "", "Page platform for this lookup")
	c.Flags().Bool(extension.FlagRaw, false, "Print markdown without rendering")
	_ = c.RegisterFlagCompletionFunc(extension.FlagPlatform, func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return pages.Platforms(), cobra.ShellCompDirectiveNoFileComp
	})
	return c
}

// showResult is the JSON shape of a shown page.
type showResult struct {
	tldr.Result
	Shown *preview.Shown `json:"shown,omitempty"`
}

func (e *Extension) runShow(c *cobra.Command, args []string) error {
	ctx := c.Context()
	mem := e.client.Memory()

	var opts tldr.ResolveOptions
	opts.Language, _ = c.Flags().GetString(extension.FlagLanguage)
	opts.Platform, _ = c.Flags().GetString(extension.FlagPlatform)
	raw, _ := c.Flags().GetBool(extension.FlagRaw)
	if opts.Platform != "" && !pages.IsPlatform(opts.Platform) {
		return cmd.PrintJSONError(fmt.Errorf("unknown platform %q: must be one of %s",
			opts.Platform, strings.Join(pages.Platforms(), ", ")))
	}

	e.ensureFresh(ctx)

	command := ""
	if len(args) > 0 {
		command = strings.TrimSpace(args[0])
	} else {
		cmds, err := mem.CommandList(ctx)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("reading command list: %w", err))
		}
		if len(cmds) == 0 {
			return cmd.PrintJSONError(fmt.Errorf("no commands cached: %w", ErrRefreshFailed))
		}
		command, err = pick("Select a command", cmds)
		if err != nil {
			return cmd.PrintJSONError(err)
		}
		if command == "" {
			return nil
		}
	}

	bar := progress.New("Loading " + command)
	res := e.client.Resolve(ctx, bar, command, opts)
	bar.Done()

	if mem.ShowDebugInfo() {
		fmt.Fprintf(cmd.Err(), "command: %s\nlanguage: %s\nplatform: %s\nurl: %s\nresult: %s\n",
			res.Command, res.Language, res.Platform, res.URL, res.Kind)
	}

	out := showResult{Result: res}
	var err error
	if res.Kind == tldr.KindFound {
		w := cmd.Out()
		if cmd.JSON() {
			w = io.Discard
		}
		var shown preview.Shown
		shown, err = preview.Show(w, command, res.Text(), preview.Options{
			Position: mem.PanelPosition(),
			Raw:      raw,
			TTY:      term.IsTerminal(int(os.Stdout.Fd())),
			Dir:      e.ctx.Dir(),
		})
		out.Shown = &shown
	} else {
		if !cmd.JSON() {
			fmt.Fprintln(cmd.Err(), res.Text())
			if len(res.Available) > 0 {
				fmt.Fprintf(cmd.Err(), "Available languages: %s\n", strings.Join(res.Available, ", "))
			}
		}
		err = res.Err()
	}

	log.Event("pages:show", "resolve").
		Command(command).
		Language(res.Language).
		Platform(res.Platform).
		Detail("kind", res.Kind.String()).
		Write(err)

	if cmd.JSON() {
		if jerr := cmd.PrintJSON(out); jerr != nil {
			return jerr
		}
		if err != nil {
			c.SilenceErrors = true
			return err
		}
		return nil
	}
	return err
}
