// refresh.go implements the "tldr-panel refresh" command.
//
// Refresh always rebuilds the index. --changes compares the command list
// before and after and prints what appeared and disappeared.

package pages

import (
	"fmt"
	"os"

	"github.com/jpl-au/tldr-panel/cmd"
	"github.com/jpl-au/tldr-panel/extension"
	"github.com/jpl-au/tldr-panel/internal/changes"
	"github.com/jpl-au/tldr-panel/internal/log"
	"github.com/jpl-au/tldr-panel/internal/progress"
	"github.com/jpl-au/tldr-panel/internal/tldr"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newRefreshCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild the page index",
		Long: `Fetch the tldr-pages repository listing and rebuild the local page index,
whether or not it has expired.

  tldr-panel refresh            # rebuild
  tldr-panel refresh --changes  # rebuild and list added/removed commands`,
		Args: cobra.NoArgs,
		RunE: e.runRefresh,
	}
	c.Flags().Bool(extension.FlagChanges, false, "Show commands added and removed")
	return c
}

// refreshResult is the JSON shape of a refresh.
type refreshResult struct {
	Outcome   string           `json:"outcome"`
	Commands  int              `json:"commands"`
	Languages []string         `json:"languages"`
	Changes   *changes.Summary `json:"changes,omitempty"`
}

func (e *Extension) runRefresh(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	mem := e.client.Memory()
	showChanges, _ := c.Flags().GetBool(extension.FlagChanges)

	before, err := mem.CommandList(ctx)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("reading command list: %w", err))
	}

	bar := progress.New("Refreshing page index")
	outcome := e.client.Refresh(ctx, bar, true)
	bar.Done()

	if outcome == tldr.Failed {
		log.Event("pages:refresh", "refresh").Detail("outcome", outcome.String()).Write(ErrRefreshFailed)
		return cmd.PrintJSONError(ErrRefreshFailed)
	}

	after, err := mem.CommandList(ctx)
	if err == nil {
		var langs []string
		langs, err = mem.LanguageList(ctx)
		if err == nil {
			res := refreshResult{Outcome: outcome.String(), Commands: len(after), Languages: langs}
			if showChanges {
				sum := changes.Compute(before, after)
				res.Changes = &sum
			}
			err = e.printRefresh(res)
		}
	}

	log.Event("pages:refresh", "refresh").
		Detail("outcome", outcome.String()).
		Detail("commands", len(after)).
		Write(err)

	return cmd.PrintJSONError(err)
}

func (e *Extension) printRefresh(res refreshResult) error {
	if cmd.JSON() {
		return cmd.PrintJSON(res)
	}
	w := cmd.Out()
	fmt.Fprintf(w, "Cached %d commands in %d languages\n", res.Commands, len(res.Languages))
	if res.Changes != nil {
		fmt.Fprint(w, res.Changes.Format(term.IsTerminal(int(os.Stdout.Fd()))))
	}
	return nil
}
