// list.go implements the "tldr-panel list" command.

package pages

import (
	"fmt"

	"github.com/jpl-au/tldr-panel/cmd"
	"github.com/jpl-au/tldr-panel/extension"
	"github.com/jpl-au/tldr-panel/internal/log"
	"github.com/jpl-au/tldr-panel/internal/picker"
	"github.com/spf13/cobra"
)

func (e *Extension) newListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list [query]",
		Short: "List cached commands",
		Long: `List the commands in the page index, optionally fuzzy-filtered.

  tldr-panel list              # every command
  tldr-panel list gco          # fuzzy match, best first
  tldr-panel list --languages  # languages instead`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runList,
	}
	c.Flags().Bool(extension.FlagLanguages, false, "List languages instead of commands")
	return c
}

func (e *Extension) runList(c *cobra.Command, args []string) error {
	ctx := c.Context()
	mem := e.client.Memory()
	languages, _ := c.Flags().GetBool(extension.FlagLanguages)

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	e.ensureFresh(ctx)

	var items []string
	var err error
	action := "commands"
	if languages {
		action = "languages"
		items, err = mem.LanguageList(ctx)
	} else {
		items, err = mem.CommandList(ctx)
	}
	if err == nil {
		items = picker.Match(query, items)
	}

	log.Event("pages:list", action).Detail("query", query).Detail("count", len(items)).Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("list %s: %w", action, err))
	}
	if cmd.JSON() {
		if items == nil {
			items = []string{}
		}
		return cmd.PrintJSON(items)
	}
	for _, it := range items {
		fmt.Fprintln(cmd.Out(), it)
	}
	return nil
}
