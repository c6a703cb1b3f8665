// status.go implements the "tldr-panel status" command.

package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/jpl-au/tldr-panel/cmd"
	"github.com/jpl-au/tldr-panel/extension"
	"github.com/jpl-au/tldr-panel/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newStatusCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the page index",
		Long: `Show when the page index was last refreshed, when it expires and what
the state store holds. Does not refresh.

  tldr-panel status
  tldr-panel status --clear   # drop the index; the next lookup rebuilds it`,
		Args: cobra.NoArgs,
		RunE: e.runStatus,
	}
	c.Flags().Bool(extension.FlagClear, false, "Drop the cached page index")
	return c
}

func (e *Extension) runStatus(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	mem := e.client.Memory()
	clearCache, _ := c.Flags().GetBool(extension.FlagClear)

	if clearCache {
		err := mem.ClearCache(ctx)
		log.Event("pages:status", "clear").Write(err)
		if err != nil {
			return cmd.PrintJSONError(err)
		}
	}

	st, err := mem.Status(ctx)
	log.Event("pages:status", "read").Detail("commands", st.Commands).Write(err)
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	if cmd.JSON() {
		return cmd.PrintJSON(st)
	}

	w := cmd.Out()
	if st.Refreshed {
		fmt.Fprintf(w, "last refresh: %s\n", st.LastUpdate.Format(time.RFC3339))
		fmt.Fprintf(w, "expires:      %s\n", st.ExpiresAt.Format(time.RFC3339))
	} else {
		fmt.Fprintln(w, "last refresh: never")
	}
	fmt.Fprintf(w, "expired:      %t\n", st.Expired)
	fmt.Fprintf(w, "commands:     %d\n", st.Commands)
	fmt.Fprintf(w, "languages:    %s\n", strings.Join(st.Languages, ", "))
	for _, en := range st.Entries {
		fmt.Fprintf(w, "  %-24s %8d bytes  %s\n", en.Key, en.Size, en.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}
