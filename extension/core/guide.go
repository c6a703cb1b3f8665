// guide.go implements the "tldr-panel guide" command.
//
// Guides are embedded in the binary. Terminal output is rendered with
// glamour; pipes and redirects get the raw markdown.

package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/jpl-au/tldr-panel/cmd"
	"github.com/jpl-au/tldr-panel/guide"
	"github.com/jpl-au/tldr-panel/internal/log"
	"github.com/jpl-au/tldr-panel/internal/preview"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newGuideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide [topic]",
		Short: "Show the tldr-panel usage guide",
		Long: `Outputs the tldr-panel guide.

  tldr-panel guide          # main guide
  tldr-panel guide config   # settings reference
  tldr-panel guide mcp      # MCP server setup`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}

			content, err := guide.Get(name)
			log.Event("core:guide", "read").Detail("topic", name).Write(err)
			if err != nil {
				available, listErr := guide.List()
				if listErr != nil {
					return listErr
				}
				return cmd.PrintJSONError(fmt.Errorf("guide %q not found. Available: %s", name, strings.Join(available, ", ")))
			}

			fmt.Fprint(cmd.Out(), preview.Terminal(content, term.IsTerminal(int(os.Stdout.Fd()))))
			return nil
		},
	}
}
