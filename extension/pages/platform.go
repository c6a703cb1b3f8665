// platform.go implements the "tldr-panel platform" command.

package pages

import (
	"fmt"
	"strings"

	"github.com/jpl-au/tldr-panel/cmd"
	"github.com/jpl-au/tldr-panel/internal/log"
	"github.com/jpl-au/tldr-panel/internal/pages"
	"github.com/spf13/cobra"
)

func (e *Extension) newPlatformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platform [platform]",
		Short: "Choose the page platform",
		Long: `Set which platform's pages are preferred.

  tldr-panel platform          # pick from the list
  tldr-panel platform osx      # macOS pages

Platforms: android, common, linux, osx, sunos, windows.
Cancelling the prompt clears the setting, which means the host platform.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: pages.Platforms(),
		RunE:      e.runPlatform,
	}
}

func (e *Extension) runPlatform(_ *cobra.Command, args []string) error {
	mem := e.client.Memory()

	var platform string
	if len(args) > 0 {
		platform = strings.TrimSpace(args[0])
	} else {
		var err error
		platform, err = pick("Select a platform", pages.Platforms())
		if err != nil {
			return cmd.PrintJSONError(err)
		}
	}

	err := mem.SetPlatformOverride(platform)
	log.Event("pages:platform", "set").Platform(platform).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("setting platform: %w", err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"platform": mem.DefaultPlatform()})
	}
	fmt.Fprintf(cmd.Out(), "platform.default = %s\n", mem.DefaultPlatform())
	return nil
}
