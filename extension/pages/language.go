// language.go implements the "tldr-panel language" command.

package pages

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jpl-au/tldr-panel/cmd"
	"github.com/jpl-au/tldr-panel/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newLanguageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "language [lang]",
		Short: "Choose the page language",
		Long: `Set the default page language from the languages in the page index.

  tldr-panel language      # pick from the list
  tldr-panel language de   # German

Cancelling the prompt clears the setting, which means English.`,
		Args: cobra.MaximumNArgs(1),
		RunE: e.runLanguage,
	}
}

func (e *Extension) runLanguage(c *cobra.Command, args []string) error {
	ctx := c.Context()
	mem := e.client.Memory()

	e.ensureFresh(ctx)

	langs, err := mem.LanguageList(ctx)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("reading languages: %w", err))
	}

	var lang string
	if len(args) > 0 {
		lang = strings.TrimSpace(args[0])
		if len(langs) > 0 && !slices.Contains(langs, lang) {
			err := fmt.Errorf("language %q is not in the page index (available: %s)", lang, strings.Join(langs, ", "))
			log.Event("pages:language", "set").Language(lang).Write(err)
			return cmd.PrintJSONError(err)
		}
	} else {
		if len(langs) == 0 {
			return cmd.PrintJSONError(fmt.Errorf("no languages cached: %w", ErrRefreshFailed))
		}
		lang, err = pick("Select a language", langs)
		if err != nil {
			return cmd.PrintJSONError(err)
		}
	}

	err = mem.SetDefaultLanguage(lang)
	log.Event("pages:language", "set").Language(lang).Write(err)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("setting language: %w", err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"language": mem.DefaultLanguage()})
	}
	fmt.Fprintf(cmd.Out(), "language.default = %s\n", mem.DefaultLanguage())
	return nil
}
