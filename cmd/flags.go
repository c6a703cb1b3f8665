/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// flags.go defines global CLI flags and accessors for shared state.
//
// Extensions read flag values through the exported accessors rather than
// touching the variables or cobra directly.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jpl-au/tldr-panel/internal/config"
	"github.com/jpl-au/tldr-panel/internal/tldr"
	"github.com/spf13/cobra"
)

var validOutputFormats = []string{"json"}

// Environment overrides.
const (
	EnvDir     = "TLDR_PANEL_DIR"
	EnvTreeURL = "TLDR_PANEL_TREE_URL"
	EnvRawURL  = "TLDR_PANEL_RAW_URL"
)

var (
	output  string
	dir     string
	verbose bool
)

// out is the output writer for commands. Defaults to os.Stdout.
// Tests can replace this to capture output.
var out io.Writer = os.Stdout

// errOut receives user-facing errors, progress and diagnostics.
var errOut io.Writer = os.Stderr

// in is where prompts read answers from.
var in io.Reader = os.Stdin

// Out returns the output writer.
func Out() io.Writer { return out }

// Err returns the error writer.
func Err() io.Writer { return errOut }

// In returns the prompt input reader.
func In() io.Reader { return in }

// Output returns the output format flag value.
func Output() string { return output }

// Verbose reports whether diagnostic logging is enabled.
func Verbose() bool { return verbose }

// Dir returns the state directory.
// Priority: --dir flag > TLDR_PANEL_DIR env var > ~/.tldr-panel.
func Dir() string {
	if dir != "" {
		return dir
	}
	if d := os.Getenv(EnvDir); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return config.DirName
	}
	return filepath.Join(home, config.DirName)
}

// Source returns the repository endpoints, honouring the environment
// overrides.
func Source() tldr.Source {
	src := tldr.DefaultSource
	if u := os.Getenv(EnvTreeURL); u != "" {
		src.TreeURL = u
	}
	if u := os.Getenv(EnvRawURL); u != "" {
		src.RawBaseURL = u
	}
	return src
}

// Logger returns the diagnostic logger: stderr with --verbose, discarded
// otherwise.
func Logger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// SetOut sets the output writer (for testing).
func SetOut(w io.Writer) { out = w }

// SetErr sets the error writer (for testing).
func SetErr(w io.Writer) { errOut = w }

// SetIn sets the prompt input reader (for testing).
func SetIn(r io.Reader) { in = r }

// JSON returns true if JSON output is requested.
func JSON() bool { return output == "json" }

// PrintJSON marshals v to JSON and writes it to the output writer.
// Returns nil if output format is not JSON.
func PrintJSON(v any) error {
	if output != "json" {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(out, string(b))
	return nil
}

// PrintJSONError prints an error in JSON format if output is JSON.
// Returns nil if error was printed (suppressing Cobra error), or the original error if not.
func PrintJSONError(err error) error {
	if output != "json" || err == nil {
		return err
	}
	_ = PrintJSON(map[string]string{"error": err.Error()})
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format: json")
	rootCmd.PersistentFlags().StringVar(&dir, "dir", "", "State directory (default ~/.tldr-panel)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics to stderr")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return validOutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
}
