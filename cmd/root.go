/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// root.go defines the root command and CLI execution entry point.
//
// PersistentPreRunE opens the state store lazily: only commands that need
// it trigger extension init, so config, guide and version work on a
// machine that has never refreshed.

package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/jpl-au/tldr-panel/internal/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tldr-panel",
	Short: "Browse tldr pages from the terminal",
	Long: `Browse community-maintained tldr pages for shell commands.

The page index is cached locally and refreshed from the tldr-pages
repository when it expires. Pages are fetched on demand in the configured
language and platform.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if output != "" && !slices.Contains(validOutputFormats, output) {
			return fmt.Errorf("invalid output format: %s (valid: %v)", output, validOutputFormats)
		}

		cmdName := topLevelCmdName(cmd)
		if !noStoreCommands[cmdName] {
			if err := initExtensions(); err != nil {
				if JSON() {
					_ = PrintJSON(map[string]string{"error": err.Error()})
					cmd.SilenceErrors = true
					cmd.SilenceUsage = true
				}
				return fmt.Errorf("initialise extensions: %w", err)
			}
		}

		return nil
	},
}

// topLevelCmdName returns the name of the top-level command (direct child of root).
func topLevelCmdName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// Execute runs the root command and handles process lifecycle.
// Opens audit logging, registers extensions, executes the command, and
// checkpoints and closes the state store before exit. Exit code 1
// indicates error.
func Execute() {
	if err := log.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}
	defer log.Close()

	registerExtensions()
	err := rootCmd.Execute()

	if extStore != nil {
		if cpErr := extStore.Checkpoint(context.Background()); cpErr != nil {
			fmt.Fprintf(os.Stderr, "warning: checkpoint: %v\n", cpErr)
		}
		if closeErr := extStore.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: closing state store: %v\n", closeErr)
		}
	}

	if err != nil {
		log.Close()
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing and extension access.
func RootCmd() *cobra.Command {
	return rootCmd
}
