/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// init_extensions.go handles extension initialisation and command registration.
//
// Extensions register during init() but aren't initialised until first
// command execution. The page client is created once and shared across
// all extensions via the Context.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jpl-au/tldr-panel/extension"
	"github.com/jpl-au/tldr-panel/internal/config"
	"github.com/jpl-au/tldr-panel/internal/log"
	"github.com/jpl-au/tldr-panel/internal/memory"
	"github.com/jpl-au/tldr-panel/internal/notify"
	"github.com/jpl-au/tldr-panel/internal/remote"
	"github.com/jpl-au/tldr-panel/internal/store"
	"github.com/jpl-au/tldr-panel/internal/tldr"
	"github.com/jpl-au/tldr-panel/internal/version"
)

// StateFile is the state store's file name inside the state directory.
const StateFile = "state.db"

// noStoreCommands lists commands that bypass automatic store initialisation.
// Built from the help command plus extension-declared storeless commands.
var noStoreCommands map[string]bool

// buildNoStoreCommands creates the set of commands that skip store
// initialisation. Extensions implement extension.Storeless to add to it.
func buildNoStoreCommands() map[string]bool {
	cmds := map[string]bool{
		"help":       true,
		"completion": true,
	}

	for _, ext := range extension.All() {
		if s, ok := ext.(extension.Storeless); ok {
			for _, name := range s.NoStoreCommands() {
				cmds[name] = true
			}
		}
	}

	return cmds
}

// Global extension context, created during initialisation.
var (
	extContext extension.Context
	extStore   *store.SQLiteStore
	initOnce   sync.Once
	initErr    error
)

// initExtensions opens the state store, builds the page client and injects
// it into extensions. Runs at most once per process.
func initExtensions() error {
	initOnce.Do(func() {
		stateDir := Dir()
		if err := os.MkdirAll(stateDir, 0755); err != nil {
			initErr = fmt.Errorf("creating state directory: %w", err)
			return
		}

		st, err := store.Open(filepath.Join(stateDir, StateFile))
		if err != nil {
			initErr = fmt.Errorf("opening state store: %w", err)
			return
		}
		if err := st.Init(); err != nil {
			st.Close()
			initErr = fmt.Errorf("initialising state store: %w", err)
			return
		}
		extStore = st

		log.SetProfile(stateDir)

		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}

		client := tldr.New(
			memory.New(cfg, st),
			&remote.HTTP{UserAgent: version.UserAgent()},
			notify.NewTerminalTo(errOut),
			tldr.WithSource(Source()),
			tldr.WithLogger(Logger()),
		)
		extContext = extension.NewContext(client, cfg, stateDir)

		for _, ext := range extension.All() {
			if init, ok := ext.(extension.Initializable); ok {
				if err := init.Init(extContext); err != nil {
					initErr = fmt.Errorf("init extension %s: %w", ext.Name(), err)
					return
				}
			}
		}
	})
	return initErr
}

var extensionsOnce sync.Once

// registerExtensions adds commands from all registered extensions.
// Called once before Execute runs.
func registerExtensions() {
	extensionsOnce.Do(func() {
		for _, ext := range extension.All() {
			for _, cmd := range ext.Commands() {
				rootCmd.AddCommand(cmd)
			}
		}

		noStoreCommands = buildNoStoreCommands()
	})
}

// MCPTools collects the MCP tools of every registered extension.
func MCPTools() []extension.MCPTool {
	var tools []extension.MCPTool
	for _, ext := range extension.All() {
		tools = append(tools, ext.MCPTools()...)
	}
	return tools
}
