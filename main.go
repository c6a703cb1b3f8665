/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/
package main

import (
	"github.com/jpl-au/tldr-panel/cmd"

	// Import extensions - each registers itself via init()
	_ "github.com/jpl-au/tldr-panel/extension/all"
)

func main() {
	cmd.Execute()
}
