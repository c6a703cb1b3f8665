// Package all imports all built-in tldr-panel extensions.
// Import this package to register all built-in commands.
package all

import (
	// Each registers itself via init()
	_ "github.com/jpl-au/tldr-panel/extension/core"
	_ "github.com/jpl-au/tldr-panel/extension/pages"
)
