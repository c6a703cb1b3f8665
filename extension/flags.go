// flags.go defines constants for CLI flag names shared across extensions.

package extension

// Flag name constants for CLI commands.
const (
	// Boolean flags

	FlagChanges   = "changes"   // Show command list changes after refresh
	FlagClear     = "clear"     // Drop the cached page index
	FlagLanguages = "languages" // List languages instead of commands
	FlagLocal     = "local"     // Use local config scope
	FlagRaw       = "raw"       // Raw output without rendering

	// String flags

	FlagLanguage = "language" // Page language override
	FlagPlatform = "platform" // Page platform override
)
