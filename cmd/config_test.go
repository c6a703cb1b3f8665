package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("config")
	env.contains(out, "cache.timeout_minutes: 43200")
	env.contains(out, "language.default: en")
	env.contains(out, "panel.position: active")

	env.contains(env.run("config", "panel.position", "beside"), "panel.position = beside (global)")
	env.equals(env.run("config", "panel.position"), "beside")

	_, err := os.Stat(filepath.Join(env.home, ".tldr-panel", "config.yaml"))
	require.NoError(t, err)
	env.noState()
}

func TestConfig_Local(t *testing.T) {
	env := newTestEnv(t)

	env.contains(env.run("config", "--local", "language.default", "de"), "(local)")
	_, err := os.Stat(filepath.Join(env.dir, ".tldr-panel", "config.yaml"))
	require.NoError(t, err)

	// Local takes precedence once it exists
	env.equals(env.run("config", "language.default"), "de")
}

func TestConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown key", []string{"config", "author.name"}, "unknown config key"},
		{"bad timeout", []string{"config", "cache.timeout_minutes", "0"}, "invalid config value"},
		{"bad position", []string{"config", "panel.position", "left"}, "panel.position must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			out, err := env.runErr(tc.args...)
			require.Error(t, err)
			env.contains(out, tc.want)
		})
	}
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	env.contains(env.run("version"), "Build Tag:")
	env.contains(env.runStdout("version", "-o", "json"), `"build_tag"`)
}
