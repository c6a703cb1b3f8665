// Package config provides reading and writing of tldr-panel settings.
// Supports both global (~/.tldr-panel/config.yaml) and local (.tldr-panel/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: goes back to where it was read from, use --local for local.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/jpl-au/tldr-panel/internal/pages"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// DirName is the per-user and per-project settings directory name.
const DirName = ".tldr-panel"

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.tldr-panel/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is directory-specific config in .tldr-panel/config.yaml
	ScopeLocal
)

// Panel positions for the page preview.
const (
	PanelActive = "active"
	PanelBeside = "beside"
)

// Defaults applied when a value is not configured.
const (
	DefaultCacheTimeoutMinutes = 43200 // 30 days
	DefaultPanelPosition       = PanelActive
)

// MaxCacheTimeoutMinutes bounds the cache timeout at one year.
const MaxCacheTimeoutMinutes = 525600

// Cache holds cache-related options.
type Cache struct {
	TimeoutMinutes *int `yaml:"timeout_minutes,omitempty"`
}

// Language holds page language options.
type Language struct {
	Default string `yaml:"default,omitempty"`
}

// Platform holds page platform options. An empty default means "derive
// from the host operating system".
type Platform struct {
	Default string `yaml:"default,omitempty"`
}

// Panel holds preview options.
type Panel struct {
	Position string `yaml:"position,omitempty"`
}

// Debug holds diagnostic options.
type Debug struct {
	ShowInfo *bool `yaml:"show_info,omitempty"`
}

// Config contains configuration for tldr-panel.
type Config struct {
	Cache    Cache    `yaml:"cache,omitempty"`
	Language Language `yaml:"language,omitempty"`
	Platform Platform `yaml:"platform,omitempty"`
	Panel    Panel    `yaml:"panel,omitempty"`
	Debug    Debug    `yaml:"debug,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	if c.Cache.TimeoutMinutes != nil {
		v := *c.Cache.TimeoutMinutes
		if v < 1 || v > MaxCacheTimeoutMinutes {
			return fmt.Errorf("%w: cache.timeout_minutes must be between 1 and %d, got %d",
				ErrInvalidValue, MaxCacheTimeoutMinutes, v)
		}
	}
	if p := c.Platform.Default; p != "" && !pages.IsPlatform(p) {
		return fmt.Errorf("%w: platform.default must be one of %v, got %q",
			ErrInvalidValue, pages.Platforms(), p)
	}
	if p := c.Panel.Position; p != "" && !slices.Contains(PanelPositions(), p) {
		return fmt.Errorf("%w: panel.position must be one of %v, got %q",
			ErrInvalidValue, PanelPositions(), p)
	}
	return nil
}

// PanelPositions lists the accepted panel.position values.
func PanelPositions() []string {
	return []string{PanelActive, PanelBeside}
}

// CacheTimeoutMinutes returns minutes between cache refreshes (defaults to 43200).
func (c *Config) CacheTimeoutMinutes() int {
	if c.Cache.TimeoutMinutes == nil {
		return DefaultCacheTimeoutMinutes
	}
	return *c.Cache.TimeoutMinutes
}

// DefaultLanguage returns the preferred page language (defaults to "en").
func (c *Config) DefaultLanguage() string {
	if c.Language.Default == "" {
		return pages.DefaultLanguage
	}
	return c.Language.Default
}

// DefaultPlatform returns the configured platform override, or "" when the
// host platform should be used.
func (c *Config) DefaultPlatform() string {
	return c.Platform.Default
}

// PanelPosition returns where pages are previewed (defaults to "active").
func (c *Config) PanelPosition() string {
	if c.Panel.Position == PanelBeside {
		return PanelBeside
	}
	return DefaultPanelPosition
}

// ShowDebugInfo returns whether resolution details are shown (defaults to false).
func (c *Config) ShowDebugInfo() bool {
	if c.Debug.ShowInfo == nil {
		return false
	}
	return *c.Debug.ShowInfo
}

// HostPlatform maps a GOOS value to the tldr platform pages are written for.
// Unknown systems use the platform-neutral "common" pages.
func HostPlatform(goos string) string {
	switch goos {
	case "darwin", "ios":
		return pages.OSX
	case "linux":
		return pages.Linux
	case "solaris", "illumos":
		return pages.SunOS
	case "windows":
		return pages.Windows
	case "android":
		return pages.Android
	default:
		return pages.Common
	}
}

// CurrentPlatform returns HostPlatform for the running binary.
func CurrentPlatform() string {
	return HostPlatform(runtime.GOOS)
}

// LocalPath returns the path to the local (directory) config file.
func LocalPath() string {
	return filepath.Join(DirName, "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.tldr-panel/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DirName, "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.scope = scope
	return cfg, nil
}

// LoadFile reads configuration from an explicit path. A missing file yields
// an empty config that will be saved to path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Path returns the file this config is saved to.
func (c *Config) Path() string {
	if c.path == "" {
		return pathForScope(c.scope)
	}
	return c.path
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
