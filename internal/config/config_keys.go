// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic used by the config command and the MCP server, where
// settings are addressed by dotted keys (e.g. "panel.position").
//
// Pointers are used for optional numeric and boolean fields so "not set"
// (nil) is distinguishable from an explicit zero/false. Setting a key to the
// empty string clears it back to its default.

package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jpl-au/tldr-panel/internal/duration"
	"github.com/jpl-au/tldr-panel/internal/pages"
)

// Setting keys.
const (
	KeyCacheTimeout    = "cache.timeout_minutes"
	KeyDefaultLanguage = "language.default"
	KeyDefaultPlatform = "platform.default"
	KeyPanelPosition   = "panel.position"
	KeyShowDebugInfo   = "debug.show_info"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		KeyCacheTimeout,
		KeyDefaultLanguage,
		KeyDefaultPlatform,
		KeyPanelPosition,
		KeyShowDebugInfo,
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string, with defaults
// applied. platform.default reports the host platform when unset.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case KeyCacheTimeout:
		return strconv.Itoa(c.CacheTimeoutMinutes()), nil
	case KeyDefaultLanguage:
		return c.DefaultLanguage(), nil
	case KeyDefaultPlatform:
		if p := c.DefaultPlatform(); p != "" {
			return p, nil
		}
		return CurrentPlatform(), nil
	case KeyPanelPosition:
		return c.PanelPosition(), nil
	case KeyShowDebugInfo:
		return strconv.FormatBool(c.ShowDebugInfo()), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key. An empty value resets the key.
func (c *Config) Set(key, value string) error {
	switch key {
	case KeyCacheTimeout:
		if value == "" {
			c.Cache.TimeoutMinutes = nil
			return nil
		}
		n, err := duration.ParseMinutes(value)
		if err != nil || n < 1 || n > MaxCacheTimeoutMinutes {
			return fmt.Errorf("%w: %s must be between 1 and %d minutes (or 12h, 7d, 4w, 3m)", ErrInvalidValue, key, MaxCacheTimeoutMinutes)
		}
		c.Cache.TimeoutMinutes = &n
	case KeyDefaultLanguage:
		c.Language.Default = value
	case KeyDefaultPlatform:
		if value != "" && !pages.IsPlatform(value) {
			return fmt.Errorf("%w: %s must be one of %s", ErrInvalidValue, key, strings.Join(pages.Platforms(), ", "))
		}
		c.Platform.Default = value
	case KeyPanelPosition:
		if value != "" && !slices.Contains(PanelPositions(), value) {
			return fmt.Errorf("%w: %s must be one of %s", ErrInvalidValue, key, strings.Join(PanelPositions(), ", "))
		}
		c.Panel.Position = value
	case KeyShowDebugInfo:
		if value == "" {
			c.Debug.ShowInfo = nil
			return nil
		}
		v := strings.ToLower(value)
		if v != "true" && v != "false" {
			return fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
		}
		b := v == "true"
		c.Debug.ShowInfo = &b
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	out := make(map[string]string, len(ValidKeys()))
	for _, k := range ValidKeys() {
		v, _ := c.Get(k)
		out[k] = v
	}
	return out
}

// IsSet returns true if the key has an explicit value (not just defaults).
func (c *Config) IsSet(key string) bool {
	switch key {
	case KeyCacheTimeout:
		return c.Cache.TimeoutMinutes != nil
	case KeyDefaultLanguage:
		return c.Language.Default != ""
	case KeyDefaultPlatform:
		return c.Platform.Default != ""
	case KeyPanelPosition:
		return c.Panel.Position != ""
	case KeyShowDebugInfo:
		return c.Debug.ShowInfo != nil
	default:
		return false
	}
}
