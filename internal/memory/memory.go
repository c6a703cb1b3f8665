// Package memory is the panel's view of its settings and cached state.
//
// Settings (timeout, language, platform, preview position) live in the YAML
// config; cached state (the page map, the language list, the last refresh
// time) lives in the SQLite state store. Both are injected, so the cache
// and resolution logic can be exercised against fakes.
package memory

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/jpl-au/tldr-panel/internal/config"
	"github.com/jpl-au/tldr-panel/internal/pages"
	"github.com/jpl-au/tldr-panel/internal/store"
)

// State keys. The values are JSON and shared with other panel front ends.
const (
	KeyPages      = "tldr-panel:pages"
	KeyLanguages  = "tldr-panel:languages"
	KeyLastUpdate = "tldr-panel:lastUpdate"
)

// Settings is the subset of the configuration the panel reads and writes.
// *config.Config satisfies it.
type Settings interface {
	CacheTimeoutMinutes() int
	DefaultLanguage() string
	DefaultPlatform() string
	PanelPosition() string
	ShowDebugInfo() bool
	Set(key, value string) error
	Save() error
}

var _ Settings = (*config.Config)(nil)

// Memory combines settings and cached state.
type Memory struct {
	settings Settings
	state    store.Store
	now      func() time.Time
	goos     string
}

// Option configures a Memory.
type Option func(*Memory)

// WithClock replaces the wall clock used for expiry and timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) { m.now = now }
}

// WithGOOS replaces the operating system used to derive the host platform.
func WithGOOS(goos string) Option {
	return func(m *Memory) { m.goos = goos }
}

// New returns a Memory reading settings from s and state from st.
func New(s Settings, st store.Store, opts ...Option) *Memory {
	m := &Memory{
		settings: s,
		state:    st,
		now:      time.Now,
		goos:     runtime.GOOS,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// ShowDebugInfo reports whether resolution details should be shown.
func (m *Memory) ShowDebugInfo() bool {
	return m.settings.ShowDebugInfo()
}

// DefaultLanguage returns the preferred language, "en" when unset.
func (m *Memory) DefaultLanguage() string {
	if l := m.settings.DefaultLanguage(); l != "" {
		return l
	}
	return pages.DefaultLanguage
}

// DefaultPlatform returns the configured platform, or the platform of the
// host operating system when none is configured.
func (m *Memory) DefaultPlatform() pages.Platform {
	if p := m.settings.DefaultPlatform(); p != "" {
		return p
	}
	return config.HostPlatform(m.goos)
}

// CacheTimeoutMinutes returns how long a refreshed cache stays fresh.
func (m *Memory) CacheTimeoutMinutes() int {
	return m.settings.CacheTimeoutMinutes()
}

// PanelPosition returns "active" or "beside".
func (m *Memory) PanelPosition() string {
	return m.settings.PanelPosition()
}

// SetDefaultLanguage persists the preferred language. An empty value
// resets it to the default.
func (m *Memory) SetDefaultLanguage(lang string) error {
	return m.save(config.KeyDefaultLanguage, lang)
}

// SetPlatformOverride persists the preferred platform. An empty value
// reverts to the host platform.
func (m *Memory) SetPlatformOverride(p pages.Platform) error {
	return m.save(config.KeyDefaultPlatform, p)
}

func (m *Memory) save(key, value string) error {
	if err := m.settings.Set(key, value); err != nil {
		return err
	}
	if err := m.settings.Save(); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// CachedPages returns the stored command map, or nil when nothing has been
// cached yet.
func (m *Memory) CachedPages(ctx context.Context) (pages.CommandMap, error) {
	var cm pages.CommandMap
	ok, err := m.state.Get(ctx, KeyPages, &cm)
	if err != nil {
		return nil, fmt.Errorf("loading cached pages: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return cm, nil
}

// CommandList returns the sorted names of all cached commands.
func (m *Memory) CommandList(ctx context.Context) ([]string, error) {
	cm, err := m.CachedPages(ctx)
	if err != nil {
		return nil, err
	}
	return cm.Commands(), nil
}

// LanguageList returns the languages discovered by the last refresh.
func (m *Memory) LanguageList(ctx context.Context) ([]string, error) {
	var langs []string
	ok, err := m.state.Get(ctx, KeyLanguages, &langs)
	if err != nil {
		return nil, fmt.Errorf("loading languages: %w", err)
	}
	if !ok || langs == nil {
		return []string{}, nil
	}
	return langs, nil
}

// LastUpdate returns the time of the last successful refresh. The boolean
// is false when the cache has never been refreshed.
func (m *Memory) LastUpdate(ctx context.Context) (time.Time, bool, error) {
	var ms int64
	ok, err := m.state.Get(ctx, KeyLastUpdate, &ms)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("loading last update: %w", err)
	}
	if !ok {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(ms), true, nil
}

// UpdateCache replaces the cached state with cm and languages and stamps
// the refresh time. The three writes are independent: a failure part way
// leaves the earlier writes in place.
func (m *Memory) UpdateCache(ctx context.Context, cm pages.CommandMap, languages []string) error {
	if err := m.state.Set(ctx, KeyPages, cm); err != nil {
		return fmt.Errorf("storing pages: %w", err)
	}

	sorted := slices.Clone(languages)
	if sorted == nil {
		sorted = []string{}
	}
	slices.Sort(sorted)
	if err := m.state.Set(ctx, KeyLanguages, sorted); err != nil {
		return fmt.Errorf("storing languages: %w", err)
	}

	if err := m.state.Set(ctx, KeyLastUpdate, m.now().UnixMilli()); err != nil {
		return fmt.Errorf("storing last update: %w", err)
	}
	return nil
}

// CacheIsExpired reports whether the cache must be rebuilt: nothing is
// cached, or the configured timeout has elapsed since the last refresh.
func (m *Memory) CacheIsExpired(ctx context.Context) (bool, error) {
	var raw map[string]any
	ok, err := m.state.Get(ctx, KeyPages, &raw)
	if err != nil {
		return true, fmt.Errorf("loading cached pages: %w", err)
	}
	if !ok || raw == nil {
		return true, nil
	}

	var last int64
	if _, err := m.state.Get(ctx, KeyLastUpdate, &last); err != nil {
		return true, fmt.Errorf("loading last update: %w", err)
	}
	timeout := int64(m.CacheTimeoutMinutes()) * 60 * 1000
	return m.now().UnixMilli() > last+timeout, nil
}

// Status summarises the cached state.
type Status struct {
	Refreshed  bool          `json:"refreshed"`
	LastUpdate time.Time     `json:"last_update,omitzero"`
	ExpiresAt  time.Time     `json:"expires_at,omitzero"`
	Expired    bool          `json:"expired"`
	Commands   int           `json:"commands"`
	Languages  []string      `json:"languages"`
	Entries    []store.Entry `json:"entries"`
}

// Status reports when the cache was last refreshed, when it expires and
// what the state store holds.
func (m *Memory) Status(ctx context.Context) (Status, error) {
	var st Status
	last, ok, err := m.LastUpdate(ctx)
	if err != nil {
		return st, err
	}
	if ok {
		st.Refreshed = true
		st.LastUpdate = last
		st.ExpiresAt = last.Add(time.Duration(m.CacheTimeoutMinutes()) * time.Minute)
	}
	if st.Expired, err = m.CacheIsExpired(ctx); err != nil {
		return st, err
	}
	cmds, err := m.CommandList(ctx)
	if err != nil {
		return st, err
	}
	st.Commands = len(cmds)
	if st.Languages, err = m.LanguageList(ctx); err != nil {
		return st, err
	}
	if st.Entries, err = m.state.Entries(ctx); err != nil {
		return st, fmt.Errorf("listing state: %w", err)
	}
	if st.Entries == nil {
		st.Entries = []store.Entry{}
	}
	return st, nil
}

// ClearCache drops the cached pages, languages and refresh time so the
// next lookup rebuilds the index. Settings are untouched.
func (m *Memory) ClearCache(ctx context.Context) error {
	if err := m.state.Clear(ctx); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}
