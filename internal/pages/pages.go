// Package pages defines the cached view of the tldr repository: which
// commands exist, in which languages, and for which platforms.
//
// The JSON encoding of these types is the persisted cache format and must
// stay compatible with state written by earlier releases:
//
//	{"git":{"command":"git","entries":{"en":{"linux":{"url":"..."}}}}}
package pages

import (
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Platform identifies the environment a page variant targets.
type Platform = string

// Known platforms, in the order they are offered to the user.
const (
	Android Platform = "android"
	Common  Platform = "common"
	Linux   Platform = "linux"
	OSX     Platform = "osx"
	SunOS   Platform = "sunos"
	Windows Platform = "windows"
)

// DefaultLanguage is used when a page path carries no language suffix.
const DefaultLanguage = "en"

// Platforms returns the fixed platform enumeration.
func Platforms() []Platform {
	return []Platform{Android, Common, Linux, OSX, SunOS, Windows}
}

// IsPlatform reports whether p is one of the known platforms.
func IsPlatform(p string) bool {
	return slices.Contains(Platforms(), p)
}

// CommandPage points at one concrete markdown page.
type CommandPage struct {
	URL string `json:"url"`
}

// CommandEntry maps platforms to pages for a single language. Insertion
// order is retained: the resolver's last fallback is the first platform
// recorded during parsing, and that must survive a trip through the store.
type CommandEntry struct {
	m *orderedmap.OrderedMap[string, CommandPage]
}

// NewCommandEntry returns an empty entry.
func NewCommandEntry() *CommandEntry {
	return &CommandEntry{m: orderedmap.New[string, CommandPage]()}
}

// Set records the page for a platform. Re-setting a platform keeps its
// original position.
func (e *CommandEntry) Set(platform Platform, page CommandPage) {
	e.init()
	e.m.Set(platform, page)
}

// Get returns the page for a platform.
func (e *CommandEntry) Get(platform Platform) (CommandPage, bool) {
	if e == nil || e.m == nil {
		return CommandPage{}, false
	}
	return e.m.Get(platform)
}

// First returns the earliest recorded platform and its page.
func (e *CommandEntry) First() (Platform, CommandPage, bool) {
	if e == nil || e.m == nil {
		return "", CommandPage{}, false
	}
	p := e.m.Oldest()
	if p == nil {
		return "", CommandPage{}, false
	}
	return p.Key, p.Value, true
}

// Platforms lists recorded platforms in insertion order.
func (e *CommandEntry) Platforms() []Platform {
	if e == nil || e.m == nil {
		return nil
	}
	out := make([]Platform, 0, e.m.Len())
	for p := e.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// Len returns the number of platforms recorded.
func (e *CommandEntry) Len() int {
	if e == nil || e.m == nil {
		return 0
	}
	return e.m.Len()
}

func (e *CommandEntry) init() {
	if e.m == nil {
		e.m = orderedmap.New[string, CommandPage]()
	}
}

// MarshalJSON encodes the entry as a JSON object in insertion order.
func (e *CommandEntry) MarshalJSON() ([]byte, error) {
	e.init()
	return e.m.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (e *CommandEntry) UnmarshalJSON(data []byte) error {
	e.init()
	return e.m.UnmarshalJSON(data)
}

// CommandRecord holds every known page for one command.
type CommandRecord struct {
	Command string                   `json:"command"`
	Entries map[string]*CommandEntry `json:"entries"`
}

// Languages returns the record's languages, sorted.
func (r *CommandRecord) Languages() []string {
	out := make([]string, 0, len(r.Entries))
	for lang := range r.Entries {
		out = append(out, lang)
	}
	slices.Sort(out)
	return out
}

// CommandMap is the complete cache payload keyed by command name.
type CommandMap map[string]*CommandRecord

// Commands returns the command names, sorted.
func (m CommandMap) Commands() []string {
	out := make([]string, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Lookup returns the record for command. An empty command, or a null
// record left by a damaged cache, is never found.
func (m CommandMap) Lookup(command string) (*CommandRecord, bool) {
	if command == "" {
		return nil, false
	}
	r := m[command]
	return r, r != nil
}
