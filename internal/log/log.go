// Package log provides the audit log for tldr-panel. Entries are stored in
// ~/.tldr-panel/log/tldr-panel-log.db and record every CLI command and MCP
// tool invocation.
//
// # Fluent API
//
//	log.Event("pages:show", "resolve").
//		Command(name).
//		Language(res.Language).
//		Platform(res.Platform).
//		Detail("kind", res.Kind.String()).
//		Write(res.Err())
//
// The source follows "{extension}:{command}" for CLI commands and
// "mcp:{tool}" for MCP tools.
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source   string // e.g., "pages:show", "mcp:tldr_page"
	Action   string // verb: refresh, resolve, list, set, etc.
	Command  string // tldr command the operation concerned, if any
	Language string
	Platform string

	// Timing, unix milliseconds
	Start int64
	End   int64

	Success bool
	Error   string
	Detail  map[string]any
}

// Builder constructs a log entry using a fluent API.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().UnixMilli(),
		},
	}
}

// Command sets the tldr command the operation concerned.
func (b *Builder) Command(c string) *Builder {
	b.entry.Command = c
	return b
}

// Language sets the page language used.
func (b *Builder) Language(l string) *Builder {
	b.entry.Language = l
	return b
}

// Platform sets the page platform used.
func (b *Builder) Platform(p string) *Builder {
	b.entry.Platform = p
	return b
}

// Detail adds a key-value pair to the entry's detail map.
//
//	log.Event("pages:refresh", "refresh").
//		Detail("outcome", outcome.String()).
//		Detail("commands", n)
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write records the entry, deriving success from err.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().UnixMilli()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Callers may ignore the error; logging is best-effort.
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProfile sets the profile identifier for subsequent entries. dir is the
// state directory in use, so entries from different --dir profiles can be
// told apart.
func SetProfile(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.profile = hash(dir)
	}
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
