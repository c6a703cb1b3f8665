// Package tree turns the flat git-trees listing of the tldr repository into
// the cached command map.
//
// Accepted paths look like
//
//	pages/<platform>/<command>.md
//	pages.<lang>/<platform>/<command>.md
//
// where <lang> is two lowercase letters optionally followed by underscores
// and uppercase letters (pages.pt_BR). Everything else is skipped without
// error; only an empty overall result is a failure, and that is for the
// caller to report.
package tree

import (
	"slices"
	"strings"

	"github.com/jpl-au/tldr-panel/internal/pages"
	"github.com/jpl-au/tldr-panel/internal/progress"
	"github.com/jpl-au/tldr-panel/internal/remote"
)

// Budget is the number of progress units a full parse reports.
const Budget = 50

const (
	pagesDir = "pages"
	mdExt    = ".md"
)

// Page is the decomposition of one accepted path.
type Page struct {
	Language string
	Platform pages.Platform
	Command  string
}

// Parse builds the command map from items and returns it with the
// languages discovered, in discovery order. URLs are rawBase + "/" + path.
// Every item, kept or skipped, reports Budget/len(items) units to p.
func Parse(items []remote.TreeItem, rawBase string, p progress.Reporter) (pages.CommandMap, []string) {
	if p == nil {
		p = progress.Nop
	}
	cm := pages.CommandMap{}
	var languages []string
	step := float64(Budget) / float64(len(items))

	for _, item := range items {
		if item.Type == remote.ItemBlob {
			if pg, ok := SplitPath(item.Path); ok {
				rec, ok := cm[pg.Command]
				if !ok {
					rec = &pages.CommandRecord{Command: pg.Command, Entries: map[string]*pages.CommandEntry{}}
					cm[pg.Command] = rec
				}
				entry, ok := rec.Entries[pg.Language]
				if !ok {
					languages = appendUnique(languages, pg.Language)
					entry = pages.NewCommandEntry()
					rec.Entries[pg.Language] = entry
				}
				entry.Set(pg.Platform, pages.CommandPage{URL: rawBase + "/" + item.Path})
			}
		}
		p.Report(progress.Update{Increment: step})
	}
	return cm, languages
}

// SplitPath decomposes a repository path. It reports false for paths that
// are not pages.
func SplitPath(path string) (Page, bool) {
	lang, rest, ok := splitPageKey(path)
	if !ok || !strings.HasSuffix(rest, mdExt) {
		return Page{}, false
	}

	file, ok := trailingFile(rest)
	if !ok {
		return Page{}, false
	}

	platform := strings.ReplaceAll(strings.TrimSuffix(rest, file), "/", "")
	return Page{
		Language: lang,
		Platform: platform,
		Command:  strings.TrimSuffix(file, mdExt),
	}, true
}

// splitPageKey consumes "pages/" or "pages.<lang>/" and returns the
// language and the remainder after the slash.
func splitPageKey(path string) (lang, rest string, ok bool) {
	s, found := strings.CutPrefix(path, pagesDir)
	if !found || s == "" {
		return "", "", false
	}

	if s[0] == '/' {
		return pages.DefaultLanguage, s[1:], true
	}
	if s[0] != '.' {
		return "", "", false
	}

	key, rest, found := strings.Cut(s[1:], "/")
	if !found || !isLanguage(key) {
		return "", "", false
	}
	return key, rest, true
}

// isLanguage matches two lowercase letters followed by any run of
// underscores and uppercase letters.
func isLanguage(s string) bool {
	if len(s) < 2 || !isLower(s[0]) || !isLower(s[1]) {
		return false
	}
	for i := 2; i < len(s); i++ {
		if c := s[i]; c != '_' && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// trailingFile returns the longest suffix of s made of file name
// characters, which must include at least one before the extension.
func trailingFile(s string) (string, bool) {
	stem := strings.TrimSuffix(s, mdExt)
	i := len(stem)
	for i > 0 && isFileChar(stem[i-1]) {
		i--
	}
	if i == len(stem) {
		return "", false
	}
	return s[i:], true
}

// isFileChar reports whether c may appear in a page file name. Brackets
// and bangs are real command names ("[", "[[", "!").
func isFileChar(c byte) bool {
	switch {
	case isLower(c), c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '_', '-', '+', '[', '!', '.':
		return true
	}
	return false
}

func isLower(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func appendUnique(s []string, v string) []string {
	if slices.Contains(s, v) {
		return s
	}
	return append(s, v)
}
