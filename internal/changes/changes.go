// Package changes summarises how the set of cached commands moved between
// two refreshes.
package changes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Summary lists commands that appeared or disappeared.
type Summary struct {
	Before  int      `json:"before"`
	After   int      `json:"after"`
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// Empty reports whether nothing changed.
func (s Summary) Empty() bool {
	return len(s.Added) == 0 && len(s.Removed) == 0
}

// Compute compares two command lists. Order of the inputs does not matter.
func Compute(before, after []string) Summary {
	a := sortedLines(before)
	b := sortedLines(after)

	dmp := diffmatchpatch.New()
	c1, c2, lines := dmp.DiffLinesToChars(a, b)
	d := dmp.DiffCharsToLines(dmp.DiffMain(c1, c2, false), lines)

	s := Summary{Before: len(before), After: len(after), Added: []string{}, Removed: []string{}}
	for _, part := range d {
		names := split(part.Text)
		switch part.Type {
		case diffmatchpatch.DiffInsert:
			s.Added = append(s.Added, names...)
		case diffmatchpatch.DiffDelete:
			s.Removed = append(s.Removed, names...)
		}
	}
	slices.Sort(s.Added)
	slices.Sort(s.Removed)
	return s
}

func sortedLines(cmds []string) string {
	c := slices.Clone(cmds)
	slices.Sort(c)
	c = slices.Compact(c)
	if len(c) == 0 {
		return ""
	}
	return strings.Join(c, "\n") + "\n"
}

func split(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Format renders the summary as a unified-style listing.
func (s Summary) Format(colour bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- cached (%d commands)\n+++ refreshed (%d commands)\n", s.Before, s.After)
	for _, c := range s.Removed {
		b.WriteString("- " + c + "\n")
	}
	for _, c := range s.Added {
		b.WriteString("+ " + c + "\n")
	}
	if colour {
		return Colourise(b.String())
	}
	return b.String()
}

// Colourise adds ANSI colours to removed and added lines.
func Colourise(d string) string {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		reset = "\033[0m"
	)

	var b strings.Builder
	for _, line := range strings.Split(d, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "- "):
			b.WriteString(red + line + reset + "\n")
		case strings.HasPrefix(line, "+ "):
			b.WriteString(green + line + reset + "\n")
		default:
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
