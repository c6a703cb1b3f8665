// Package picker is the "pick one of N strings" prompt. Typing filters the
// choices with fuzzy matching; an exact name or a single match is taken
// straight away, otherwise the best matches are numbered for selection.
// An empty answer cancels.
package picker

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// DefaultLimit is how many matches are listed at once.
const DefaultLimit = 10

// ErrNoChoices is returned when there is nothing to pick from.
var ErrNoChoices = errors.New("nothing to choose from")

// Picker prompts on out and reads answers from in.
type Picker struct {
	in    *bufio.Reader
	out   io.Writer
	Limit int
}

// New returns a picker over in and out.
func New(in io.Reader, out io.Writer) *Picker {
	return &Picker{in: bufio.NewReader(in), out: out, Limit: DefaultLimit}
}

// Match returns the items matching query, best first. An empty query
// matches everything in the original order.
func Match(query string, items []string) []string {
	if query == "" {
		return slices.Clone(items)
	}
	matches := fuzzy.Find(query, items)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}

// Pick asks the user to choose one of items. query seeds the first round;
// when empty the user is prompted for one. It returns "" when the user
// cancels.
func (p *Picker) Pick(placeholder string, items []string, query string) (string, error) {
	if len(items) == 0 {
		return "", ErrNoChoices
	}

	var listed []string
	for {
		if query == "" {
			if len(listed) > 0 {
				fmt.Fprintf(p.out, "Select [1-%d] or refine: ", len(listed))
			} else {
				fmt.Fprintf(p.out, "%s: ", placeholder)
			}
			line, err := p.readLine()
			if err != nil {
				return "", err
			}
			if line == "" {
				return "", nil
			}
			if n, err := strconv.Atoi(line); err == nil && len(listed) > 0 {
				if n >= 1 && n <= len(listed) {
					return listed[n-1], nil
				}
				fmt.Fprintf(p.out, "No choice %d\n", n)
				continue
			}
			query = line
		}

		if slices.Contains(items, query) {
			return query, nil
		}

		matches := Match(query, items)
		switch len(matches) {
		case 0:
			fmt.Fprintf(p.out, "No matches for %q\n", query)
			listed = nil
		case 1:
			return matches[0], nil
		default:
			listed = matches[:min(len(matches), p.limit())]
			for i, m := range listed {
				fmt.Fprintf(p.out, "%3d. %s\n", i+1, m)
			}
			if len(matches) > len(listed) {
				fmt.Fprintf(p.out, "     ... %d more\n", len(matches)-len(listed))
			}
		}
		query = ""
	}
}

func (p *Picker) limit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	return p.Limit
}

// readLine reads one trimmed line. EOF with no input counts as an empty
// answer.
func (p *Picker) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
