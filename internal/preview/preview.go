// Package preview displays a fetched page. The "active" position writes
// the page to the terminal, rendered with glamour when attached to one.
// The "beside" position converts it to a standalone HTML file under the
// state directory and prints its location, for viewing next to the
// terminal in a browser or editor.
package preview

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/tldr-panel/internal/config"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Style is the glamour style used for terminal rendering.
const Style = "dark"

// Subdir is where beside previews are written, relative to the state
// directory.
const Subdir = "preview"

var webMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// Options control how a page is shown.
type Options struct {
	Position string // config.PanelActive or config.PanelBeside
	Raw      bool   // never render, write markdown as-is
	TTY      bool   // output is a terminal
	Dir      string // state directory for beside previews
}

// Shown reports where a page ended up.
type Shown struct {
	Position string `json:"position"`
	Path     string `json:"path,omitempty"`
}

// Show writes markdown for command according to opts.
func Show(w io.Writer, command, markdown string, opts Options) (Shown, error) {
	if opts.Position == config.PanelBeside {
		path, err := WriteHTML(opts.Dir, command, markdown)
		if err != nil {
			return Shown{}, err
		}
		fmt.Fprintln(w, path)
		return Shown{Position: config.PanelBeside, Path: path}, nil
	}

	fmt.Fprint(w, Terminal(markdown, opts.TTY && !opts.Raw))
	return Shown{Position: config.PanelActive}, nil
}

// Terminal returns markdown rendered for a terminal when render is set,
// otherwise unchanged. Rendering errors fall back to the raw text.
func Terminal(markdown string, render bool) string {
	if !render {
		return markdown
	}
	out, err := glamour.Render(markdown, Style)
	if err != nil {
		return markdown
	}
	return out
}

// HTML converts markdown into a complete HTML document.
func HTML(title, markdown string) (string, error) {
	var buf bytes.Buffer
	if err := webMarkdown.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return fmt.Sprintf(page, html.EscapeString(title), buf.String()), nil
}

// WriteHTML writes the HTML preview for command under dir and returns the
// file path.
func WriteHTML(dir, command, markdown string) (string, error) {
	doc, err := HTML("tldr: "+command, markdown)
	if err != nil {
		return "", err
	}

	out := filepath.Join(dir, Subdir)
	if err := os.MkdirAll(out, 0755); err != nil {
		return "", fmt.Errorf("creating preview directory: %w", err)
	}
	path := filepath.Join(out, FileName(command))
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return "", fmt.Errorf("writing preview: %w", err)
	}
	return path, nil
}

// FileName maps a command to a safe file name. Commands such as "[" and
// "[[" are real, so anything outside a conservative set is replaced.
func FileName(command string) string {
	var b strings.Builder
	for _, r := range command {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '+', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := strings.TrimLeft(b.String(), ".")
	if name == "" {
		name = "_"
	}
	return name + ".html"
}

const page = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; max-width: 50em; margin: 2em auto; padding: 0 1em; line-height: 1.5; }
code { font-family: ui-monospace, SFMono-Regular, Menlo, monospace; background: #f4f4f4; padding: 0.1em 0.3em; border-radius: 3px; }
blockquote { color: #555; border-left: 3px solid #ccc; margin-left: 0; padding-left: 1em; }
</style>
</head>
<body>
%s</body>
</html>
`
