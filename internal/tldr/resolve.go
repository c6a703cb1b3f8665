package tldr

import (
	"context"
	"errors"
	"fmt"

	"github.com/jpl-au/tldr-panel/internal/pages"
	"github.com/jpl-au/tldr-panel/internal/progress"
)

var (
	// ErrCommandNotFound means the command is not in the page index.
	ErrCommandNotFound = errors.New("command does not exist")
	// ErrLanguageMissing means the command has no pages in the language.
	ErrLanguageMissing = errors.New("language not available for command")
	// ErrPageUnavailable means no platform variant could be chosen.
	ErrPageUnavailable = errors.New("page unavailable")
	// ErrRemoteFailure means the page server answered with a non-2xx status.
	ErrRemoteFailure = errors.New("page request failed")
	// ErrTransportFailure means the page could not be fetched at all.
	ErrTransportFailure = errors.New("page could not be fetched")
)

// Progress units reported per fetch stage.
const stageUnits = 50

// User-facing resolution messages.
const (
	msgNotFoundNotice = "TLDR Panel: Command does not exist"
	msgNotFound       = "Command does not exist"
	msgUnavailable    = "TLDR: Unable to load page"
	msgLanguage       = `TLDR: Unable to load page. Language "%s" is not available for this command`
	msgStatus         = "TLDR: Unable to retrieve document. Http status code %d"
	msgTransport      = "TLDR: Unable to retrieve document. Please check your network connection and try again."
)

// Kind classifies a resolution result.
type Kind int

const (
	KindFound Kind = iota
	KindNotFound
	KindLanguageMissing
	KindUnavailable
	KindRemoteFailure
	KindTransportFailure
)

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k Kind) String() string {
	switch k {
	case KindFound:
		return "found"
	case KindNotFound:
		return "not_found"
	case KindLanguageMissing:
		return "language_missing"
	case KindUnavailable:
		return "unavailable"
	case KindRemoteFailure:
		return "remote_failure"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ResolveOptions override the configured language and platform for one
// lookup. Empty fields use the configured values.
type ResolveOptions struct {
	Language string
	Platform pages.Platform
}

// Result is the outcome of resolving a command.
type Result struct {
	Kind       Kind           `json:"kind"`
	Command    string         `json:"command"`
	Language   string         `json:"language,omitempty"`
	Platform   pages.Platform `json:"platform,omitempty"`
	URL        string         `json:"url,omitempty"`
	StatusCode int            `json:"status_code,omitempty"`
	Markdown   string         `json:"markdown,omitempty"`
	// Available lists the command's languages when the requested one is
	// missing.
	Available []string `json:"available,omitempty"`
}

// Text is the string shown to the user: the page itself, or a message
// explaining why there is none.
func (r Result) Text() string {
	switch r.Kind {
	case KindFound:
		return r.Markdown
	case KindNotFound:
		return msgNotFound
	case KindLanguageMissing:
		return fmt.Sprintf(msgLanguage, r.Language)
	case KindRemoteFailure:
		return fmt.Sprintf(msgStatus, r.StatusCode)
	case KindTransportFailure:
		return msgTransport
	default:
		return msgUnavailable
	}
}

// Err returns nil for a found page and a sentinel-wrapping error otherwise.
func (r Result) Err() error {
	switch r.Kind {
	case KindFound:
		return nil
	case KindNotFound:
		return fmt.Errorf("%w: %q", ErrCommandNotFound, r.Command)
	case KindLanguageMissing:
		return fmt.Errorf("%w: %s has no %q pages", ErrLanguageMissing, r.Command, r.Language)
	case KindRemoteFailure:
		return fmt.Errorf("%w: %s returned status %d", ErrRemoteFailure, r.URL, r.StatusCode)
	case KindTransportFailure:
		return fmt.Errorf("%w: %s", ErrTransportFailure, r.URL)
	default:
		return fmt.Errorf("%w: %s", ErrPageUnavailable, r.Command)
	}
}

// Page resolves command with the configured language and platform and
// returns the text to display.
func (c *Client) Page(ctx context.Context, p progress.Reporter, command string) string {
	return c.Resolve(ctx, p, command, ResolveOptions{}).Text()
}

// Resolve finds the page for command and fetches it. The platform falls
// back to "common" and then to the first platform recorded for the
// command. The language does not fall back.
func (c *Client) Resolve(ctx context.Context, p progress.Reporter, command string, opts ResolveOptions) Result {
	if p == nil {
		p = progress.Nop
	}
	res := Result{Command: command}

	cm, err := c.mem.CachedPages(ctx)
	if err != nil {
		c.log.Warn("reading cached pages", "error", err)
	}
	rec, ok := cm.Lookup(command)
	if !ok {
		p.Report(progress.Update{Increment: progress.Total})
		c.notify.Error(msgNotFoundNotice)
		res.Kind = KindNotFound
		return res
	}

	p.Report(progress.Update{Increment: 0})

	res.Language = opts.Language
	if res.Language == "" {
		res.Language = c.mem.DefaultLanguage()
	}
	entry, ok := rec.Entries[res.Language]
	if !ok {
		p.Report(progress.Update{Increment: progress.Total})
		res.Kind = KindLanguageMissing
		res.Available = rec.Languages()
		return res
	}

	platform := opts.Platform
	if platform == "" {
		platform = c.mem.DefaultPlatform()
	}
	res.Platform, res.URL, ok = choose(entry, platform)
	if !ok {
		p.Report(progress.Update{Increment: progress.Total})
		res.Kind = KindUnavailable
		return res
	}

	c.log.Debug("fetching page", "command", command, "language", res.Language, "platform", res.Platform, "url", res.URL)
	resp, err := c.fetch.Get(ctx, res.URL)
	p.Report(progress.Update{Increment: stageUnits})
	if err != nil {
		c.log.Error("fetching page", "url", res.URL, "error", err)
		p.Report(progress.Update{Increment: stageUnits})
		res.Kind = KindTransportFailure
		return res
	}
	if !resp.OK() {
		p.Report(progress.Update{Increment: stageUnits})
		res.Kind = KindRemoteFailure
		res.StatusCode = resp.StatusCode
		return res
	}

	res.Markdown = resp.Text()
	res.StatusCode = resp.StatusCode
	p.Report(progress.Update{Increment: stageUnits})
	res.Kind = KindFound
	return res
}

// choose picks the page for platform, then "common", then the first
// platform recorded.
func choose(entry *pages.CommandEntry, platform pages.Platform) (pages.Platform, string, bool) {
	if pg, ok := entry.Get(platform); ok {
		return platform, pg.URL, true
	}
	if pg, ok := entry.Get(pages.Common); ok {
		return pages.Common, pg.URL, true
	}
	if p, pg, ok := entry.First(); ok {
		return p, pg.URL, true
	}
	return "", "", false
}
