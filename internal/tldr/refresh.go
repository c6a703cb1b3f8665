package tldr

import (
	"context"
	"fmt"

	"github.com/jpl-au/tldr-panel/internal/progress"
	"github.com/jpl-au/tldr-panel/internal/remote"
	"github.com/jpl-au/tldr-panel/internal/tree"
)

// Progress units reported by Refresh before the parse takes over.
const (
	fetchUnits  = 30
	decodeUnits = 20
)

// User-facing refresh failures.
const (
	msgCacheStatus    = "TLDR: unable to cache commands. Github api returned status code %d"
	msgCacheEmpty     = "TLDR: unable to cache commands. Please try again later."
	msgCacheNetwork   = "TLDR: unable to cache commands. Please check your network connection and try again."
	msgCacheSaveError = "TLDR: unable to cache commands. The page index could not be saved."
)

// Outcome describes what Refresh did.
type Outcome int

const (
	// Skipped means the cache was fresh and nothing was fetched.
	Skipped Outcome = iota
	// Refreshed means the cache was rebuilt.
	Refreshed
	// Failed means the refresh was attempted and the cache left as it was.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Refreshed:
		return "refreshed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Refresh rebuilds the page index from the repository listing. Unless
// forced, a non-empty and unexpired cache is left alone.
func (c *Client) Refresh(ctx context.Context, p progress.Reporter, forced bool) Outcome {
	if p == nil {
		p = progress.Nop
	}

	if !forced && c.fresh(ctx) {
		c.log.Debug("cache already exists")
		p.Report(progress.Update{Increment: progress.Total})
		return Skipped
	}

	c.log.Debug("cache refresh is required", "forced", forced, "url", c.src.TreeURL)
	p.Report(progress.Update{Message: "fetching index", Increment: fetchUnits})

	resp, err := c.fetch.Get(ctx, c.src.TreeURL)
	if err != nil {
		c.log.Error("fetching page index", "error", err)
		c.notify.Error(msgCacheNetwork)
		return Failed
	}
	if !resp.OK() {
		c.log.Warn("page index request rejected", "status", resp.StatusCode)
		c.notify.Error(fmt.Sprintf(msgCacheStatus, resp.StatusCode))
		return Failed
	}

	p.Report(progress.Update{Message: "parsing", Increment: decodeUnits})
	tr, err := remote.DecodeTree(resp.Body)
	if err != nil {
		c.log.Error("decoding page index", "error", err)
		c.notify.Error(msgCacheNetwork)
		return Failed
	}
	if tr.Truncated {
		c.log.Warn("page index truncated by the api", "entries", len(tr.Tree))
	}

	cm, langs := tree.Parse(tr.Tree, c.src.RawBaseURL, p)
	if len(cm) == 0 {
		c.notify.Error(msgCacheEmpty)
		return Failed
	}

	if err := c.mem.UpdateCache(ctx, cm, langs); err != nil {
		c.log.Error("saving page index", "error", err)
		c.notify.Error(msgCacheSaveError)
		return Failed
	}
	c.log.Info("cache refreshed", "commands", len(cm), "languages", len(langs))
	return Refreshed
}

// EnsureFresh runs a forced refresh when the cache has expired.
func (c *Client) EnsureFresh(ctx context.Context, p progress.Reporter) Outcome {
	expired, err := c.mem.CacheIsExpired(ctx)
	if err != nil {
		c.log.Warn("checking cache expiry", "error", err)
	}
	if !expired && err == nil {
		return Skipped
	}
	return c.Refresh(ctx, p, true)
}

// fresh reports whether a non-empty, unexpired cache exists. Store errors
// count as stale so the refresh goes ahead.
func (c *Client) fresh(ctx context.Context) bool {
	cmds, err := c.mem.CommandList(ctx)
	if err != nil {
		c.log.Warn("reading command list", "error", err)
		return false
	}
	if len(cmds) == 0 {
		return false
	}
	expired, err := c.mem.CacheIsExpired(ctx)
	if err != nil {
		c.log.Warn("checking cache expiry", "error", err)
		return false
	}
	return !expired
}
