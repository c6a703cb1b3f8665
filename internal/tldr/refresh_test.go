package tldr

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jpl-au/tldr-panel/internal/memory"
	"github.com/jpl-au/tldr-panel/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresh_FreshCacheSkips(t *testing.T) {
	u := newUpstream(t, "pages/linux/ls.md")
	h := newHarness(t, u, epoch.Add(time.Hour))
	h.seed(t, u, map[string][]string{"git": {"en/linux"}})

	var rec progress.Recorder
	got := h.client.Refresh(context.Background(), &rec, false)

	assert.Equal(t, Skipped, got)
	assert.Equal(t, int32(0), u.treeHits.Load())
	assert.Equal(t, []float64{100}, rec.Increments())
	assert.Empty(t, h.sink.Messages())
}

func TestRefresh_ForcedFetches(t *testing.T) {
	u := newUpstream(t, "pages/linux/ls.md", "pages.de/common/tar.md", "README.md", "pages/osx/ls.md")
	h := newHarness(t, u, epoch.Add(time.Hour))
	h.seed(t, u, map[string][]string{"git": {"en/linux"}})

	var rec progress.Recorder
	got := h.client.Refresh(context.Background(), &rec, true)

	require.Equal(t, Refreshed, got)
	assert.Equal(t, int32(1), u.treeHits.Load())
	assert.Equal(t, []float64{30, 20, 12.5, 12.5, 12.5, 12.5}, rec.Increments())
	assert.InDelta(t, 100, rec.Sum(), 1e-9)

	cmds, err := h.mem.CommandList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ls", "tar"}, cmds)

	langs, err := h.mem.LanguageList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"de", "en"}, langs)

	last, ok, err := h.mem.LastUpdate(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, epoch.Add(time.Hour).UnixMilli(), last.UnixMilli())

	cm, err := h.mem.CachedPages(context.Background())
	require.NoError(t, err)
	page, ok := cm["ls"].Entries["en"].Get("osx")
	require.True(t, ok)
	assert.Equal(t, u.source().RawBaseURL+"/pages/osx/ls.md", page.URL)
}

func TestRefresh_EmptyCacheFetches(t *testing.T) {
	u := newUpstream(t, "pages/linux/ls.md")
	h := newHarness(t, u, epoch)

	assert.Equal(t, Refreshed, h.client.Refresh(context.Background(), nil, false))
	assert.Equal(t, int32(1), u.treeHits.Load())
}

func TestRefresh_ExpiredCacheFetches(t *testing.T) {
	u := newUpstream(t, "pages/linux/ls.md")
	h := newHarness(t, u, epoch.Add(43200*time.Minute+time.Millisecond))
	h.seed(t, u, map[string][]string{"git": {"en/linux"}})

	assert.Equal(t, Refreshed, h.client.Refresh(context.Background(), nil, false))
	assert.Equal(t, int32(1), u.treeHits.Load())
}

func TestRefresh_StatusError(t *testing.T) {
	u := newUpstream(t, "pages/linux/ls.md")
	u.set(func(u *upstream) { u.treeStatus = http.StatusForbidden })
	h := newHarness(t, u, epoch)

	var rec progress.Recorder
	got := h.client.Refresh(context.Background(), &rec, true)

	assert.Equal(t, Failed, got)
	assert.Equal(t, []string{"TLDR: unable to cache commands. Github api returned status code 403"}, h.sink.Messages())
	assert.Equal(t, []float64{30}, rec.Increments())

	entries, err := h.state.Entries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRefresh_EmptyResult(t *testing.T) {
	for name, paths := range map[string][]string{
		"no items":    nil,
		"no pages":    {".editorconfig", "paigeges/common/ansible-playbook.md"},
		"only readme": {"README.md"},
	} {
		t.Run(name, func(t *testing.T) {
			u := newUpstream(t, paths...)
			h := newHarness(t, u, epoch)

			got := h.client.Refresh(context.Background(), nil, true)

			assert.Equal(t, Failed, got)
			assert.Equal(t, []string{"TLDR: unable to cache commands. Please try again later."}, h.sink.Messages())
			entries, err := h.state.Entries(context.Background())
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestRefresh_MalformedBody(t *testing.T) {
	u := newUpstream(t)
	u.set(func(u *upstream) { u.treeBody = "<html>rate limited</html>" })
	h := newHarness(t, u, epoch)

	assert.Equal(t, Failed, h.client.Refresh(context.Background(), nil, true))
	assert.Equal(t, []string{msgCacheNetwork}, h.sink.Messages())
}

func TestRefresh_TransportFailure(t *testing.T) {
	u := newUpstream(t)
	h := newHarness(t, u, epoch)
	u.srv.Close()

	var rec progress.Recorder
	assert.Equal(t, Failed, h.client.Refresh(context.Background(), &rec, true))
	assert.Equal(t, []string{msgCacheNetwork}, h.sink.Messages())
	assert.Equal(t, []float64{30}, rec.Increments())
}

func TestRefresh_KeepsPreviousCacheOnFailure(t *testing.T) {
	u := newUpstream(t)
	u.set(func(u *upstream) { u.treeStatus = http.StatusInternalServerError })
	h := newHarness(t, u, epoch)
	h.seed(t, u, map[string][]string{"git": {"en/linux"}})

	h.client.Refresh(context.Background(), nil, true)

	cmds, err := h.mem.CommandList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"git"}, cmds)
}

func TestEnsureFresh(t *testing.T) {
	u := newUpstream(t, "pages/linux/ls.md")
	h := newHarness(t, u, epoch)
	h.seed(t, u, map[string][]string{"git": {"en/linux"}})

	assert.Equal(t, Skipped, h.client.EnsureFresh(context.Background(), nil))
	assert.Equal(t, int32(0), u.treeHits.Load())

	later := memory.New(h.cfg, h.state, memory.WithClock(func() time.Time { return epoch.Add(31 * 24 * time.Hour) }))
	c := New(later, h.client.fetch, h.sink, WithSource(u.source()))
	assert.Equal(t, Refreshed, c.EnsureFresh(context.Background(), nil))
	assert.Equal(t, int32(1), u.treeHits.Load())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "refreshed", Refreshed.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "Outcome(9)", Outcome(9).String())
}
