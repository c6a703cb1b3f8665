package tldr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jpl-au/tldr-panel/internal/config"
	"github.com/jpl-au/tldr-panel/internal/memory"
	"github.com/jpl-au/tldr-panel/internal/notify"
	"github.com/jpl-au/tldr-panel/internal/pages"
	"github.com/jpl-au/tldr-panel/internal/remote"
	"github.com/jpl-au/tldr-panel/internal/store"
	"github.com/stretchr/testify/require"
)

var epoch = time.UnixMilli(1_700_000_000_000)

// upstream is a fake tldr-pages repository.
type upstream struct {
	srv        *httptest.Server
	mu         sync.Mutex
	treeStatus int
	treeBody   string
	pages      map[string]string // path under raw base -> body
	pageStatus int
	treeHits   atomic.Int32
	pageHits   atomic.Int32
}

func newUpstream(t *testing.T, paths ...string) *upstream {
	t.Helper()
	u := &upstream{
		treeStatus: http.StatusOK,
		treeBody:   treeJSON(t, paths...),
		pages:      map[string]string{},
		pageStatus: http.StatusOK,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/tree", func(w http.ResponseWriter, r *http.Request) {
		u.treeHits.Add(1)
		u.mu.Lock()
		status, body := u.treeStatus, u.treeBody
		u.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("/raw/", func(w http.ResponseWriter, r *http.Request) {
		u.pageHits.Add(1)
		u.mu.Lock()
		body, ok := u.pages[strings.TrimPrefix(r.URL.Path, "/raw/")]
		status := u.pageStatus
		u.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
	u.srv = httptest.NewServer(mux)
	t.Cleanup(u.srv.Close)
	return u
}

// set mutates the fake under its lock.
func (u *upstream) set(fn func(u *upstream)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fn(u)
}

func (u *upstream) source() Source {
	return Source{TreeURL: u.srv.URL + "/tree", RawBaseURL: u.srv.URL + "/raw"}
}

func treeJSON(t *testing.T, paths ...string) string {
	t.Helper()
	tr := remote.TreeResponse{SHA: "abc", URL: "https://example.invalid/tree"}
	tr.Tree = []remote.TreeItem{}
	for _, p := range paths {
		tr.Tree = append(tr.Tree, remote.TreeItem{Path: p, Type: remote.ItemBlob})
	}
	b, err := json.Marshal(tr)
	require.NoError(t, err)
	return string(b)
}

// harness wires a client to a fresh SQLite state store.
type harness struct {
	client *Client
	mem    *memory.Memory
	state  *store.SQLiteStore
	sink   *notify.Collector
	cfg    *config.Config
}

func newHarness(t *testing.T, u *upstream, now time.Time) *harness {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	require.NoError(t, st.Init())
	t.Cleanup(func() { st.Close() })

	h := &harness{state: st, sink: &notify.Collector{}, cfg: &config.Config{}}
	h.mem = memory.New(h.cfg, st, memory.WithClock(func() time.Time { return now }), memory.WithGOOS("linux"))
	h.client = New(h.mem, &remote.HTTP{}, h.sink, WithSource(u.source()))
	return h
}

// seedRaw stores pages exactly as given, bypassing the typed model.
func (h *harness) seedRaw(t *testing.T, pagesJSON string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, h.state.Set(ctx, memory.KeyPages, json.RawMessage(pagesJSON)))
	require.NoError(t, h.state.Set(ctx, memory.KeyLastUpdate, epoch.UnixMilli()))
}

// seed stores a command map as if a refresh had happened at epoch.
func (h *harness) seed(t *testing.T, u *upstream, variants map[string][]string) {
	t.Helper()
	cm := pages.CommandMap{}
	for command, paths := range variants {
		rec := &pages.CommandRecord{Command: command, Entries: map[string]*pages.CommandEntry{}}
		for _, p := range paths {
			lang, platform, _ := strings.Cut(p, "/")
			e, ok := rec.Entries[lang]
			if !ok {
				e = pages.NewCommandEntry()
				rec.Entries[lang] = e
			}
			e.Set(platform, pages.CommandPage{URL: u.source().RawBaseURL + "/" + p + "/" + command + ".md"})
		}
		cm[command] = rec
	}
	mem := memory.New(h.cfg, h.state, memory.WithClock(func() time.Time { return epoch }))
	require.NoError(t, mem.UpdateCache(context.Background(), cm, []string{"en"}))
}
