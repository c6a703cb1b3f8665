package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jpl-au/tldr-panel/extension"
	"github.com/jpl-au/tldr-panel/internal/config"
	"github.com/jpl-au/tldr-panel/internal/memory"
	"github.com/jpl-au/tldr-panel/internal/remote"
	"github.com/jpl-au/tldr-panel/internal/store"
	"github.com/jpl-au/tldr-panel/internal/tldr"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo serves a git-trees listing and raw pages.
type fakeRepo struct {
	srv        *httptest.Server
	mu         sync.Mutex
	paths      []string
	pages      map[string]string
	treeStatus int
}

func newFakeRepo(t *testing.T) *fakeRepo {
	t.Helper()
	r := &fakeRepo{
		paths: []string{
			"pages/common/tar.md",
			"pages/linux/tar.md",
			"pages.de/common/tar.md",
			"pages/common/git.md",
			"README.md",
		},
		pages: map[string]string{
			"pages/common/tar.md":    "# tar\n\n> Archiving utility.",
			"pages/linux/tar.md":     "# tar\n\n> GNU tar.",
			"pages.de/common/tar.md": "# tar\n\n> Archivierungswerkzeug.",
			"pages/common/git.md":    "# git",
		},
		treeStatus: http.StatusOK,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/tree", func(w http.ResponseWriter, _ *http.Request) {
		r.mu.Lock()
		defer r.mu.Unlock()
		tr := remote.TreeResponse{SHA: "abc", Tree: []remote.TreeItem{}}
		for _, p := range r.paths {
			tr.Tree = append(tr.Tree, remote.TreeItem{Path: p, Type: remote.ItemBlob})
		}
		w.WriteHeader(r.treeStatus)
		_ = json.NewEncoder(w).Encode(tr)
	})
	mux.HandleFunc("/raw/", func(w http.ResponseWriter, req *http.Request) {
		body, ok := r.pages[strings.TrimPrefix(req.URL.Path, "/raw/")]
		if !ok {
			http.NotFound(w, req)
			return
		}
		_, _ = w.Write([]byte(body))
	})
	r.srv = httptest.NewServer(mux)
	t.Cleanup(r.srv.Close)
	return r
}

func (r *fakeRepo) set(fn func(r *fakeRepo)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r)
}

func newTestContext(t *testing.T, repo *fakeRepo) extension.Context {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(filepath.Join(dir, "state.db"))
	require.NoError(t, err)
	require.NoError(t, st.Init())
	t.Cleanup(func() { st.Close() })

	cfg, err := config.LoadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	mem := memory.New(cfg, st, memory.WithGOOS("linux"))
	client := tldr.New(mem, &remote.HTTP{}, nil, tldr.WithSource(tldr.Source{
		TreeURL:    repo.srv.URL + "/tree",
		RawBaseURL: repo.srv.URL + "/raw",
	}))
	return extension.NewContext(client, cfg, dir)
}

func newRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestPage_RefreshesThenResolves(t *testing.T) {
	h := newHandlers(newTestContext(t, newFakeRepo(t)), nil)

	res, err := h.page(context.Background(), newRequest("tldr_page", map[string]any{"command": "tar"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "# tar\n\n> GNU tar.", resultText(t, res))
}

func TestPage_Overrides(t *testing.T) {
	h := newHandlers(newTestContext(t, newFakeRepo(t)), nil)

	res, err := h.page(context.Background(), newRequest("tldr_page", map[string]any{
		"command":  "tar",
		"language": "de",
		"platform": "osx",
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "Archivierungswerkzeug")
}

func TestPage_Errors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing command", map[string]any{}, "command is required"},
		{"unknown platform", map[string]any{"command": "tar", "platform": "beos"}, "unknown platform"},
		{"unknown command", map[string]any{"command": "nope"}, "Command does not exist"},
		{"missing language", map[string]any{"command": "git", "language": "de"}, `Language "de" is not available`},
		{"missing language lists others", map[string]any{"command": "git", "language": "de"}, "Available languages: en"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHandlers(newTestContext(t, newFakeRepo(t)), nil)
			res, err := h.page(context.Background(), newRequest("tldr_page", tc.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tc.want)
		})
	}
}

func TestRefresh(t *testing.T) {
	repo := newFakeRepo(t)
	h := newHandlers(newTestContext(t, repo), nil)
	ctx := context.Background()

	res, err := h.refresh(ctx, newRequest("tldr_refresh", nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var got struct {
		Outcome  string   `json:"outcome"`
		Commands int      `json:"commands"`
		Added    []string `json:"added"`
		Removed  []string `json:"removed"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, "refreshed", got.Outcome)
	assert.Equal(t, 2, got.Commands)
	assert.Equal(t, []string{"git", "tar"}, got.Added)
	assert.Empty(t, got.Removed)

	// Fresh cache, not forced
	res, err = h.refresh(ctx, newRequest("tldr_refresh", nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), `"outcome": "skipped"`)

	repo.set(func(r *fakeRepo) { r.paths = []string{"pages/common/tar.md", "pages/common/ls.md"} })
	res, err = h.refresh(ctx, newRequest("tldr_refresh", map[string]any{"force": true}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, []string{"ls"}, got.Added)
	assert.Equal(t, []string{"git"}, got.Removed)
}

func TestRefresh_Failure(t *testing.T) {
	repo := newFakeRepo(t)
	repo.set(func(r *fakeRepo) { r.treeStatus = http.StatusForbidden })
	h := newHandlers(newTestContext(t, repo), nil)

	res, err := h.refresh(context.Background(), newRequest("tldr_refresh", map[string]any{"force": true}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Github api returned status code 403")
}

func TestCommandsAndLanguages(t *testing.T) {
	h := newHandlers(newTestContext(t, newFakeRepo(t)), nil)
	ctx := context.Background()

	_, err := h.refresh(ctx, newRequest("tldr_refresh", nil))
	require.NoError(t, err)

	res, err := h.commands(ctx, newRequest("tldr_commands", nil))
	require.NoError(t, err)
	var cmds []string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &cmds))
	assert.Equal(t, []string{"git", "tar"}, cmds)

	res, err = h.commands(ctx, newRequest("tldr_commands", map[string]any{"query": "tr"}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &cmds))
	assert.Equal(t, []string{"tar"}, cmds)

	res, err = h.languages(ctx, newRequest("tldr_languages", nil))
	require.NoError(t, err)
	var langs struct {
		Default   string   `json:"default"`
		Languages []string `json:"languages"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &langs))
	assert.Equal(t, "en", langs.Default)
	assert.Equal(t, []string{"de", "en"}, langs.Languages)
}

func TestStatus(t *testing.T) {
	h := newHandlers(newTestContext(t, newFakeRepo(t)), nil)
	ctx := context.Background()

	var st struct {
		Refreshed bool     `json:"refreshed"`
		Expired   bool     `json:"expired"`
		Commands  int      `json:"commands"`
		Languages []string `json:"languages"`
		Entries   []struct {
			Key string `json:"key"`
		} `json:"entries"`
	}

	res, err := h.status(ctx, newRequest("tldr_status", nil))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &st))
	assert.False(t, st.Refreshed)
	assert.True(t, st.Expired)
	assert.Empty(t, st.Entries)

	_, err = h.refresh(ctx, newRequest("tldr_refresh", nil))
	require.NoError(t, err)

	res, err = h.status(ctx, newRequest("tldr_status", nil))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &st))
	assert.True(t, st.Refreshed)
	assert.False(t, st.Expired)
	assert.Equal(t, 2, st.Commands)
	assert.Equal(t, []string{"de", "en"}, st.Languages)
	assert.Len(t, st.Entries, 3)
}

func TestSetLanguage(t *testing.T) {
	extCtx := newTestContext(t, newFakeRepo(t))
	h := newHandlers(extCtx, nil)
	ctx := context.Background()

	_, err := h.refresh(ctx, newRequest("tldr_refresh", nil))
	require.NoError(t, err)

	res, err := h.setLanguage(ctx, newRequest("tldr_set_language", map[string]any{"language": "fr"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "not in the page index")

	res, err = h.setLanguage(ctx, newRequest("tldr_set_language", map[string]any{"language": "de"}))
	require.NoError(t, err)
	assert.Equal(t, "language.default = de", resultText(t, res))
	assert.Equal(t, "de", extCtx.Memory().DefaultLanguage())

	reloaded, err := config.LoadFile(extCtx.Config().Path())
	require.NoError(t, err)
	assert.Equal(t, "de", reloaded.DefaultLanguage())

	res, err = h.setLanguage(ctx, newRequest("tldr_set_language", map[string]any{"language": ""}))
	require.NoError(t, err)
	assert.Equal(t, "language.default = en", resultText(t, res))
}

func TestSetPlatform(t *testing.T) {
	extCtx := newTestContext(t, newFakeRepo(t))
	h := newHandlers(extCtx, nil)
	ctx := context.Background()

	res, err := h.setPlatform(ctx, newRequest("tldr_set_platform", map[string]any{"platform": "osx"}))
	require.NoError(t, err)
	assert.Equal(t, "platform.default = osx", resultText(t, res))

	res, err = h.setPlatform(ctx, newRequest("tldr_set_platform", map[string]any{"platform": "beos"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = h.setPlatform(ctx, newRequest("tldr_set_platform", map[string]any{"platform": ""}))
	require.NoError(t, err)
	assert.Equal(t, "platform.default = linux", resultText(t, res))
}

func TestConfigTools(t *testing.T) {
	h := newHandlers(newTestContext(t, newFakeRepo(t)), nil)
	ctx := context.Background()

	res, err := h.configSet(ctx, newRequest("tldr_config_set", map[string]any{"key": "panel.position", "value": "beside"}))
	require.NoError(t, err)
	assert.Equal(t, "panel.position = beside", resultText(t, res))

	res, err = h.configGet(ctx, newRequest("tldr_config_get", map[string]any{"key": "panel.position"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"panel.position": "beside"}`, resultText(t, res))

	res, err = h.configGet(ctx, newRequest("tldr_config_get", nil))
	require.NoError(t, err)
	var all map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &all))
	assert.Len(t, all, len(config.ValidKeys()))

	res, err = h.configSet(ctx, newRequest("tldr_config_set", map[string]any{"key": "author.name", "value": "x"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = h.configSet(ctx, newRequest("tldr_config_set", map[string]any{"key": "panel.position"}))
	require.NoError(t, err)
	assert.Equal(t, "value is required", resultText(t, res))
}

func TestGuideTool(t *testing.T) {
	h := newHandlers(newTestContext(t, newFakeRepo(t)), nil)

	res, err := h.getGuide(context.Background(), newRequest("tldr_guide", nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "tldr-panel")

	res, err = h.getGuide(context.Background(), newRequest("tldr_guide", map[string]any{"topic": "nope"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "available_topics")
}

func TestReadPage(t *testing.T) {
	h := newHandlers(newTestContext(t, newFakeRepo(t)), nil)

	var req mcp.ReadResourceRequest
	req.Params.URI = "tldr://pages/tar"
	contents, err := h.readPage(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	tc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "text/markdown", tc.MIMEType)
	assert.Equal(t, "# tar\n\n> GNU tar.", tc.Text)
}

func TestParsePageURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
		err  error
	}{
		{"tldr://pages/tar", "tar", nil},
		{"tldr://pages/git-commit", "git-commit", nil},
		{"tldr://pages/7z%2B", "7z+", nil},
		{"tldr://pages/", "", ErrEmptyCommand},
		{"other://pages/tar", "", ErrInvalidURI},
	}

	for _, tc := range tests {
		t.Run(tc.uri, func(t *testing.T) {
			got, err := parsePageURI(tc.uri)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewServer_ExtensionTools(t *testing.T) {
	extCtx := newTestContext(t, newFakeRepo(t))
	called := false
	extra := []extension.MCPTool{{
		Tool: mcp.NewTool("test_echo", mcp.WithDescription("echo")),
		Handler: func(_ context.Context, got extension.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			called = true
			assert.Same(t, extCtx, got)
			return mcp.NewToolResultText("echoed"), nil
		},
	}}

	s := NewServer(extCtx, extra, nil)
	msg := s.HandleMessage(context.Background(), json.RawMessage(
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"test_echo","arguments":{}}}`))

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Contains(t, string(data), "echoed")
}
