// The cmd/ package holds CLI integration tests that exercise the full
// stack: command parsing -> extensions -> page client -> SQLite state
// store, against a fake tldr-pages repository served by httptest.

package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jpl-au/tldr-panel/internal/remote"
	"github.com/stretchr/testify/assert"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the tldr-panel binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "tldr-panel-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "tldr-panel"
		if os.PathSeparator == '\\' {
			binaryName = "tldr-panel.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Project root is the parent of cmd/
		projectRoot := filepath.Dir(mustGetwd())

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// fakeRepo is a tldr-pages repository: a git-trees listing and raw pages.
type fakeRepo struct {
	srv        *httptest.Server
	mu         sync.Mutex
	paths      []string
	pages      map[string]string
	treeStatus int
	treeHits   atomic.Int32
}

func newFakeRepo(t *testing.T) *fakeRepo {
	t.Helper()
	r := &fakeRepo{
		paths: []string{
			"pages/common/tar.md",
			"pages/linux/tar.md",
			"pages.de/common/tar.md",
			"pages/common/git.md",
			"pages/common/git-commit.md",
			"pages/windows/dir.md",
			"pages.pt_BR/common/git.md",
			"CONTRIBUTING.md",
		},
		pages: map[string]string{
			"pages/common/tar.md":        "# tar\n\n> Archiving utility.\n",
			"pages/linux/tar.md":         "# tar\n\n> GNU archiving utility.\n",
			"pages.de/common/tar.md":     "# tar\n\n> Archivierungswerkzeug.\n",
			"pages/common/git.md":        "# git\n\n> Distributed version control system.\n",
			"pages/common/git-commit.md": "# git commit\n\n> Commit files to the repository.\n",
			"pages/windows/dir.md":       "# dir\n\n> List directory contents.\n",
		},
		treeStatus: http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/tree", func(w http.ResponseWriter, _ *http.Request) {
		r.treeHits.Add(1)
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
		r.mu.Lock()
		body, ok := r.pages[strings.TrimPrefix(req.URL.Path, "/raw/")]
		r.mu.Unlock()
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

func (r *fakeRepo) setTreeStatus(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.treeStatus = code
}

func (r *fakeRepo) setPaths(paths ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = paths
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string // working directory
	home   string
	state  string
	binary string
	repo   *fakeRepo
}

// newTestEnv creates an isolated home, state directory and fake repository.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		t:      t,
		dir:    t.TempDir(),
		home:   t.TempDir(),
		binary: buildBinary(t),
		repo:   newFakeRepo(t),
	}
	env.state = filepath.Join(env.home, "state")
	return env
}

func (e *testEnv) command(args ...string) *exec.Cmd {
	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(),
		"HOME="+e.home,
		"USERPROFILE="+e.home,
		EnvDir+"="+e.state,
		EnvTreeURL+"="+e.repo.srv.URL+"/tree",
		EnvRawURL+"="+e.repo.srv.URL+"/raw",
	)
	return cmd
}

// run executes tldr-panel with the given args and returns combined output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("tldr-panel %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes tldr-panel and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()
	out, err := e.command(args...).CombinedOutput()
	return string(out), err
}

// runStdout executes tldr-panel and returns stdout only.
func (e *testEnv) runStdout(args ...string) string {
	e.t.Helper()
	out, err := e.command(args...).Output()
	if err != nil {
		e.t.Fatalf("tldr-panel %v failed: %v\noutput: %s", args, err, out)
	}
	return string(out)
}

// runStdin executes tldr-panel with stdin input.
func (e *testEnv) runStdin(input string, args ...string) string {
	e.t.Helper()
	cmd := e.command(args...)
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("tldr-panel %v failed: %v\noutput: %s", args, err, out)
	}
	return string(out)
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// noState checks that no state store has been created.
func (e *testEnv) noState() {
	e.t.Helper()
	_, err := os.Stat(filepath.Join(e.state, StateFile))
	assert.True(e.t, os.IsNotExist(err), "state store should not exist")
}

// equals checks if output equals expected string (trimmed).
func (e *testEnv) equals(output, expected string) {
	e.t.Helper()
	assert.Equal(e.t, strings.TrimSpace(expected), strings.TrimSpace(output))
}
