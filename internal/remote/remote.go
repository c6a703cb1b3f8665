// Package remote is the network boundary: fetch a URL, get a status code and
// a body back. It also models the GitHub git-trees listing the cache is
// built from.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// UserAgent is sent with every request. GitHub's API rejects requests
// without one.
const UserAgent = "tldr-panel"

// Response is the outcome of a completed HTTP exchange. Non-2xx statuses are
// not errors at this layer; callers decide how to surface them.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Fetcher retrieves a URL. Implementations return an error only when no
// response was obtained (DNS, connection, read failures).
type Fetcher interface {
	Get(ctx context.Context, url string) (*Response, error)
}

// HTTP fetches over net/http. The zero value uses http.DefaultClient, which
// has no timeout, and sends UserAgent.
type HTTP struct {
	Client    *http.Client
	UserAgent string
}

var _ Fetcher = (*HTTP)(nil)

// Get issues a GET request and reads the whole body.
func (h *HTTP) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	ua := h.UserAgent
	if ua == "" {
		ua = UserAgent
	}
	req.Header.Set("User-Agent", ua)

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// TreeItem is one entry of a git-trees listing.
type TreeItem struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
	Type string `json:"type"`
	SHA  string `json:"sha,omitempty"`
	Size int64  `json:"size,omitempty"`
	URL  string `json:"url,omitempty"`
}

// ItemBlob is the type of file entries; directories are "tree".
const ItemBlob = "blob"

// TreeResponse is the body of GET /repos/{owner}/{repo}/git/trees/{sha}.
type TreeResponse struct {
	SHA       string     `json:"sha"`
	URL       string     `json:"url"`
	Tree      []TreeItem `json:"tree"`
	Truncated bool       `json:"truncated,omitempty"`
}

// DecodeTree parses a git-trees response body.
func DecodeTree(body []byte) (*TreeResponse, error) {
	var tr TreeResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return &tr, nil
}
