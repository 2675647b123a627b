// Package client talks to a running lucifer server over HTTP.
package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"go.trai.ch/lucifer/internal/core/domain"
	"go.trai.ch/zerr"
)

const acceptHeader = "application/json, application/problem+json;q=0.8, */*;q=0.3"

// Client sends invalidation and test-run requests to a lucifer server.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the server at baseURL. An empty baseURL selects
// domain.DefaultServerURL.
func New(baseURL, version string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = domain.DefaultServerURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  domain.ClientAgentPrefix + version,
		httpClient: &http.Client{Timeout: domain.ClientTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunOptions selects what a test run executes.
type RunOptions struct {
	Files []string `json:"files"`
	Bail  bool     `json:"bail"`
	Grep  string   `json:"grep,omitempty"`
}

// Queued is the server's answer to an accepted test run.
type Queued struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

type problem struct {
	Title string `json:"title"`
}

type message struct {
	Message string `json:"message"`
}

// Invalidate asks the server to reload files and returns its message.
func (c *Client) Invalidate(ctx context.Context, files []string) (string, error) {
	var out message
	if err := c.post(ctx, "/v1/cache/invalidate", map[string][]string{"files": nonNil(files)}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// StartRun dispatches a test run and returns once the server has queued it.
func (c *Client) StartRun(ctx context.Context, opts RunOptions) (Queued, error) {
	opts.Files = nonNil(opts.Files)
	var out Queued
	if err := c.post(ctx, "/v1/test_runs", opts, &out); err != nil {
		return Queued{}, err
	}
	return out, nil
}

// Run fetches a run record by id. The id "latest" selects the newest run.
func (c *Client) Run(ctx context.Context, id string) (domain.RunRecord, error) {
	var out domain.RunRecord
	if err := c.do(ctx, http.MethodGet, "/v1/test_runs/"+id, nil, &out); err != nil {
		return domain.RunRecord{}, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return zerr.Wrap(err, domain.ErrClientRequestFailed.Error())
	}
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return zerr.Wrap(err, domain.ErrClientRequestFailed.Error())
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", acceptHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrClientRequestFailed.Error()), "url", req.URL.String())
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zerr.Wrap(err, domain.ErrClientResponseInvalid.Error())
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return zerr.With(zerr.Wrap(zerr.New(reason(raw)), domain.ErrClientRejected.Error()), "status_code", resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return zerr.Wrap(err, domain.ErrClientResponseInvalid.Error())
	}
	return nil
}

// reason extracts the problem title from raw, falling back to the body text.
func reason(raw []byte) string {
	var p problem
	if err := json.Unmarshal(raw, &p); err == nil && p.Title != "" {
		return p.Title
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return "empty response"
}

func nonNil(files []string) []string {
	if files == nil {
		return []string{}
	}
	return files
}
