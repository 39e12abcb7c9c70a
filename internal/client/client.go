// Package client is the Go client for the hackmate HTTP API, used by the
// CLI chat session. One fixed base URL, one fixed timeout, no retries and
// no caching; every failed call is logged once and returned to the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/akontos/hackmate/internal/api"
	"github.com/akontos/hackmate/internal/util"
	"github.com/pkg/errors"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client for the server at baseURL. httpClient carries the
// fixed request timeout; pass nil for http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	util.Assert(baseURL != "", "client.New empty baseURL")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// do runs one JSON round trip. Transport errors, non-2xx statuses and
// malformed bodies are logged here and returned unchanged; callers decide
// how to surface them.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("api request failed", "method", method, "path", path, "error", err)
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Error("api request failed", "method", method, "path", path, "status", resp.StatusCode)
		return errors.Errorf("%s %s: %s: %s", method, path, resp.Status, snippet)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Error("api response decode failed", "method", method, "path", path, "error", err)
		return errors.Wrapf(err, "decode %s response", path)
	}
	return nil
}

// SendMessage runs one chat turn.
func (c *Client) SendMessage(ctx context.Context, req api.ChatRequest) (api.ChatResponse, error) {
	var resp api.ChatResponse
	err := c.do(ctx, http.MethodPost, api.ChatPath, req, &resp)
	return resp, err
}

// ValidateIdea checks an idea against the indexed projects.
func (c *Client) ValidateIdea(ctx context.Context, idea, repoURL string) (api.ChatResponse, error) {
	var resp api.ChatResponse
	err := c.do(ctx, http.MethodPost, api.ValidateIdeaPath, api.ChatRequest{Message: idea, RepoURL: repoURL}, &resp)
	return resp, err
}

// ProgressReport asks for a narrated progress summary of a repository.
func (c *Client) ProgressReport(ctx context.Context, repoURL string) (api.ChatResponse, error) {
	var resp api.ChatResponse
	err := c.do(ctx, http.MethodPost, api.ProgressReportPath, api.RepoRequest{RepoURL: repoURL}, &resp)
	return resp, err
}

// Search runs a query across the indexes.
func (c *Client) Search(ctx context.Context, req api.SearchRequest) (api.SearchResponse, error) {
	var resp api.SearchResponse
	err := c.do(ctx, http.MethodPost, api.SearchPath, req, &resp)
	return resp, err
}

// Suggest fetches up to limit query completions for a partial query. A
// non-positive limit leaves the server default.
func (c *Client) Suggest(ctx context.Context, query string, limit int) (api.SuggestionsResponse, error) {
	var resp api.SuggestionsResponse
	path := api.SuggestionsPath + "?q=" + url.QueryEscape(query)
	if limit > 0 {
		path += "&limit=" + strconv.Itoa(limit)
	}
	err := c.do(ctx, http.MethodGet, path, nil, &resp)
	return resp, err
}

// AnalyzeRepo requests the structured progress analysis.
func (c *Client) AnalyzeRepo(ctx context.Context, repoURL string) (api.ProgressReport, error) {
	var resp api.ProgressReport
	err := c.do(ctx, http.MethodPost, api.AnalyzePath, api.RepoRequest{RepoURL: repoURL}, &resp)
	return resp, err
}

// RepoActivity lists recent commits and issues.
func (c *Client) RepoActivity(ctx context.Context, owner, repo string, days int) (api.ActivityResponse, error) {
	var resp api.ActivityResponse
	path := fmt.Sprintf("%s/%s/%s", api.ActivityPath, url.PathEscape(owner), url.PathEscape(repo))
	if days > 0 {
		path += "?days=" + strconv.Itoa(days)
	}
	err := c.do(ctx, http.MethodGet, path, nil, &resp)
	return resp, err
}

// RepoStats fetches repository statistics.
func (c *Client) RepoStats(ctx context.Context, owner, repo string) (api.RepoStats, error) {
	var resp api.RepoStats
	path := fmt.Sprintf("%s/%s/%s", api.StatsPath, url.PathEscape(owner), url.PathEscape(repo))
	err := c.do(ctx, http.MethodGet, path, nil, &resp)
	return resp, err
}

// GeneratePitch asks for a pitch deck outline for a repository.
func (c *Client) GeneratePitch(ctx context.Context, repoURL string) (api.Document, error) {
	var resp api.Document
	err := c.do(ctx, http.MethodPost, api.PitchPath, api.RepoRequest{RepoURL: repoURL}, &resp)
	return resp, err
}

// GenerateReadme asks for a README draft for a repository.
func (c *Client) GenerateReadme(ctx context.Context, repoURL string) (api.Document, error) {
	var resp api.Document
	err := c.do(ctx, http.MethodPost, api.ReadmePath, api.RepoRequest{RepoURL: repoURL}, &resp)
	return resp, err
}

// Health fetches the aggregate health report.
func (c *Client) Health(ctx context.Context) (api.HealthResponse, error) {
	var resp api.HealthResponse
	err := c.do(ctx, http.MethodGet, api.HealthPath, nil, &resp)
	return resp, err
}
