// Package github talks to the GitHub REST API for repository activity,
// statistics, and progress analysis, and verifies incoming webhooks.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const defaultBaseURL = "https://api.github.com"

// Client is a minimal GitHub REST client. An empty token works for public
// repositories at a reduced rate limit.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(token string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		token:      token,
	}
}

// WithBaseURL points the client at a different API host, for tests and
// GitHub Enterprise.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "GET %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Errorf("GET %s: %s: %s", path, resp.Status, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s response", path)
	}
	return nil
}

// Healthy reports whether the API is reachable with the configured token.
func (c *Client) Healthy(ctx context.Context) bool {
	if c.token == "" {
		return false
	}
	var user struct {
		Login string `json:"login"`
	}
	if err := c.get(ctx, "/user", nil, &user); err != nil {
		return false
	}
	return user.Login != ""
}

type repoInfo struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	OpenIssuesCount int    `json:"open_issues_count"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	DefaultBranch   string `json:"default_branch"`
}

type commitInfo struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message string `json:"message"`
		Author  struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	Files []struct {
		Filename string `json:"filename"`
	} `json:"files"`
}

type issueInfo struct {
	Title     string `json:"title"`
	State     string `json:"state"`
	HTMLURL   string `json:"html_url"`
	CreatedAt string `json:"created_at"`
	User      struct {
		Login string `json:"login"`
	} `json:"user"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
}

type contributorInfo struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
	AvatarURL     string `json:"avatar_url"`
}

type releaseInfo struct {
	Name        string `json:"name"`
	TagName     string `json:"tag_name"`
	PublishedAt string `json:"published_at"`
	HTMLURL     string `json:"html_url"`
}

func (c *Client) repo(ctx context.Context, owner, name string) (repoInfo, error) {
	var info repoInfo
	err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", owner, name), nil, &info)
	return info, err
}

func (c *Client) commits(ctx context.Context, owner, name string, since time.Time) ([]commitInfo, error) {
	query := url.Values{}
	query.Set("since", since.UTC().Format(time.RFC3339))
	query.Set("per_page", "100")

	var commits []commitInfo
	err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/commits", owner, name), query, &commits)
	return commits, err
}

// commitDetail fetches one commit with its file list, which the list
// endpoint omits.
func (c *Client) commitDetail(ctx context.Context, owner, name, sha string) (commitInfo, error) {
	var commit commitInfo
	err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/commits/%s", owner, name, sha), nil, &commit)
	return commit, err
}

func (c *Client) issues(ctx context.Context, owner, name string, since time.Time) ([]issueInfo, error) {
	query := url.Values{}
	query.Set("state", "all")
	query.Set("since", since.UTC().Format(time.RFC3339))

	var issues []issueInfo
	err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/issues", owner, name), query, &issues)
	return issues, err
}

func (c *Client) languages(ctx context.Context, owner, name string) (map[string]int, error) {
	langs := make(map[string]int)
	err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/languages", owner, name), nil, &langs)
	return langs, err
}

func (c *Client) contributors(ctx context.Context, owner, name string) ([]contributorInfo, error) {
	var contributors []contributorInfo
	err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/contributors", owner, name), nil, &contributors)
	return contributors, err
}

func (c *Client) releases(ctx context.Context, owner, name string) ([]releaseInfo, error) {
	var releases []releaseInfo
	err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/releases", owner, name), nil, &releases)
	return releases, err
}
