// Package github lists a user's public repositories.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oksasatya/devconnector-api/internal/domain/repository"
)

// Client talks to the GitHub REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// ListRepos returns the user's five oldest-created public repositories.
func (c *Client) ListRepos(ctx context.Context, username string) ([]map[string]any, error) {
	if username == "" {
		return nil, repository.ErrNotFound
	}
	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created")
	q.Set("direction", "asc")
	u := c.baseURL + "/users/" + url.PathEscape(username) + "/repos?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "devconnector-api")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github repos %s: %w", username, err)
	}
	defer func() { _ = res.Body.Close() }()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, repository.ErrNotFound
	case res.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("github repos %s: status %d", username, res.StatusCode)
	}

	var repos []map[string]any
	if err := json.NewDecoder(res.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("github repos %s: %w", username, err)
	}
	return repos, nil
}

var _ repository.RepoLister = (*Client)(nil)
