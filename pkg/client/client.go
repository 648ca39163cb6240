// Package client calls the DevConnector HTTP API. Every failure, and every
// confirmed change, is reported to the user through an alert.Queue.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/devconnector-api/pkg/alert"
)

const DefaultAuthHeader = "x-auth-token"

// APIError is a non-2xx response. Msgs holds every message the server sent.
type APIError struct {
	Status int
	Msgs   []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Status, strings.Join(e.Msgs, "; "))
}

type Client struct {
	baseURL    string
	authHeader string
	http       *http.Client
	alerts     *alert.Queue

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }
func WithAuthHeader(name string) Option   { return func(c *Client) { c.authHeader = name } }

func New(baseURL string, alerts *alert.Queue, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authHeader: DefaultAuthHeader,
		http:       &http.Client{Timeout: 10 * time.Second},
		alerts:     alerts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(tok string) {
	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set(c.authHeader, tok)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.fail(err)
		return err
	}
	defer func() { _ = res.Body.Close() }()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		c.fail(err)
		return err
	}

	if res.StatusCode >= 400 {
		apiErr := &APIError{Status: res.StatusCode, Msgs: decodeMessages(raw)}
		for _, m := range apiErr.Msgs {
			c.push(m, alert.Danger)
		}
		return apiErr
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			c.fail(err)
			return err
		}
	}
	return nil
}

// decodeMessages reads {"errors":[{"msg"}]}, {"msg"} or a plain-text body.
func decodeMessages(raw []byte) []string {
	var list struct {
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &list); err == nil {
		var out []string
		for _, e := range list.Errors {
			out = append(out, e.Msg)
		}
		if list.Msg != "" {
			out = append(out, list.Msg)
		}
		if len(out) > 0 {
			return out
		}
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return []string{s}
	}
	return []string{"Request failed"}
}

func (c *Client) push(msg string, sev alert.Severity) {
	if c.alerts != nil {
		c.alerts.Push(msg, sev)
	}
}

func (c *Client) fail(err error) { c.push(err.Error(), alert.Danger) }

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates an account and keeps the returned token.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	var out tokenResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/users", body, &out); err != nil {
		return err
	}
	c.SetToken(out.Token)
	return nil
}

// Login authenticates and keeps the returned token.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out tokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth", body, &out); err != nil {
		return err
	}
	c.SetToken(out.Token)
	return nil
}

func (c *Client) Logout() { c.SetToken("") }

func (c *Client) LoadUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/auth", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) CurrentProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Profiles(ctx context.Context) ([]Profile, error) {
	var ps []Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func (c *Client) ProfileByUser(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile/user/"+url.PathEscape(userID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GitHubRepos(ctx context.Context, username string) ([]map[string]any, error) {
	var repos []map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/profile/github/"+url.PathEscape(username), nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// SaveProfile creates or updates the caller's profile.
func (c *Client) SaveProfile(ctx context.Context, form ProfileForm, edit bool) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodPost, "/api/profile", form, &p); err != nil {
		return nil, err
	}
	if edit {
		c.push("Profile Updated", alert.Success)
	} else {
		c.push("Profile Created", alert.Success)
	}
	return &p, nil
}

func (c *Client) AddExperience(ctx context.Context, e Experience) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodPut, "/api/profile/experience", e, &p); err != nil {
		return nil, err
	}
	c.push("Experience Added", alert.Success)
	return &p, nil
}

func (c *Client) DeleteExperience(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodDelete, "/api/profile/experience/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	c.push("Experience Removed", alert.Success)
	return &p, nil
}

func (c *Client) AddEducation(ctx context.Context, e Education) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodPut, "/api/profile/education", e, &p); err != nil {
		return nil, err
	}
	c.push("Education Added", alert.Success)
	return &p, nil
}

func (c *Client) DeleteEducation(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodDelete, "/api/profile/education/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	c.push("Education Removed", alert.Success)
	return &p, nil
}

// DeleteAccount removes the caller's posts, profile and account and forgets
// the token.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/api/profile", nil, nil); err != nil {
		return err
	}
	c.Logout()
	c.push("Your account has been permanently deleted", alert.Success)
	return nil
}

func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	var ps []Post
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func (c *Client) Post(ctx context.Context, id string) (*Post, error) {
	var p Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) AddPost(ctx context.Context, text string) (*Post, error) {
	var p Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", map[string]string{"text": text}, &p); err != nil {
		return nil, err
	}
	c.push("Post Created", alert.Success)
	return &p, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	c.push("Post Removed", alert.Success)
	return nil
}

func (c *Client) Like(ctx context.Context, postID string) ([]Like, error) {
	var likes []Like
	if err := c.do(ctx, http.MethodPut, "/api/posts/like/"+url.PathEscape(postID), nil, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (c *Client) Unlike(ctx context.Context, postID string) ([]Like, error) {
	var likes []Like
	if err := c.do(ctx, http.MethodPut, "/api/posts/unlike/"+url.PathEscape(postID), nil, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (c *Client) AddComment(ctx context.Context, postID, text string) ([]Comment, error) {
	var cs []Comment
	if err := c.do(ctx, http.MethodPost, "/api/posts/comment/"+url.PathEscape(postID), map[string]string{"text": text}, &cs); err != nil {
		return nil, err
	}
	c.push("Comment Added", alert.Success)
	return cs, nil
}

func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) ([]Comment, error) {
	var cs []Comment
	path := "/api/posts/comment/" + url.PathEscape(postID) + "/" + url.PathEscape(commentID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &cs); err != nil {
		return nil, err
	}
	c.push("Comment Removed", alert.Success)
	return cs, nil
}
