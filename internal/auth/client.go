package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Client is the HTTP implementation of Authenticator. The token is guarded
// by a mutex because gateway calls read it from arbitrary goroutines.
type Client struct {
	base   *url.URL
	client *http.Client
	logger *slog.Logger

	mu    sync.Mutex
	token string
	user  *User
}

// NewClient creates an Authenticator against the identity endpoints rooted
// at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	return &Client{
		base:   base,
		client: &http.Client{Timeout: timeout},
		logger: logger.With("system", "auth"),
	}, nil
}

type sessionPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}

	var payload sessionPayload
	status, err := c.post(ctx, "/api/auth/login", body, &payload, "")
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("login failed: status %d", status)
	}

	c.mu.Lock()
	c.token = payload.Token
	c.user = &payload.User
	c.mu.Unlock()

	c.logger.Info("logged in", "user", payload.User.Email)
	return &payload.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	token := c.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	if _, err := c.post(ctx, "/api/auth/logout", nil, nil, token); err != nil {
		return err
	}

	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.mu.Unlock()

	c.logger.Info("logged out")
	return nil
}

func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	c.mu.Lock()
	cached := c.user
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	token := c.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	var user User
	status, err := c.get(ctx, "/api/auth/me", &user, token)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, ErrNotAuthenticated
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("current user failed: status %d", status)
	}

	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()
	return &user, nil
}

func (c *Client) Refresh(ctx context.Context) error {
	token := c.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	var payload sessionPayload
	status, err := c.post(ctx, "/api/auth/refresh", nil, &payload, token)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		return ErrNotAuthenticated
	}
	if status != http.StatusOK {
		return fmt.Errorf("refresh failed: status %d", status)
	}

	c.mu.Lock()
	c.token = payload.Token
	c.mu.Unlock()
	return nil
}

func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) post(ctx context.Context, path string, body any, out any, token string) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.execute(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any, token string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.execute(req, out)
}

func (c *Client) execute(req *http.Request, out any) (int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return c.base.String() + path
	}
	return c.base.ResolveReference(ref).String()
}
