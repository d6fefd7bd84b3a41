// Package account is a client for the hosted account backend (a Supabase
// project): GoTrue authentication plus PostgREST row operations on the four
// per-user tables.
package account

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/benjaelizalde/recetario/internal/logging"
)

// Sentinel errors the UI maps to inline field messages.
// Anything else is surfaced as a generic transient notification.
var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailInUse         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrSamePassword       = errors.New("new password must differ from the old one")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrSessionExpired     = errors.New("session expired")
	ErrNotFound           = errors.New("not found")
)

// User is the authenticated identity.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is what GoTrue hands back on signup / password grant.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

// Client talks to one Supabase project.
type Client struct {
	baseURL string
	anonKey string
	client  *http.Client
}

// NewClient creates a Client for the project at baseURL (no trailing slash)
// using the project's anon key.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

// Available reports whether the client has been configured.
func (c *Client) Available() bool {
	return c.baseURL != "" && c.anonKey != ""
}

// authError is the GoTrue error envelope. Older and newer deployments use
// different field names, so all three are checked.
type authError struct {
	Message     string `json:"msg"`
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func (e authError) text() string {
	for _, s := range []string{e.Message, e.Description, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// mapAuthError turns known backend messages and statuses into sentinel errors.
func mapAuthError(status int, body []byte) error {
	var envelope authError
	_ = json.Unmarshal(body, &envelope)
	msg := envelope.text()

	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "invalid login credentials"):
		return ErrInvalidCredentials
	case strings.Contains(lower, "already registered"):
		return ErrEmailInUse
	case strings.Contains(lower, "invalid format") || strings.Contains(lower, "invalid email"):
		return ErrInvalidEmail
	case strings.Contains(lower, "should be different"):
		return ErrSamePassword
	}
	// An unauthorized status that isn't a credentials message means the
	// bearer token itself was rejected (expired or revoked JWT).
	if status == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Errorf("account backend error (status %d): %s", status, msg)
}

// do issues a request with the project headers set. token may be empty, in
// which case the anon key doubles as the bearer (pre-login profile lookups
// rely on this).
func (c *Client) do(ctx context.Context, method, path, token string, body any, headers map[string]string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("account request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		logging.Debug("account backend error", "method", method, "path", path, "status", resp.StatusCode)
	}
	return resp.StatusCode, respBody, nil
}
