package account

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/benjaelizalde/recetario/internal/logging"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new user. Depending on project settings GoTrue may or
// may not return a session; callers should follow up with
// SignInWithPassword either way.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", credentials{email, password}, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, mapAuthError(status, body)
	}

	var sess Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return nil, fmt.Errorf("decode signup response: %w", err)
	}
	if sess.User.ID == "" {
		// Some responses nest the user at the top level instead.
		var user User
		if err := json.Unmarshal(body, &user); err == nil {
			sess.User = user
		}
	}
	logging.Info("user signed up", "user", sess.User.ID)
	return &sess, nil
}

// SignInWithPassword exchanges email+password for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", credentials{email, password}, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, mapAuthError(status, body)
	}

	var sess Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	logging.Info("user signed in", "user", sess.User.ID)
	return &sess, nil
}

// SignOut revokes the session server-side. A failed revoke is logged and
// ignored; the local session is discarded regardless.
func (c *Client) SignOut(ctx context.Context, token string) error {
	status, body, err := c.do(ctx, http.MethodPost, "/auth/v1/logout", token, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent && status != http.StatusOK {
		return mapAuthError(status, body)
	}
	return nil
}

// GetUser fetches the identity behind a token. Used to validate a restored
// session; any failure means "no session".
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/auth/v1/user", token, nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, mapAuthError(status, body)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}
	return &user, nil
}

// UpdatePassword sets a new password for the authenticated user.
func (c *Client) UpdatePassword(ctx context.Context, token, newPassword string) error {
	status, body, err := c.do(ctx, http.MethodPut, "/auth/v1/user", token, map[string]string{"password": newPassword}, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return mapAuthError(status, body)
	}
	logging.Info("password updated")
	return nil
}

// ResetPasswordForEmail asks GoTrue to send a recovery email.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email string) error {
	status, body, err := c.do(ctx, http.MethodPost, "/auth/v1/recover", "", map[string]string{"email": email}, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return mapAuthError(status, body)
	}
	return nil
}
