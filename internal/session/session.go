// Package session tracks the current authenticated user and fans out
// auth-state changes to subscribers.
package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/benjaelizalde/recetario/internal/account"
	"github.com/benjaelizalde/recetario/internal/logging"
)

// Authenticator is the slice of the account client the manager needs.
type Authenticator interface {
	GetUser(ctx context.Context, token string) (*account.User, error)
	SignOut(ctx context.Context, token string) error
}

// persisted is the session file format.
type persisted struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Manager holds the current user. Safe for concurrent use; tea.Cmd
// goroutines read it while the update loop mutates it.
type Manager struct {
	mu    sync.RWMutex
	auth  Authenticator
	path  string
	user  *account.User
	token string

	subs    map[int]func(*account.User)
	nextSub int
}

// NewManager creates a Manager persisting its session under dataDir.
func NewManager(auth Authenticator, dataDir string) *Manager {
	return &Manager{
		auth: auth,
		path: filepath.Join(dataDir, "session.json"),
		subs: make(map[int]func(*account.User)),
	}
}

// CurrentUser returns the signed-in user, or nil.
func (m *Manager) CurrentUser() *account.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// Token returns the current access token, or "" when signed out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Subscribe registers a callback invoked on every auth-state change with the
// new user (nil on sign-out). Returns an unsubscribe func.
func (m *Manager) Subscribe(fn func(*account.User)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// notify calls every subscriber with the current user. Callers must not hold
// the lock.
func (m *Manager) notify() {
	m.mu.RLock()
	user := m.user
	fns := make([]func(*account.User), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(user)
	}
}

// Restore loads the persisted session and verifies it against the backend.
// Any failure means "no session"; there are no retries, the login screen is
// the recovery path.
func (m *Manager) Restore(ctx context.Context) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil || p.AccessToken == "" {
		return
	}

	user, err := m.auth.GetUser(ctx, p.AccessToken)
	if err != nil {
		logging.Info("stored session rejected, starting signed out", "err", err)
		os.Remove(m.path)
		return
	}

	m.mu.Lock()
	m.user = user
	m.token = p.AccessToken
	m.mu.Unlock()
	logging.Info("session restored", "user", user.ID)
	m.notify()
}

// SetSession installs a fresh session (after sign-in or registration),
// persists it and notifies subscribers.
func (m *Manager) SetSession(sess *account.Session) error {
	m.mu.Lock()
	user := sess.User
	m.user = &user
	m.token = sess.AccessToken
	m.mu.Unlock()

	data, err := json.MarshalIndent(persisted{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	}, "", "  ")
	if err == nil {
		err = os.WriteFile(m.path, data, 0600)
	}
	if err != nil {
		logging.Warn("could not persist session", "err", err)
	}

	m.notify()
	return err
}

// SignOut revokes the session remotely (best effort), clears it locally and
// notifies subscribers.
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.Lock()
	token := m.token
	m.user = nil
	m.token = ""
	m.mu.Unlock()

	os.Remove(m.path)
	if token != "" {
		if err := m.auth.SignOut(ctx, token); err != nil {
			logging.Warn("remote sign-out failed", "err", err)
		}
	}
	m.notify()
}

// Invalidate drops the session locally without a remote revoke; used when
// the backend starts rejecting the token.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	had := m.user != nil
	m.user = nil
	m.token = ""
	m.mu.Unlock()

	os.Remove(m.path)
	if had {
		logging.Info("session invalidated externally")
		m.notify()
	}
}
