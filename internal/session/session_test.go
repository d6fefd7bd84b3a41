package session

import (
	"context"
	"errors"
	"testing"

	"github.com/benjaelizalde/recetario/internal/account"
)

type fakeAuth struct {
	user       *account.User
	getUserErr error
	signOuts   int
}

func (f *fakeAuth) GetUser(ctx context.Context, token string) (*account.User, error) {
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	return f.user, nil
}

func (f *fakeAuth) SignOut(ctx context.Context, token string) error {
	f.signOuts++
	return nil
}

func TestSetSessionNotifiesSubscribers(t *testing.T) {
	m := NewManager(&fakeAuth{}, t.TempDir())

	var got []*account.User
	m.Subscribe(func(u *account.User) { got = append(got, u) })

	sess := &account.Session{AccessToken: "tok", User: account.User{ID: "u1", Email: "a@b.c"}}
	if err := m.SetSession(sess); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	if len(got) != 1 || got[0] == nil || got[0].ID != "u1" {
		t.Fatalf("expected one notification with user u1, got %v", got)
	}
	if m.CurrentUser() == nil || m.Token() != "tok" {
		t.Error("session not installed")
	}
}

func TestSignOutNotifiesWithNil(t *testing.T) {
	auth := &fakeAuth{}
	m := NewManager(auth, t.TempDir())
	m.SetSession(&account.Session{AccessToken: "tok", User: account.User{ID: "u1"}})

	var got []*account.User
	m.Subscribe(func(u *account.User) { got = append(got, u) })

	m.SignOut(context.Background())

	if len(got) != 1 || got[0] != nil {
		t.Fatalf("expected one nil notification, got %v", got)
	}
	if m.CurrentUser() != nil || m.Token() != "" {
		t.Error("session not cleared")
	}
	if auth.signOuts != 1 {
		t.Errorf("expected 1 remote sign-out, got %d", auth.signOuts)
	}
}

func TestInvalidateDropsSessionLocally(t *testing.T) {
	auth := &fakeAuth{}
	m := NewManager(auth, t.TempDir())
	m.SetSession(&account.Session{AccessToken: "tok", User: account.User{ID: "u1"}})

	var got []*account.User
	m.Subscribe(func(u *account.User) { got = append(got, u) })

	m.Invalidate()

	if len(got) != 1 || got[0] != nil {
		t.Fatalf("expected one nil notification, got %v", got)
	}
	if m.CurrentUser() != nil || m.Token() != "" {
		t.Error("session not cleared")
	}
	// The token was already rejected, so no remote revoke is attempted.
	if auth.signOuts != 0 {
		t.Errorf("expected no remote sign-out, got %d", auth.signOuts)
	}

	// Invalidating twice is a no-op and doesn't re-notify.
	m.Invalidate()
	if len(got) != 1 {
		t.Errorf("expected no second notification, got %d", len(got))
	}
}

func TestUnsubscribe(t *testing.T) {
	m := NewManager(&fakeAuth{}, t.TempDir())

	calls := 0
	unsub := m.Subscribe(func(u *account.User) { calls++ })
	m.SetSession(&account.Session{AccessToken: "t", User: account.User{ID: "u1"}})
	unsub()
	m.SignOut(context.Background())

	if calls != 1 {
		t.Errorf("expected 1 call after unsubscribe, got %d", calls)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	auth := &fakeAuth{user: &account.User{ID: "u1", Email: "a@b.c"}}

	first := NewManager(auth, dir)
	first.SetSession(&account.Session{AccessToken: "tok", User: account.User{ID: "u1"}})

	second := NewManager(auth, dir)
	notified := false
	second.Subscribe(func(u *account.User) { notified = u != nil })
	second.Restore(context.Background())

	if second.CurrentUser() == nil || second.CurrentUser().ID != "u1" {
		t.Fatal("expected restored user")
	}
	if !notified {
		t.Error("expected subscriber notification on restore")
	}
}

func TestRestoreRejectedTokenMeansSignedOut(t *testing.T) {
	dir := t.TempDir()
	auth := &fakeAuth{user: &account.User{ID: "u1"}}

	first := NewManager(auth, dir)
	first.SetSession(&account.Session{AccessToken: "tok", User: account.User{ID: "u1"}})

	auth.getUserErr = errors.New("401")
	second := NewManager(auth, dir)
	second.Restore(context.Background())

	if second.CurrentUser() != nil {
		t.Error("expected signed-out state when the backend rejects the token")
	}

	// The stored file is gone, so the next restore doesn't even hit the backend.
	auth.getUserErr = nil
	third := NewManager(auth, dir)
	third.Restore(context.Background())
	if third.CurrentUser() != nil {
		t.Error("expected rejected session file to be removed")
	}
}

func TestRestoreNoFile(t *testing.T) {
	m := NewManager(&fakeAuth{}, t.TempDir())
	m.Restore(context.Background())
	if m.CurrentUser() != nil {
		t.Error("expected nil user with no session file")
	}
}
