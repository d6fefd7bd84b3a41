// Package ui provides the Bubble Tea TUI for Recetario.
package ui

import (
	"github.com/benjaelizalde/recetario/internal/account"
	"github.com/benjaelizalde/recetario/internal/filter"
)

// SessionRestored is sent once at startup after the persisted session (if
// any) has been verified. User is nil when no valid session was found.
type SessionRestored struct {
	User *account.User
}

// AuthDone is sent when a sign-in or registration attempt finishes.
type AuthDone struct {
	User *account.User
	Err  error
}

// SignedOut is sent when sign-out finishes. Local state is already cleared
// by then regardless of Err.
type SignedOut struct {
	Err error
}

// PasswordChanged is sent when a password change attempt finishes.
type PasswordChanged struct {
	Err error
}

// ResetSent is sent when a password reset email request finishes.
type ResetSent struct {
	Err error
}

// RecipesUpdated is sent when a search or filter fetch finishes. The list
// itself lives in the query state; the app re-reads it via its accessor.
type RecipesUpdated struct {
	Err error
}

// DetailLoaded is sent when a recipe detail fetch finishes.
type DetailLoaded struct {
	Err error
}

// VocabularyLoaded is sent when the filter sheet's suggestion sources are
// ready.
type VocabularyLoaded struct {
	Vocab filter.Vocabulary
	Err   error
}

// FavoriteToggled is sent when a favorite toggle finishes.
type FavoriteToggled struct {
	RecipeID string
	Err      error
}

// CollectionsLoaded is sent when favorites and pantry have been reloaded
// from the backend (or cleared, after sign-out).
type CollectionsLoaded struct {
	Err error
}

// PantryUpdated is sent when an ingredient add or remove finishes.
type PantryUpdated struct {
	Err error
}

// ThemeSaved is sent when a theme change has been persisted.
type ThemeSaved struct {
	Theme string
	Err   error
}

// toastExpired removes a toast after its display time.
type toastExpired struct {
	ID string
}
