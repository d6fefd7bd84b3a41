// Package collection keeps a local mirror of the signed-in user's favorites
// and pantry, synchronized with the account backend.
//
// Every mutation awaits the remote write before committing locally: callers
// never observe a favorite or ingredient that was not durably persisted at
// that moment. A failed remote call leaves the mirror exactly as it was.
package collection

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/benjaelizalde/recetario/internal/account"
	"github.com/benjaelizalde/recetario/internal/catalog"
	"github.com/benjaelizalde/recetario/internal/logging"
)

// ErrEmptyName is returned when an ingredient name is blank after trimming.
var ErrEmptyName = errors.New("ingredient name is required")

// Store is the slice of the account client the mirror writes through.
type Store interface {
	Favorites(ctx context.Context, token, userID string) ([]account.FavoriteRow, error)
	UpsertFavorite(ctx context.Context, token string, row account.FavoriteRow) error
	DeleteFavorite(ctx context.Context, token, userID, recipeID string) error
	Ingredients(ctx context.Context, token, userID string) ([]account.IngredientRow, error)
	UpsertIngredient(ctx context.Context, token string, row account.IngredientRow) error
	DeleteIngredient(ctx context.Context, token, userID, name string) error
}

// Session is the slice of the session manager the mirror reads.
type Session interface {
	CurrentUser() *account.User
	Token() string
}

// Entry is one pantry row.
type Entry struct {
	Name     string
	Quantity string
}

// State is the mirror. Safe for concurrent use: tea.Cmd goroutines mutate it
// while the render loop reads it.
type State struct {
	mu      sync.RWMutex
	store   Store
	session Session

	favorites map[string]catalog.Recipe
	favOrder  []string // insertion order, for stable rendering

	ingredients []Entry
}

// NewState creates an empty mirror.
func NewState(store Store, session Session) *State {
	return &State{
		store:     store,
		session:   session,
		favorites: make(map[string]catalog.Recipe),
	}
}

// LoadFavorites replaces the local favorites set from the backend. With no
// current user it clears the set locally and issues no remote call at all;
// the rows stay on the server for the next sign-in.
func (s *State) LoadFavorites(ctx context.Context) error {
	user := s.session.CurrentUser()
	if user == nil {
		s.mu.Lock()
		s.favorites = make(map[string]catalog.Recipe)
		s.favOrder = nil
		s.mu.Unlock()
		return nil
	}

	rows, err := s.store.Favorites(ctx, s.session.Token(), user.ID)
	if err != nil {
		return err
	}

	favorites := make(map[string]catalog.Recipe, len(rows))
	order := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, dup := favorites[row.RecipeID]; dup {
			continue
		}
		favorites[row.RecipeID] = row.Recipe
		order = append(order, row.RecipeID)
	}

	s.mu.Lock()
	s.favorites = favorites
	s.favOrder = order
	s.mu.Unlock()
	logging.Debug("favorites loaded", "count", len(order))
	return nil
}

// ToggleFavorite flips membership for a recipe. No-op when signed out.
// The remote write happens first; only on success is the mirror touched.
func (s *State) ToggleFavorite(ctx context.Context, recipe catalog.Recipe) error {
	user := s.session.CurrentUser()
	if user == nil {
		return nil
	}
	token := s.session.Token()

	if s.IsFavorite(recipe.ID) {
		if err := s.store.DeleteFavorite(ctx, token, user.ID, recipe.ID); err != nil {
			return err
		}
		s.mu.Lock()
		delete(s.favorites, recipe.ID)
		for i, id := range s.favOrder {
			if id == recipe.ID {
				s.favOrder = append(s.favOrder[:i], s.favOrder[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		return nil
	}

	row := account.FavoriteRow{UserID: user.ID, RecipeID: recipe.ID, Recipe: recipe}
	if err := s.store.UpsertFavorite(ctx, token, row); err != nil {
		return err
	}
	s.mu.Lock()
	s.favorites[recipe.ID] = recipe
	s.favOrder = append(s.favOrder, recipe.ID)
	s.mu.Unlock()
	return nil
}

// IsFavorite is an O(1) membership test against the mirror; it never
// consults the backend (it runs per row while rendering lists).
func (s *State) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.favorites[id]
	return ok
}

// FavoritesList returns the favorites in insertion order.
func (s *State) FavoritesList() []catalog.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Recipe, 0, len(s.favOrder))
	for _, id := range s.favOrder {
		out = append(out, s.favorites[id])
	}
	return out
}

// LoadIngredients replaces the local pantry from the backend, or clears it
// when signed out.
func (s *State) LoadIngredients(ctx context.Context) error {
	user := s.session.CurrentUser()
	if user == nil {
		s.mu.Lock()
		s.ingredients = nil
		s.mu.Unlock()
		return nil
	}

	rows, err := s.store.Ingredients(ctx, s.session.Token(), user.ID)
	if err != nil {
		return err
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, Entry{Name: row.Name, Quantity: row.Quantity})
	}

	s.mu.Lock()
	s.ingredients = entries
	s.mu.Unlock()
	return nil
}

// AddIngredient upserts a pantry entry keyed by name: re-adding an existing
// name overwrites its quantity instead of appending a duplicate.
func (s *State) AddIngredient(ctx context.Context, name, quantity string) error {
	name = strings.TrimSpace(name)
	quantity = strings.TrimSpace(quantity)
	if name == "" {
		return ErrEmptyName
	}

	user := s.session.CurrentUser()
	if user == nil {
		return nil
	}

	row := account.IngredientRow{UserID: user.ID, Name: name, Quantity: quantity}
	if err := s.store.UpsertIngredient(ctx, s.session.Token(), row); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ingredients {
		if s.ingredients[i].Name == name {
			s.ingredients[i].Quantity = quantity
			return nil
		}
	}
	s.ingredients = append(s.ingredients, Entry{Name: name, Quantity: quantity})
	return nil
}

// RemoveIngredient deletes a pantry entry by name.
func (s *State) RemoveIngredient(ctx context.Context, name string) error {
	user := s.session.CurrentUser()
	if user == nil {
		return nil
	}

	if err := s.store.DeleteIngredient(ctx, s.session.Token(), user.ID, name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ingredients {
		if s.ingredients[i].Name == name {
			s.ingredients = append(s.ingredients[:i], s.ingredients[i+1:]...)
			break
		}
	}
	return nil
}

// IngredientsList returns the pantry entries in load/insert order.
func (s *State) IngredientsList() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.ingredients))
	copy(out, s.ingredients)
	return out
}
