package account

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/benjaelizalde/recetario/internal/catalog"
)

// Row types mirror the four tables. Every query is eq-scoped by user_id;
// row-level security enforces the same scoping server-side.

type Profile struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type FavoriteRow struct {
	UserID   string         `json:"user_id"`
	RecipeID string         `json:"recipe_id"`
	Recipe   catalog.Recipe `json:"recipe_data"`
}

type IngredientRow struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
}

type SettingsRow struct {
	UserID string `json:"user_id"`
	Theme  string `json:"theme"`
}

// mergeDuplicates asks PostgREST for a native upsert against the table's
// unique constraint instead of delete-then-insert, so there is never a
// visible intermediate "missing" state.
var mergeDuplicates = map[string]string{"Prefer": "resolution=merge-duplicates"}

func (c *Client) selectRows(ctx context.Context, token, table string, filters url.Values, out any) error {
	filters.Set("select", "*")
	path := "/rest/v1/" + table + "?" + filters.Encode()

	status, body, err := c.do(ctx, http.MethodGet, path, token, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return mapAuthError(status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s rows: %w", table, err)
	}
	return nil
}

func (c *Client) writeRows(ctx context.Context, method, token, table string, filters url.Values, body any, headers map[string]string) error {
	path := "/rest/v1/" + table
	if len(filters) > 0 {
		path += "?" + filters.Encode()
	}

	status, respBody, err := c.do(ctx, method, path, token, body, headers)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated && status != http.StatusNoContent {
		return mapAuthError(status, respBody)
	}
	return nil
}

// ProfileByUsername resolves a username to its profile row, or ErrNotFound.
// Works pre-login with the anon key, which is what the login screen needs
// to resolve a username into the email the auth backend expects.
func (c *Client) ProfileByUsername(ctx context.Context, token, username string) (*Profile, error) {
	var rows []Profile
	filters := url.Values{"username": {"eq." + username}}
	if err := c.selectRows(ctx, token, "user_profiles", filters, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// ProfileByUserID fetches the profile for a user id, or ErrNotFound.
func (c *Client) ProfileByUserID(ctx context.Context, token, userID string) (*Profile, error) {
	var rows []Profile
	filters := url.Values{"user_id": {"eq." + userID}}
	if err := c.selectRows(ctx, token, "user_profiles", filters, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// InsertProfile creates the profile row right after signup.
func (c *Client) InsertProfile(ctx context.Context, token string, p Profile) error {
	return c.writeRows(ctx, http.MethodPost, token, "user_profiles", nil, p, nil)
}

// Favorites returns every favorite row for a user.
func (c *Client) Favorites(ctx context.Context, token, userID string) ([]FavoriteRow, error) {
	var rows []FavoriteRow
	filters := url.Values{"user_id": {"eq." + userID}}
	if err := c.selectRows(ctx, token, "favorites", filters, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertFavorite inserts or refreshes a favorite, keyed (user_id, recipe_id).
func (c *Client) UpsertFavorite(ctx context.Context, token string, row FavoriteRow) error {
	filters := url.Values{"on_conflict": {"user_id,recipe_id"}}
	return c.writeRows(ctx, http.MethodPost, token, "favorites", filters, row, mergeDuplicates)
}

// DeleteFavorite removes a favorite by (user_id, recipe_id).
func (c *Client) DeleteFavorite(ctx context.Context, token, userID, recipeID string) error {
	filters := url.Values{
		"user_id":   {"eq." + userID},
		"recipe_id": {"eq." + recipeID},
	}
	return c.writeRows(ctx, http.MethodDelete, token, "favorites", filters, nil, nil)
}

// Ingredients returns every pantry row for a user.
func (c *Client) Ingredients(ctx context.Context, token, userID string) ([]IngredientRow, error) {
	var rows []IngredientRow
	filters := url.Values{"user_id": {"eq." + userID}}
	if err := c.selectRows(ctx, token, "ingredients", filters, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertIngredient inserts or updates a pantry row, keyed (user_id, name).
// Re-adding an existing name overwrites its quantity.
func (c *Client) UpsertIngredient(ctx context.Context, token string, row IngredientRow) error {
	filters := url.Values{"on_conflict": {"user_id,name"}}
	return c.writeRows(ctx, http.MethodPost, token, "ingredients", filters, row, mergeDuplicates)
}

// DeleteIngredient removes a pantry row by (user_id, name).
func (c *Client) DeleteIngredient(ctx context.Context, token, userID, name string) error {
	filters := url.Values{
		"user_id": {"eq." + userID},
		"name":    {"eq." + name},
	}
	return c.writeRows(ctx, http.MethodDelete, token, "ingredients", filters, nil, nil)
}

// Theme fetches the stored theme preference, or "" when unset.
func (c *Client) Theme(ctx context.Context, token, userID string) (string, error) {
	var rows []SettingsRow
	filters := url.Values{"user_id": {"eq." + userID}}
	if err := c.selectRows(ctx, token, "user_settings", filters, &rows); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Theme, nil
}

// UpsertTheme stores the theme preference, keyed user_id. Last write wins.
func (c *Client) UpsertTheme(ctx context.Context, token, userID, theme string) error {
	filters := url.Values{"on_conflict": {"user_id"}}
	row := SettingsRow{UserID: userID, Theme: theme}
	return c.writeRows(ctx, http.MethodPost, token, "user_settings", filters, row, mergeDuplicates)
}
