package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/benjaelizalde/recetario/internal/account"
	"github.com/benjaelizalde/recetario/internal/catalog"
	"github.com/benjaelizalde/recetario/internal/collection"
	"github.com/benjaelizalde/recetario/internal/config"
	"github.com/benjaelizalde/recetario/internal/filter"
	"github.com/benjaelizalde/recetario/internal/logging"
	"github.com/benjaelizalde/recetario/internal/query"
	"github.com/benjaelizalde/recetario/internal/session"
	"github.com/benjaelizalde/recetario/internal/store"
	"github.com/benjaelizalde/recetario/internal/ui"
)

// themeHolder is the mutable current theme, written from command goroutines
// and read by the render loop.
type themeHolder struct {
	mu    sync.RWMutex
	value string
}

func (t *themeHolder) get() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.value
}

func (t *themeHolder) set(v string) {
	t.mu.Lock()
	t.value = v
	t.mu.Unlock()
}

// profileHolder mirrors the signed-in user's profile for the settings view.
type profileHolder struct {
	mu       sync.RWMutex
	username string
}

func (p *profileHolder) get() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.username
}

func (p *profileHolder) set(v string) {
	p.mu.Lock()
	p.username = v
	p.mu.Unlock()
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir, err := config.Dir()
	if err != nil {
		log.Fatalf("Failed to locate config directory: %v", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(dir); err != nil {
		log.Fatalf("Failed to init logging: %v", err)
	}
	defer logging.Close()

	st, err := store.Open(filepath.Join(dir, "recetario.db"), cfg.Catalog.TTL())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	cat := catalog.NewClient(cfg.Catalog.BaseURL)
	acct := account.NewClient(cfg.Account.URL, cfg.Account.AnonKey)
	if !acct.Available() {
		fmt.Fprintln(os.Stderr, "Set SUPABASE_URL and SUPABASE_ANON_KEY (or edit "+config.Path(dir)+") to enable accounts.")
		os.Exit(1)
	}

	sess := session.NewManager(acct, dir)
	col := collection.NewState(acct, sess)
	q := query.NewState(cat, st)

	theme := &themeHolder{value: cfg.UI.Theme}
	profile := &profileHolder{}

	// checkSession drops the stored session when the backend rejects its
	// token, so the subscription below clears the local mirrors.
	checkSession := func(err error) error {
		if errors.Is(err, account.ErrSessionExpired) {
			sess.Invalidate()
		}
		return err
	}

	// saveTheme persists to the backend and mirrors into the local config
	// so the next launch starts with the right theme before sign-in.
	saveTheme := func(value string) error {
		if user := sess.CurrentUser(); user != nil {
			if err := acct.UpsertTheme(ctx, sess.Token(), user.ID, value); err != nil {
				return err
			}
		}
		theme.set(value)
		cfg.UI.Theme = value
		if err := cfg.Save(dir); err != nil {
			logging.Warn("saving theme to config failed", "err", err)
		}
		return nil
	}

	// loadCollections refreshes the favorites mirror, the pantry and the
	// remotely stored theme in one pass.
	loadCollections := func() error {
		if err := col.LoadFavorites(ctx); err != nil {
			return err
		}
		if err := col.LoadIngredients(ctx); err != nil {
			return err
		}
		if user := sess.CurrentUser(); user != nil {
			p, err := acct.ProfileByUserID(ctx, sess.Token(), user.ID)
			if err != nil {
				logging.Warn("loading profile failed", "err", err)
			} else {
				profile.set(p.Username)
			}
			remote, err := acct.Theme(ctx, sess.Token(), user.ID)
			if err != nil {
				logging.Warn("loading remote theme failed", "err", err)
			} else if remote != "" && remote != theme.get() {
				theme.set(remote)
				cfg.UI.Theme = remote
				if err := cfg.Save(dir); err != nil {
					logging.Warn("saving theme to config failed", "err", err)
				}
			}
		}
		return nil
	}

	// resolveEmail turns a username-or-email identifier into the email the
	// auth backend needs.
	resolveEmail := func(identifier string) (string, error) {
		if strings.Contains(identifier, "@") {
			return identifier, nil
		}
		profile, err := acct.ProfileByUsername(ctx, "", identifier)
		if err != nil {
			if errors.Is(err, account.ErrNotFound) {
				return "", account.ErrInvalidCredentials
			}
			return "", err
		}
		return profile.Email, nil
	}

	appCfg := &ui.AppConfig{
		RestoreSession: func() tea.Cmd {
			return func() tea.Msg {
				sess.Restore(ctx)
				return ui.SessionRestored{User: sess.CurrentUser()}
			}
		},
		SignIn: func(identifier, password string) tea.Cmd {
			return func() tea.Msg {
				email, err := resolveEmail(identifier)
				if err != nil {
					return ui.AuthDone{Err: err}
				}
				s, err := acct.SignInWithPassword(ctx, email, password)
				if err != nil {
					return ui.AuthDone{Err: err}
				}
				if err := sess.SetSession(s); err != nil {
					return ui.AuthDone{Err: err}
				}
				return ui.AuthDone{User: sess.CurrentUser()}
			}
		},
		Register: func(username, email, password string) tea.Cmd {
			return func() tea.Msg {
				_, err := acct.ProfileByUsername(ctx, "", username)
				if err == nil {
					return ui.AuthDone{Err: account.ErrUsernameTaken}
				}
				if !errors.Is(err, account.ErrNotFound) {
					return ui.AuthDone{Err: err}
				}
				s, err := acct.SignUp(ctx, email, password)
				if err != nil {
					return ui.AuthDone{Err: err}
				}
				profile := account.Profile{UserID: s.User.ID, Username: username, Email: email}
				if err := acct.InsertProfile(ctx, s.AccessToken, profile); err != nil {
					return ui.AuthDone{Err: err}
				}
				if err := sess.SetSession(s); err != nil {
					return ui.AuthDone{Err: err}
				}
				return ui.AuthDone{User: sess.CurrentUser()}
			}
		},
		SignOut: func() tea.Cmd {
			return func() tea.Msg {
				sess.SignOut(ctx)
				return ui.SignedOut{}
			}
		},
		ResetPassword: func(email string) tea.Cmd {
			return func() tea.Msg {
				return ui.ResetSent{Err: acct.ResetPasswordForEmail(ctx, email)}
			}
		},
		ChangePassword: func(current, next string) tea.Cmd {
			return func() tea.Msg {
				user := sess.CurrentUser()
				if user == nil {
					return ui.PasswordChanged{Err: account.ErrInvalidCredentials}
				}
				// Re-verify before touching the password.
				if _, err := acct.SignInWithPassword(ctx, user.Email, current); err != nil {
					return ui.PasswordChanged{Err: err}
				}
				return ui.PasswordChanged{Err: acct.UpdatePassword(ctx, sess.Token(), next)}
			}
		},
		Search: func(text string) tea.Cmd {
			return func() tea.Msg {
				return ui.RecipesUpdated{Err: q.Search(ctx, text)}
			}
		},
		SearchAll: func() tea.Cmd {
			return func() tea.Msg {
				return ui.RecipesUpdated{Err: q.SearchAll(ctx)}
			}
		},
		FilterBy: func(dim catalog.Dimension, value string) tea.Cmd {
			return func() tea.Msg {
				return ui.RecipesUpdated{Err: q.FilterBy(ctx, dim, value)}
			}
		},
		LoadDetail: func(id string) tea.Cmd {
			return func() tea.Msg {
				return ui.DetailLoaded{Err: q.FetchDetail(ctx, id)}
			}
		},
		LoadVocabulary: func() tea.Cmd {
			return func() tea.Msg {
				var vocab filter.Vocabulary
				var err error
				if vocab.Categories, err = q.Vocabulary(ctx, catalog.DimCategory); err != nil {
					return ui.VocabularyLoaded{Err: err}
				}
				if vocab.Areas, err = q.Vocabulary(ctx, catalog.DimArea); err != nil {
					return ui.VocabularyLoaded{Err: err}
				}
				if vocab.Ingredients, err = q.Vocabulary(ctx, catalog.DimIngredient); err != nil {
					return ui.VocabularyLoaded{Err: err}
				}
				return ui.VocabularyLoaded{Vocab: vocab}
			}
		},
		LoadCollections: func() tea.Cmd {
			return func() tea.Msg {
				return ui.CollectionsLoaded{Err: checkSession(loadCollections())}
			}
		},
		ToggleFavorite: func(r catalog.Recipe) tea.Cmd {
			return func() tea.Msg {
				return ui.FavoriteToggled{RecipeID: r.ID, Err: checkSession(col.ToggleFavorite(ctx, r))}
			}
		},
		AddIngredient: func(name, quantity string) tea.Cmd {
			return func() tea.Msg {
				return ui.PantryUpdated{Err: checkSession(col.AddIngredient(ctx, name, quantity))}
			}
		},
		RemoveIngredient: func(name string) tea.Cmd {
			return func() tea.Msg {
				return ui.PantryUpdated{Err: checkSession(col.RemoveIngredient(ctx, name))}
			}
		},
		SaveTheme: func(value string) tea.Cmd {
			return func() tea.Msg {
				return ui.ThemeSaved{Theme: value, Err: checkSession(saveTheme(value))}
			}
		},

		Recipes:    q.Recipes,
		Loading:    q.Loading,
		Detail:     q.Detail,
		IsFavorite: col.IsFavorite,
		Favorites:  col.FavoritesList,
		FavoritesVocabulary: func() filter.Vocabulary {
			return filter.Vocabulary{
				Categories:  col.Categories(),
				Areas:       col.Areas(),
				Ingredients: col.IngredientNames(),
			}
		},
		Ingredients: col.IngredientsList,
		CurrentUser: sess.CurrentUser,
		Username:    profile.get,
		Theme:       theme.get,
	}

	program := tea.NewProgram(ui.NewApp(appCfg), tea.WithAltScreen())

	// Session loss outside the UI's own flows (an expired token discovered
	// mid-run) still clears the local mirrors.
	unsubscribe := sess.Subscribe(func(user *account.User) {
		if user == nil {
			profile.set("")
			go func() {
				program.Send(ui.CollectionsLoaded{Err: loadCollections()})
			}()
		}
	})
	defer unsubscribe()

	if _, err := program.Run(); err != nil {
		logging.Error("program exited with error", "err", err)
		log.Printf("Error running program: %v", err)
	}
}
