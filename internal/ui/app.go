package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/benjaelizalde/recetario/internal/account"
	"github.com/benjaelizalde/recetario/internal/catalog"
	"github.com/benjaelizalde/recetario/internal/collection"
	"github.com/benjaelizalde/recetario/internal/filter"
)

// AppConfig wires the App to the outside world. The App never talks to the
// network or the state stores directly; it runs the injected commands and
// re-reads state through the accessors.
type AppConfig struct {
	RestoreSession   func() tea.Cmd
	SignIn           func(identifier, password string) tea.Cmd
	Register         func(username, email, password string) tea.Cmd
	SignOut          func() tea.Cmd
	ResetPassword    func(email string) tea.Cmd
	ChangePassword   func(current, next string) tea.Cmd
	Search           func(text string) tea.Cmd
	SearchAll        func() tea.Cmd
	FilterBy         func(dim catalog.Dimension, value string) tea.Cmd
	LoadDetail       func(id string) tea.Cmd
	LoadVocabulary   func() tea.Cmd
	LoadCollections  func() tea.Cmd
	ToggleFavorite   func(r catalog.Recipe) tea.Cmd
	AddIngredient    func(name, quantity string) tea.Cmd
	RemoveIngredient func(name string) tea.Cmd
	SaveTheme        func(theme string) tea.Cmd

	Recipes             func() []catalog.Recipe
	Loading             func() bool
	Detail              func() *catalog.Recipe
	IsFavorite          func(id string) bool
	Favorites           func() []catalog.Recipe
	FavoritesVocabulary func() filter.Vocabulary
	Ingredients         func() []collection.Entry
	CurrentUser         func() *account.User
	Username            func() string
	Theme               func() string
}

// Tabs in display order.
const (
	tabSearch = iota
	tabFavorites
	tabIngredients
	tabSettings
	tabCount
)

var tabTitles = [tabCount]string{"Buscar", "Favoritas", "Lista", "Ajustes"}

// App is the root Bubble Tea model.
type App struct {
	cfg    *AppConfig
	styles Styles

	login       loginModel
	search      searchModel
	favorites   favoritesModel
	ingredients ingredientsModel
	settings    settingsModel
	detail      detailModel

	// Separate filter cores: the search tab filters the remote catalog,
	// the favorites tab filters the local collection.
	searchCore *filter.Core
	favCore    *filter.Core
	sheet      filterSheet

	authenticated bool
	restoring     bool
	tab           int
	showDetail    bool
	showSheet     bool
	sheetLocal    bool // sheet opened over the favorites tab
	toasts        []toast

	width, height int
	ready         bool
}

// NewApp creates the root model.
func NewApp(cfg *AppConfig) App {
	return App{
		cfg:         cfg,
		styles:      StylesFor(cfg.Theme()),
		login:       newLoginModel(cfg),
		search:      newSearchModel(cfg),
		favorites:   newFavoritesModel(cfg),
		ingredients: newIngredientsModel(cfg),
		settings:    newSettingsModel(cfg),
		detail:      newDetailModel(cfg),
		searchCore:  filter.NewCore(),
		favCore:     filter.NewCore(),
		restoring:   true,
	}
}

func (a App) Init() tea.Cmd {
	return a.cfg.RestoreSession()
}

// afterSignIn is the command batch issued whenever a session appears.
func (a App) afterSignIn() tea.Cmd {
	return tea.Batch(
		a.cfg.LoadCollections(),
		a.cfg.SearchAll(),
		a.cfg.LoadVocabulary(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case SessionRestored:
		a.restoring = false
		if msg.User != nil {
			a.authenticated = true
			return a, a.afterSignIn()
		}
		return a, nil

	case AuthDone:
		if msg.Err == nil && msg.User != nil {
			a.authenticated = true
			a.login = newLoginModel(a.cfg)
			var cmd tea.Cmd
			a.toasts, cmd = pushToast(a.toasts, "Sesión iniciada", false)
			return a, tea.Batch(cmd, a.afterSignIn())
		}
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		return a, cmd

	case SignedOut:
		a.authenticated = false
		a.tab = tabSearch
		a.showDetail = false
		a.showSheet = false
		a.login = newLoginModel(a.cfg)
		a.searchCore = filter.NewCore()
		a.favCore = filter.NewCore()
		var cmd tea.Cmd
		a.toasts, cmd = pushToast(a.toasts, "Sesión cerrada", false)
		return a, tea.Batch(cmd, a.cfg.LoadCollections())

	case ResetSent:
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		return a, cmd

	case RecipesUpdated:
		if msg.Err != nil {
			var cmd tea.Cmd
			a.toasts, cmd = pushToast(a.toasts, "No se pudieron cargar las recetas", true)
			return a, cmd
		}
		var cmd tea.Cmd
		a.search, cmd, _ = a.search.update(msg)
		return a, cmd

	case DetailLoaded:
		if msg.Err != nil {
			var cmd tea.Cmd
			a.toasts, cmd = pushToast(a.toasts, "No se pudo cargar la receta", true)
			return a, cmd
		}
		a.showDetail = true
		return a, nil

	case VocabularyLoaded:
		if msg.Err != nil {
			var cmd tea.Cmd
			a.toasts, cmd = pushToast(a.toasts, "No se pudieron cargar los filtros", true)
			return a, cmd
		}
		a.searchCore.SetVocabulary(msg.Vocab)
		return a, nil

	case FavoriteToggled:
		if errors.Is(msg.Err, account.ErrSessionExpired) {
			return a.sessionExpired()
		}
		if msg.Err != nil {
			var cmd tea.Cmd
			a.toasts, cmd = pushToast(a.toasts, "No se pudo actualizar favoritas", true)
			return a, cmd
		}
		var cmd tea.Cmd
		a.favorites, cmd = a.favorites.update(msg)
		return a, cmd

	case CollectionsLoaded:
		if errors.Is(msg.Err, account.ErrSessionExpired) {
			return a.sessionExpired()
		}
		if msg.Err != nil {
			var cmd tea.Cmd
			a.toasts, cmd = pushToast(a.toasts, "No se pudieron cargar tus colecciones", true)
			return a, cmd
		}
		// The load may have pulled a remotely stored theme.
		a.styles = StylesFor(a.cfg.Theme())
		var cmd tea.Cmd
		a.favorites, cmd = a.favorites.update(msg)
		return a, cmd

	case PantryUpdated:
		if errors.Is(msg.Err, account.ErrSessionExpired) {
			return a.sessionExpired()
		}
		if msg.Err != nil {
			var cmd tea.Cmd
			a.toasts, cmd = pushToast(a.toasts, "No se pudo actualizar la lista", true)
			return a, cmd
		}
		var cmd tea.Cmd
		a.ingredients, cmd = a.ingredients.update(msg)
		return a, cmd

	case ThemeSaved:
		if errors.Is(msg.Err, account.ErrSessionExpired) {
			return a.sessionExpired()
		}
		if msg.Err == nil {
			a.styles = StylesFor(msg.Theme)
		}
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case PasswordChanged:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case toastExpired:
		a.toasts = dropToast(a.toasts, msg.ID)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.search, cmd, _ = a.search.update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

// sessionExpired closes the gate when the backend rejects the stored token.
// The session manager has already dropped the session by the time the
// message reaches us, so this only resets the UI.
func (a App) sessionExpired() (tea.Model, tea.Cmd) {
	a.authenticated = false
	a.tab = tabSearch
	a.showDetail = false
	a.showSheet = false
	a.login = newLoginModel(a.cfg)
	a.searchCore = filter.NewCore()
	a.favCore = filter.NewCore()
	var cmd tea.Cmd
	a.toasts, cmd = pushToast(a.toasts, "Tu sesión expiró, iniciá sesión de nuevo", true)
	return a, cmd
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.authenticated {
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		return a, cmd
	}

	if a.showSheet {
		var cmd tea.Cmd
		var action sheetAction
		a.sheet, cmd, action = a.sheet.update(msg)
		switch action {
		case sheetClose:
			a.showSheet = false
		case sheetApply:
			a.showSheet = false
			return a, tea.Batch(cmd, a.applySheet())
		case sheetClear:
			a.showSheet = false
			return a, tea.Batch(cmd, a.clearSheet())
		}
		return a, cmd
	}

	if a.showDetail {
		var cmd tea.Cmd
		var closed bool
		a.detail, cmd, closed = a.detail.update(msg)
		if closed {
			a.showDetail = false
		}
		return a, cmd
	}

	// Keys reserved for the frame, unless the active tab is capturing text.
	if !a.capturingText() {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "1", "2", "3", "4":
			a.tab = int(msg.String()[0] - '1')
			return a, nil
		case "tab":
			a.tab = (a.tab + 1) % tabCount
			return a, nil
		case "f":
			if a.tab == tabSearch {
				a.sheetLocal = false
				a.sheet = newFilterSheet(a.searchCore)
				a.showSheet = true
				return a, nil
			}
			if a.tab == tabFavorites {
				a.sheetLocal = true
				a.favCore.SetVocabulary(a.cfg.FavoritesVocabulary())
				a.sheet = newFilterSheet(a.favCore)
				a.showSheet = true
				return a, nil
			}
		}
	}

	return a.routeToTab(msg)
}

// capturingText reports whether the active tab has a focused text input.
func (a App) capturingText() bool {
	switch a.tab {
	case tabSearch:
		return a.search.typing
	case tabIngredients:
		return a.ingredients.editing
	case tabSettings:
		return a.settings.changing
	}
	return false
}

func (a App) routeToTab(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.tab {
	case tabSearch:
		var submitted string
		a.search, cmd, submitted = a.search.update(msg)
		if submitted != "" {
			// A fresh text query supersedes any active filter.
			a.searchCore.QueryChanged(submitted)
		}
	case tabFavorites:
		a.favorites, cmd = a.favorites.update(msg)
	case tabIngredients:
		a.ingredients, cmd = a.ingredients.update(msg)
	case tabSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

// remoteOps adapts the injected command factories to the filter core.
type remoteOps struct {
	cfg          *AppConfig
	cmd          tea.Cmd
	clearedQuery bool
}

func (o *remoteOps) FilterByCategory(_ context.Context, v string) error {
	o.cmd = o.cfg.FilterBy(catalog.DimCategory, v)
	return nil
}

func (o *remoteOps) FilterByArea(_ context.Context, v string) error {
	o.cmd = o.cfg.FilterBy(catalog.DimArea, v)
	return nil
}

func (o *remoteOps) FilterByIngredient(_ context.Context, v string) error {
	o.cmd = o.cfg.FilterBy(catalog.DimIngredient, v)
	return nil
}

func (o *remoteOps) ClearQuery() { o.clearedQuery = true }

func (o *remoteOps) Unfiltered(_ context.Context) error {
	o.cmd = o.cfg.SearchAll()
	return nil
}

// localOps applies the filter to the favorites tab without any fetch.
type localOps struct {
	fav *favoritesModel
}

func (o *localOps) FilterByCategory(_ context.Context, v string) error {
	o.fav.setLocalFilter(catalog.DimCategory, v)
	return nil
}

func (o *localOps) FilterByArea(_ context.Context, v string) error {
	o.fav.setLocalFilter(catalog.DimArea, v)
	return nil
}

func (o *localOps) FilterByIngredient(_ context.Context, v string) error {
	o.fav.setLocalFilter(catalog.DimIngredient, v)
	return nil
}

func (o *localOps) ClearQuery() {}

func (o *localOps) Unfiltered(_ context.Context) error {
	o.fav.setLocalFilter("", "")
	return nil
}

func (a *App) applySheet() tea.Cmd {
	if a.sheetLocal {
		ops := &localOps{fav: &a.favorites}
		a.favCore.Apply(context.Background(), ops)
		return nil
	}
	ops := &remoteOps{cfg: a.cfg}
	a.searchCore.Apply(context.Background(), ops)
	if ops.clearedQuery {
		a.search.clearQuery()
	}
	return ops.cmd
}

func (a *App) clearSheet() tea.Cmd {
	if a.sheetLocal {
		ops := &localOps{fav: &a.favorites}
		a.favCore.Clear(context.Background(), ops)
		return nil
	}
	ops := &remoteOps{cfg: a.cfg}
	a.searchCore.Clear(context.Background(), ops)
	return ops.cmd
}

func (a App) View() string {
	if !a.ready {
		return "Cargando..."
	}
	st := a.styles

	if !a.authenticated {
		if a.restoring {
			return st.Muted.Render("  Restaurando sesión...")
		}
		return a.login.view(st) + "\n" + renderToasts(a.toasts, st)
	}

	if a.showSheet {
		return a.sheet.view(st, a.width)
	}
	if a.showDetail {
		return a.detail.view(st, a.width, a.height)
	}

	var b strings.Builder
	for i, title := range tabTitles {
		if i == a.tab {
			b.WriteString(st.ActiveTab.Render(title))
		} else {
			b.WriteString(st.Tab.Render(title))
		}
	}
	b.WriteString("\n\n")

	contentHeight := a.height - 6
	switch a.tab {
	case tabSearch:
		b.WriteString(a.search.view(st, contentHeight))
	case tabFavorites:
		b.WriteString(a.favorites.view(st, contentHeight))
	case tabIngredients:
		b.WriteString(a.ingredients.view(st, contentHeight))
	case tabSettings:
		b.WriteString(a.settings.view(st))
	}
	b.WriteString("\n")
	b.WriteString(renderToasts(a.toasts, st))

	b.WriteString(st.StatusBar.Render(
		st.StatusKey.Render("1-4") + " pestañas  " +
			st.StatusKey.Render("f") + " filtros  " +
			st.StatusKey.Render("q") + " salir"))
	return b.String()
}

// Tab returns the active tab index (for testing).
func (a App) Tab() int { return a.tab }

// Authenticated reports whether the session gate is open (for testing).
func (a App) Authenticated() bool { return a.authenticated }
