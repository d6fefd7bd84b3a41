package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/benjaelizalde/recetario/internal/catalog"
)

// favoritesModel is the favorites tab, a plain list over the collection
// mirror. Its filter runs over the favorites' own vocabulary, so local
// filtering stays instant and offline.
type favoritesModel struct {
	cfg    *AppConfig
	cursor int

	// Active local filter, empty when showing everything.
	filterDim   catalog.Dimension
	filterValue string
}

func newFavoritesModel(cfg *AppConfig) favoritesModel {
	return favoritesModel{cfg: cfg}
}

func (m favoritesModel) visible() []catalog.Recipe {
	all := m.cfg.Favorites()
	if m.filterValue == "" {
		return all
	}
	out := make([]catalog.Recipe, 0, len(all))
	for _, r := range all {
		if matchesDimension(r, m.filterDim, m.filterValue) {
			out = append(out, r)
		}
	}
	return out
}

func matchesDimension(r catalog.Recipe, dim catalog.Dimension, value string) bool {
	switch dim {
	case catalog.DimCategory:
		return r.Category == value
	case catalog.DimArea:
		return r.Area == value
	case catalog.DimIngredient:
		for _, ing := range r.Ingredients {
			if ing.Name == value {
				return true
			}
		}
	}
	return false
}

func (m favoritesModel) update(msg tea.Msg) (favoritesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case FavoriteToggled, CollectionsLoaded:
		if m.cursor >= len(m.visible()) && m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case tea.KeyMsg:
		rows := m.visible()
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(rows)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			if m.cursor < len(rows) {
				return m, m.cfg.LoadDetail(rows[m.cursor].ID)
			}
		case "m", "x":
			if m.cursor < len(rows) {
				return m, m.cfg.ToggleFavorite(rows[m.cursor])
			}
		case "ctrl+x":
			m.filterDim, m.filterValue = "", ""
			m.cursor = 0
		}
		return m, nil
	}
	return m, nil
}

// setLocalFilter applies a single-dimension filter over the favorites.
func (m *favoritesModel) setLocalFilter(dim catalog.Dimension, value string) {
	m.filterDim, m.filterValue = dim, value
	m.cursor = 0
}

func (m favoritesModel) view(st Styles, height int) string {
	var b strings.Builder
	if m.filterValue != "" {
		b.WriteString(st.Badge.Render(m.filterValue))
		b.WriteString(st.Muted.Render(" ctrl+x quita el filtro"))
		b.WriteString("\n\n")
		height -= 2
	}

	rows := m.visible()
	if len(rows) == 0 {
		b.WriteString(st.Muted.Render("  Todavía no guardaste recetas"))
		return b.String()
	}

	b.WriteString(renderRecipeRows(rows, m.cursor, m.cfg.IsFavorite, st, height))
	return b.String()
}
