package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/benjaelizalde/recetario/internal/catalog"
)

// searchModel is the browse tab: a free-text search box over the recipe
// list. The list itself lives in the query state and is re-read on render.
type searchModel struct {
	cfg *AppConfig

	input  textinput.Model
	spin   spinner.Model
	cursor int
	typing bool // input focused, keys go to the box
}

func newSearchModel(cfg *AppConfig) searchModel {
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "Buscar recetas"
	in.CharLimit = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return searchModel{cfg: cfg, input: in, spin: sp}
}

// update handles one message. submitted carries the search text when the
// user just issued a query, so the app can reconcile the filter state.
func (m searchModel) update(msg tea.Msg) (searchModel, tea.Cmd, string) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.cfg.Loading() {
			return m, cmd, ""
		}
		return m, nil, ""

	case RecipesUpdated:
		if m.cursor >= len(m.cfg.Recipes()) {
			m.cursor = 0
		}
		return m, nil, ""

	case tea.KeyMsg:
		if m.typing {
			switch msg.String() {
			case "enter":
				m.typing = false
				m.input.Blur()
				text := strings.TrimSpace(m.input.Value())
				if text == "" {
					return m, nil, ""
				}
				return m, tea.Batch(m.cfg.Search(text), m.spin.Tick), text
			case "esc":
				m.typing = false
				m.input.Blur()
				return m, nil, ""
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd, ""
		}

		recipes := m.cfg.Recipes()
		switch msg.String() {
		case "/":
			m.typing = true
			m.input.Focus()
			return m, textinput.Blink, ""
		case "j", "down":
			if m.cursor < len(recipes)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "g", "home":
			m.cursor = 0
		case "G", "end":
			if len(recipes) > 0 {
				m.cursor = len(recipes) - 1
			}
		case "enter":
			if m.cursor < len(recipes) {
				return m, tea.Batch(m.cfg.LoadDetail(recipes[m.cursor].ID), m.spin.Tick), ""
			}
		case "m":
			if m.cursor < len(recipes) {
				return m, m.cfg.ToggleFavorite(recipes[m.cursor]), ""
			}
		}
		return m, nil, ""
	}
	return m, nil, ""
}

// clearQuery empties the search box, used when a filter takes over.
func (m *searchModel) clearQuery() {
	m.input.SetValue("")
}

func (m searchModel) view(st Styles, height int) string {
	var b strings.Builder
	b.WriteString(m.input.View())
	if m.cfg.Loading() {
		b.WriteString("  " + m.spin.View())
	}
	b.WriteString("\n\n")

	recipes := m.cfg.Recipes()
	if len(recipes) == 0 && !m.cfg.Loading() {
		b.WriteString(st.Muted.Render("  Sin resultados"))
		return b.String()
	}

	b.WriteString(renderRecipeRows(recipes, m.cursor, m.cfg.IsFavorite, st, height-3))
	return b.String()
}

// renderRecipeRows renders a windowed recipe list shared by the search and
// favorites tabs. limit <= 0 means unbounded.
func renderRecipeRows(recipes []catalog.Recipe, cursor int, isFavorite func(string) bool, st Styles, limit int) string {
	start := 0
	if limit > 0 && cursor >= limit {
		start = cursor - limit + 1
	}

	var b strings.Builder
	for i := start; i < len(recipes); i++ {
		if limit > 0 && i-start >= limit {
			break
		}
		r := recipes[i]
		line := r.DisplayName()
		if meta := recipeMeta(r); meta != "" {
			line += "  " + st.Muted.Render(meta)
		}
		if isFavorite != nil && isFavorite(r.ID) {
			line = st.Favorite.Render("★ ") + line
		} else {
			line = "  " + line
		}
		if i == cursor {
			b.WriteString(st.SelectedRow.Render(line))
		} else {
			b.WriteString(st.NormalRow.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func recipeMeta(r catalog.Recipe) string {
	switch {
	case r.DisplayCategory() != "" && r.DisplayArea() != "":
		return fmt.Sprintf("%s · %s", r.DisplayCategory(), r.DisplayArea())
	case r.DisplayCategory() != "":
		return r.DisplayCategory()
	default:
		return r.DisplayArea()
	}
}
