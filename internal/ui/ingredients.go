package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ingredientsModel is the pantry tab: a name/quantity form over the
// ingredient list. Adding an existing name updates its quantity.
type ingredientsModel struct {
	cfg *AppConfig

	name     textinput.Model
	quantity textinput.Model
	editing  bool // form focused
	onName   bool // which form field has focus
	cursor   int
	fieldErr string
}

func newIngredientsModel(cfg *AppConfig) ingredientsModel {
	name := textinput.New()
	name.Prompt = "> "
	name.Placeholder = "Ingrediente"
	name.CharLimit = 60

	quantity := textinput.New()
	quantity.Prompt = "> "
	quantity.Placeholder = "Cantidad"
	quantity.CharLimit = 30

	return ingredientsModel{cfg: cfg, name: name, quantity: quantity, onName: true}
}

func (m *ingredientsModel) focusForm(onName bool) {
	m.editing = true
	m.onName = onName
	if onName {
		m.name.Focus()
		m.quantity.Blur()
	} else {
		m.name.Blur()
		m.quantity.Focus()
	}
}

func (m *ingredientsModel) blurForm() {
	m.editing = false
	m.name.Blur()
	m.quantity.Blur()
}

func (m ingredientsModel) update(msg tea.Msg) (ingredientsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case PantryUpdated:
		if msg.Err == nil {
			m.name.SetValue("")
			m.quantity.SetValue("")
			m.fieldErr = ""
		}
		if m.cursor >= len(m.cfg.Ingredients()) && m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			switch msg.String() {
			case "tab", "shift+tab":
				m.focusForm(!m.onName)
				return m, nil
			case "esc":
				m.blurForm()
				return m, nil
			case "enter":
				name := strings.TrimSpace(m.name.Value())
				if name == "" {
					m.fieldErr = "Ingresá un nombre"
					return m, nil
				}
				m.fieldErr = ""
				m.blurForm()
				return m, m.cfg.AddIngredient(name, strings.TrimSpace(m.quantity.Value()))
			}
			var cmd tea.Cmd
			if m.onName {
				m.name, cmd = m.name.Update(msg)
			} else {
				m.quantity, cmd = m.quantity.Update(msg)
			}
			return m, cmd
		}

		entries := m.cfg.Ingredients()
		switch msg.String() {
		case "a", "/":
			m.focusForm(true)
			return m, textinput.Blink
		case "j", "down":
			if m.cursor < len(entries)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "x", "backspace":
			if m.cursor < len(entries) {
				return m, m.cfg.RemoveIngredient(entries[m.cursor].Name)
			}
		}
		return m, nil
	}
	return m, nil
}

func (m ingredientsModel) view(st Styles, height int) string {
	var b strings.Builder
	b.WriteString(m.name.View())
	b.WriteString("  ")
	b.WriteString(m.quantity.View())
	b.WriteString("\n")
	if m.fieldErr != "" {
		b.WriteString(st.FieldError.Render("  " + m.fieldErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	entries := m.cfg.Ingredients()
	if len(entries) == 0 {
		b.WriteString(st.Muted.Render("  Tu lista está vacía"))
		return b.String()
	}

	for i, e := range entries {
		if i >= height-4 && height > 0 {
			break
		}
		line := e.Name
		if e.Quantity != "" {
			line += "  " + st.Muted.Render(e.Quantity)
		}
		if i == m.cursor && !m.editing {
			b.WriteString(st.SelectedRow.Render(line))
		} else {
			b.WriteString(st.NormalRow.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
