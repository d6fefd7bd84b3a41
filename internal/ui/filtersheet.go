package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/benjaelizalde/recetario/internal/catalog"
	"github.com/benjaelizalde/recetario/internal/filter"
)

// sheetDims is the fixed input order on the sheet.
var sheetDims = []catalog.Dimension{catalog.DimCategory, catalog.DimArea, catalog.DimIngredient}

var sheetLabels = map[catalog.Dimension]string{
	catalog.DimCategory:   "Categoría",
	catalog.DimArea:       "Región",
	catalog.DimIngredient: "Ingrediente",
}

// sheetAction is what the sheet asks the app to do when it closes.
type sheetAction int

const (
	sheetNone sheetAction = iota
	sheetApply
	sheetClear
	sheetClose
)

// filterSheet is the overlay that edits the filter core. The core itself
// is owned by the app; the sheet only drives it.
type filterSheet struct {
	core   *filter.Core
	inputs map[catalog.Dimension]textinput.Model
	cursor int // highlighted suggestion in the open list
}

func newFilterSheet(core *filter.Core) filterSheet {
	inputs := make(map[catalog.Dimension]textinput.Model, len(sheetDims))
	for _, dim := range sheetDims {
		in := textinput.New()
		in.Prompt = "> "
		in.Placeholder = sheetLabels[dim]
		in.CharLimit = 60
		in.SetValue(core.Text(dim))
		inputs[dim] = in
	}
	s := filterSheet{core: core, inputs: inputs}
	s.focus(sheetDims[0])
	return s
}

func (s *filterSheet) focus(dim catalog.Dimension) {
	s.core.SetOpenInput(dim)
	s.cursor = 0
	for d, in := range s.inputs {
		if d == dim {
			in.Focus()
		} else {
			in.Blur()
		}
		s.inputs[d] = in
	}
}

func (s *filterSheet) focusedDim() catalog.Dimension {
	return s.core.OpenInput()
}

// syncInputs pulls the core's text back into the widgets, needed after a
// pick rewrites other dimensions.
func (s *filterSheet) syncInputs() {
	for _, dim := range sheetDims {
		in := s.inputs[dim]
		in.SetValue(s.core.Text(dim))
		s.inputs[dim] = in
	}
}

func (s filterSheet) update(msg tea.Msg) (filterSheet, tea.Cmd, sheetAction) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil, sheetNone
	}

	dim := s.focusedDim()
	switch key.String() {
	case "esc":
		s.core.SetOpenInput("")
		return s, nil, sheetClose

	case "tab", "shift+tab":
		idx := 0
		for i, d := range sheetDims {
			if d == dim {
				idx = i
			}
		}
		if key.String() == "tab" {
			idx = (idx + 1) % len(sheetDims)
		} else {
			idx = (idx + len(sheetDims) - 1) % len(sheetDims)
		}
		s.focus(sheetDims[idx])
		return s, nil, sheetNone

	case "down":
		if s.cursor < len(s.core.Suggestions(dim))-1 {
			s.cursor++
		}
		return s, nil, sheetNone

	case "up":
		if s.cursor > 0 {
			s.cursor--
		}
		return s, nil, sheetNone

	case "enter":
		suggestions := s.core.Suggestions(dim)
		if len(suggestions) > 0 && s.cursor < len(suggestions) {
			s.core.SetSelection(dim, suggestions[s.cursor])
			s.syncInputs()
		}
		return s, nil, sheetNone

	case "ctrl+a":
		return s, nil, sheetApply

	case "ctrl+x":
		return s, nil, sheetClear
	}

	// Everything else is typing into the focused input.
	if dim == "" {
		return s, nil, sheetNone
	}
	in, cmd := s.inputs[dim].Update(msg)
	s.inputs[dim] = in
	if in.Value() != s.core.Text(dim) {
		// Typing wipes the other dimensions in the core; pull the cleared
		// text back into their widgets.
		s.core.SetText(dim, in.Value())
		s.cursor = 0
		for _, other := range sheetDims {
			if other == dim {
				continue
			}
			w := s.inputs[other]
			w.SetValue(s.core.Text(other))
			s.inputs[other] = w
		}
	}
	return s, cmd, sheetNone
}

func (s filterSheet) view(st Styles, width int) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Filtros"))
	b.WriteString("\n\n")

	for _, dim := range sheetDims {
		label := sheetLabels[dim]
		if s.core.Selection(dim) != "" {
			label += " ✓"
		}
		if dim == s.focusedDim() {
			b.WriteString(st.InputFocus.Render(label))
		} else {
			b.WriteString(st.Muted.Render(label))
		}
		b.WriteString("\n")
		b.WriteString(s.inputs[dim].View())
		b.WriteString("\n")

		if dim == s.focusedDim() {
			suggestions := s.core.Suggestions(dim)
			for i, v := range suggestions {
				if i == s.cursor {
					b.WriteString(st.SelectedRow.Render(v))
				} else {
					b.WriteString(st.NormalRow.Render(v))
				}
				b.WriteString("\n")
			}
			if len(suggestions) == 0 {
				b.WriteString(st.Muted.Render("  sin coincidencias"))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(st.Help.Render(fmt.Sprintf(
		"%s aplicar  %s limpiar  %s cambiar campo  %s cerrar",
		st.StatusKey.Render("ctrl+a"),
		st.StatusKey.Render("ctrl+x"),
		st.StatusKey.Render("tab"),
		st.StatusKey.Render("esc"),
	)))

	sheet := st.Sheet.Render(b.String())
	if width > 0 {
		sheet = lipgloss.PlaceHorizontal(width, lipgloss.Center, sheet)
	}
	return sheet
}
