package ui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// detailModel is the full-screen recipe view with scrollable instructions.
type detailModel struct {
	cfg    *AppConfig
	scroll int
}

func newDetailModel(cfg *AppConfig) detailModel {
	return detailModel{cfg: cfg}
}

// update returns closed=true when the user dismissed the view.
func (m detailModel) update(msg tea.Msg) (detailModel, tea.Cmd, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}
	switch key.String() {
	case "esc", "q":
		m.scroll = 0
		return m, nil, true
	case "j", "down":
		m.scroll++
	case "k", "up":
		if m.scroll > 0 {
			m.scroll--
		}
	case "m":
		if r := m.cfg.Detail(); r != nil {
			return m, m.cfg.ToggleFavorite(*r), false
		}
	}
	return m, nil, false
}

func (m detailModel) view(st Styles, width, height int) string {
	r := m.cfg.Detail()
	if r == nil {
		return st.Muted.Render("  Cargando receta...")
	}

	var b strings.Builder
	title := r.DisplayName()
	if m.cfg.IsFavorite(r.ID) {
		title = st.Favorite.Render("★ ") + title
	}
	b.WriteString(st.Title.Render(title))
	b.WriteString("\n")
	if meta := recipeMeta(*r); meta != "" {
		b.WriteString(st.Badge.Render(meta))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(st.InputFocus.Render("Ingredientes"))
	b.WriteString("\n")
	for _, ing := range r.Ingredients {
		line := "  • " + ing.Name
		if ing.Quantity != "" {
			line += "  " + st.Muted.Render(ing.Quantity)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(st.InputFocus.Render("Preparación"))
	b.WriteString("\n")

	lines := wrapLines(r.DisplayInstructions(), width-4)
	if m.scroll >= len(lines) {
		m.scroll = 0
		if len(lines) > 0 {
			m.scroll = len(lines) - 1
		}
	}
	shown := 0
	for i := m.scroll; i < len(lines); i++ {
		if height > 0 && shown >= height-12 {
			b.WriteString(st.Muted.Render("  ..."))
			break
		}
		b.WriteString("  " + lines[i])
		b.WriteString("\n")
		shown++
	}

	b.WriteString("\n")
	b.WriteString(st.Help.Render(
		st.StatusKey.Render("j/k") + " desplazar  " +
			st.StatusKey.Render("m") + " favorita  " +
			st.StatusKey.Render("esc") + " volver"))
	return b.String()
}

// wrapLines splits text into lines no wider than width display columns,
// preserving the original paragraph breaks. Widths are counted in runes,
// not bytes, so accented text doesn't wrap early.
func wrapLines(text string, width int) []string {
	if width < 10 {
		width = 10
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		words := strings.Fields(para)
		line := ""
		cols := 0
		for _, w := range words {
			ww := utf8.RuneCountInString(w)
			if line == "" {
				line = w
				cols = ww
			} else if cols+1+ww <= width {
				line += " " + w
				cols += 1 + ww
			} else {
				out = append(out, line)
				line = w
				cols = ww
			}
		}
		if line != "" {
			out = append(out, line)
		}
		out = append(out, "")
	}
	if n := len(out); n > 0 && out[n-1] == "" {
		out = out[:n-1]
	}
	return out
}
