package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/benjaelizalde/recetario/internal/account"
)

// themes in cycling order.
var themeOrder = []string{"system", "light", "dark"}

// settingsModel is the settings tab: account info, theme selection and a
// password change form that re-verifies the current password first.
type settingsModel struct {
	cfg *AppConfig

	changing bool // password form visible
	inputs   [3]textinput.Model
	focus    int
	fieldErr [3]string
	info     string
	formErr  string
}

func newSettingsModel(cfg *AppConfig) settingsModel {
	m := settingsModel{cfg: cfg}
	placeholders := [3]string{"Contraseña actual", "Nueva contraseña", "Repetir nueva contraseña"}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = "> "
		in.Placeholder = placeholders[i]
		in.CharLimit = 80
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
		m.inputs[i] = in
	}
	return m
}

func (m *settingsModel) openForm() {
	m.changing = true
	m.focus = 0
	m.formErr = ""
	m.info = ""
	m.fieldErr = [3]string{}
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.inputs[0].Focus()
}

func (m *settingsModel) closeForm() {
	m.changing = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *settingsModel) setFocus(pos int) {
	m.focus = (pos + len(m.inputs)) % len(m.inputs)
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m settingsModel) submitPassword() (settingsModel, tea.Cmd) {
	m.fieldErr = [3]string{}
	m.formErr = ""
	if m.inputs[0].Value() == "" {
		m.fieldErr[0] = "Ingresá tu contraseña actual"
	}
	if len(m.inputs[1].Value()) < 6 {
		m.fieldErr[1] = "La contraseña debe tener al menos 6 caracteres"
	}
	if m.inputs[2].Value() != m.inputs[1].Value() {
		m.fieldErr[2] = "Las contraseñas no coinciden"
	}
	for _, e := range m.fieldErr {
		if e != "" {
			return m, nil
		}
	}
	return m, m.cfg.ChangePassword(m.inputs[0].Value(), m.inputs[1].Value())
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case PasswordChanged:
		switch {
		case msg.Err == nil:
			m.closeForm()
			m.info = "Contraseña actualizada"
		case errors.Is(msg.Err, account.ErrInvalidCredentials):
			m.fieldErr[0] = "La contraseña actual no es correcta"
		case errors.Is(msg.Err, account.ErrSamePassword):
			m.fieldErr[1] = "La nueva contraseña debe ser distinta"
		default:
			m.formErr = "No se pudo cambiar la contraseña"
		}
		return m, nil

	case ThemeSaved:
		if msg.Err != nil {
			m.formErr = "No se pudo guardar el tema"
		}
		return m, nil

	case tea.KeyMsg:
		if m.changing {
			switch msg.String() {
			case "esc":
				m.closeForm()
				return m, nil
			case "tab", "down":
				m.setFocus(m.focus + 1)
				return m, nil
			case "shift+tab", "up":
				m.setFocus(m.focus - 1)
				return m, nil
			case "enter":
				return m.submitPassword()
			}
			var cmd tea.Cmd
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "t":
			next := nextTheme(m.cfg.Theme())
			return m, m.cfg.SaveTheme(next)
		case "p":
			m.openForm()
			return m, textinput.Blink
		case "s":
			return m, m.cfg.SignOut()
		}
		return m, nil
	}
	return m, nil
}

func nextTheme(current string) string {
	for i, t := range themeOrder {
		if t == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

func (m settingsModel) view(st Styles) string {
	var b strings.Builder

	if name := m.cfg.Username(); name != "" {
		b.WriteString(st.NormalRow.Render("Usuario: " + name))
		b.WriteString("\n")
	}
	user := m.cfg.CurrentUser()
	if user != nil {
		b.WriteString(st.NormalRow.Render("Cuenta: " + user.Email))
		b.WriteString("\n")
	}
	b.WriteString(st.NormalRow.Render("Tema: " + m.cfg.Theme()))
	b.WriteString("\n\n")

	if m.info != "" {
		b.WriteString(st.Success.Render(m.info))
		b.WriteString("\n\n")
	}
	if m.formErr != "" {
		b.WriteString(st.Error.Render(m.formErr))
		b.WriteString("\n\n")
	}

	if m.changing {
		b.WriteString(st.Title.Render("Cambiar contraseña"))
		b.WriteString("\n")
		for i := range m.inputs {
			b.WriteString(m.inputs[i].View())
			b.WriteString("\n")
			if m.fieldErr[i] != "" {
				b.WriteString(st.FieldError.Render("  " + m.fieldErr[i]))
				b.WriteString("\n")
			}
		}
		b.WriteString(st.Help.Render(
			st.StatusKey.Render("enter") + " confirmar  " +
				st.StatusKey.Render("esc") + " cancelar"))
		return b.String()
	}

	b.WriteString(st.Help.Render(
		st.StatusKey.Render("t") + " cambiar tema  " +
			st.StatusKey.Render("p") + " cambiar contraseña  " +
			st.StatusKey.Render("s") + " cerrar sesión"))
	return b.String()
}
