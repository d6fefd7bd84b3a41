package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/benjaelizalde/recetario/internal/account"
)

type loginMode int

const (
	modeSignIn loginMode = iota
	modeRegister
	modeReset
)

// field indexes per mode; sign-in uses the first two, reset only the email.
const (
	fieldIdentifier = 0
	fieldPassword   = 1
	fieldEmail      = 2
	fieldRepeat     = 3
	loginFieldCount = 4
)

// loginModel is the gate screen: sign in, register, or request a password
// reset. Validation runs locally before any command is issued; server-side
// failures land back here via AuthDone and are mapped onto fields.
type loginModel struct {
	cfg *AppConfig

	mode       loginMode
	inputs     [loginFieldCount]textinput.Model
	focus      int
	fieldErrs  map[int]string
	formErr    string
	info       string
	submitting bool
}

func newLoginModel(cfg *AppConfig) loginModel {
	m := loginModel{cfg: cfg, fieldErrs: make(map[int]string)}

	mk := func(placeholder string, secret bool) textinput.Model {
		in := textinput.New()
		in.Prompt = "> "
		in.Placeholder = placeholder
		in.CharLimit = 80
		if secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		return in
	}

	m.inputs[fieldIdentifier] = mk("Usuario o email", false)
	m.inputs[fieldPassword] = mk("Contraseña", true)
	m.inputs[fieldEmail] = mk("Email", false)
	m.inputs[fieldRepeat] = mk("Repetir contraseña", true)
	m.setFocus(0)
	return m
}

// fields returns the visible field indexes for the current mode, in order.
func (m loginModel) fields() []int {
	switch m.mode {
	case modeRegister:
		return []int{fieldIdentifier, fieldEmail, fieldPassword, fieldRepeat}
	case modeReset:
		return []int{fieldEmail}
	default:
		return []int{fieldIdentifier, fieldPassword}
	}
}

func (m *loginModel) setFocus(pos int) {
	visible := m.fields()
	if pos < 0 {
		pos = len(visible) - 1
	}
	pos %= len(visible)
	m.focus = pos
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.inputs[visible[pos]].Focus()
}

func (m *loginModel) switchMode(mode loginMode) {
	m.mode = mode
	m.fieldErrs = make(map[int]string)
	m.formErr = ""
	m.info = ""
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.setFocus(0)
}

// validate fills fieldErrs and reports whether the form can be submitted.
func (m *loginModel) validate() bool {
	m.fieldErrs = make(map[int]string)
	m.formErr = ""

	value := func(i int) string { return strings.TrimSpace(m.inputs[i].Value()) }

	switch m.mode {
	case modeSignIn:
		if value(fieldIdentifier) == "" {
			m.fieldErrs[fieldIdentifier] = "Ingresá tu usuario o email"
		}
		if m.inputs[fieldPassword].Value() == "" {
			m.fieldErrs[fieldPassword] = "Ingresá tu contraseña"
		}

	case modeRegister:
		if value(fieldIdentifier) == "" {
			m.fieldErrs[fieldIdentifier] = "Ingresá un nombre de usuario"
		}
		email := value(fieldEmail)
		if email == "" {
			m.fieldErrs[fieldEmail] = "Ingresá tu email"
		} else if !strings.Contains(email, "@") {
			m.fieldErrs[fieldEmail] = "Email inválido"
		}
		if len(m.inputs[fieldPassword].Value()) < 6 {
			m.fieldErrs[fieldPassword] = "La contraseña debe tener al menos 6 caracteres"
		}
		if m.inputs[fieldRepeat].Value() != m.inputs[fieldPassword].Value() {
			m.fieldErrs[fieldRepeat] = "Las contraseñas no coinciden"
		}

	case modeReset:
		email := value(fieldEmail)
		if email == "" || !strings.Contains(email, "@") {
			m.fieldErrs[fieldEmail] = "Ingresá un email válido"
		}
	}

	return len(m.fieldErrs) == 0
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	if !m.validate() {
		return m, nil
	}
	m.submitting = true
	switch m.mode {
	case modeRegister:
		return m, m.cfg.Register(
			strings.TrimSpace(m.inputs[fieldIdentifier].Value()),
			strings.TrimSpace(m.inputs[fieldEmail].Value()),
			m.inputs[fieldPassword].Value(),
		)
	case modeReset:
		return m, m.cfg.ResetPassword(strings.TrimSpace(m.inputs[fieldEmail].Value()))
	default:
		return m, m.cfg.SignIn(
			strings.TrimSpace(m.inputs[fieldIdentifier].Value()),
			m.inputs[fieldPassword].Value(),
		)
	}
}

// applyAuthError maps a server-side failure onto the right field.
func (m *loginModel) applyAuthError(err error) {
	m.submitting = false
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		m.formErr = "Usuario o contraseña incorrectos"
	case errors.Is(err, account.ErrUsernameTaken):
		m.fieldErrs[fieldIdentifier] = "Ese nombre de usuario ya existe"
	case errors.Is(err, account.ErrEmailInUse):
		m.fieldErrs[fieldEmail] = "El email ya está registrado"
	case errors.Is(err, account.ErrInvalidEmail):
		m.fieldErrs[fieldEmail] = "Email inválido"
	default:
		m.formErr = "No se pudo completar la operación, probá de nuevo"
	}
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case AuthDone:
		if msg.Err != nil {
			m.applyAuthError(msg.Err)
		}
		// Success is handled by the app, which swaps this screen out.
		return m, nil

	case ResetSent:
		m.submitting = false
		if msg.Err != nil {
			m.formErr = "No se pudo enviar el email"
		} else {
			m.info = "Te enviamos un email para restablecer la contraseña"
			m.switchModeKeepInfo(modeSignIn)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m.setFocus(m.focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.setFocus(m.focus - 1)
			return m, nil
		case "enter":
			if m.submitting {
				return m, nil
			}
			return m.submit()
		case "ctrl+n":
			if m.mode == modeRegister {
				m.switchMode(modeSignIn)
			} else {
				m.switchMode(modeRegister)
			}
			return m, nil
		case "ctrl+o":
			m.switchMode(modeReset)
			return m, nil
		case "esc":
			if m.mode != modeSignIn {
				m.switchMode(modeSignIn)
			}
			return m, nil
		}

		visible := m.fields()
		idx := visible[m.focus]
		var cmd tea.Cmd
		m.inputs[idx], cmd = m.inputs[idx].Update(msg)
		return m, cmd
	}
	return m, nil
}

// switchModeKeepInfo is switchMode minus clearing the info banner.
func (m *loginModel) switchModeKeepInfo(mode loginMode) {
	info := m.info
	m.switchMode(mode)
	m.info = info
}

func (m loginModel) view(st Styles) string {
	var b strings.Builder

	switch m.mode {
	case modeRegister:
		b.WriteString(st.Title.Render("Crear cuenta"))
	case modeReset:
		b.WriteString(st.Title.Render("Recuperar contraseña"))
	default:
		b.WriteString(st.Title.Render("Recetario"))
	}
	b.WriteString("\n\n")

	if m.info != "" {
		b.WriteString(st.Success.Render(m.info))
		b.WriteString("\n\n")
	}
	if m.formErr != "" {
		b.WriteString(st.Error.Render(m.formErr))
		b.WriteString("\n\n")
	}

	for _, idx := range m.fields() {
		b.WriteString(m.inputs[idx].View())
		b.WriteString("\n")
		if msg, ok := m.fieldErrs[idx]; ok {
			b.WriteString(st.FieldError.Render("  " + msg))
			b.WriteString("\n")
		}
	}

	if m.submitting {
		b.WriteString("\n")
		b.WriteString(st.Muted.Render("Enviando..."))
	}

	b.WriteString("\n")
	switch m.mode {
	case modeSignIn:
		b.WriteString(st.Help.Render(
			st.StatusKey.Render("enter") + " entrar  " +
				st.StatusKey.Render("ctrl+n") + " crear cuenta  " +
				st.StatusKey.Render("ctrl+o") + " olvidé mi contraseña"))
	default:
		b.WriteString(st.Help.Render(
			st.StatusKey.Render("enter") + " confirmar  " +
				st.StatusKey.Render("esc") + " volver"))
	}
	return b.String()
}
