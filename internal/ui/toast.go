package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// toastDuration is how long a toast stays on screen.
const toastDuration = 3 * time.Second

// toast is one transient notification line.
type toast struct {
	id      string
	text    string
	isError bool
}

// pushToast appends a toast and returns the command that expires it.
func pushToast(toasts []toast, text string, isError bool) ([]toast, tea.Cmd) {
	t := toast{id: uuid.NewString(), text: text, isError: isError}
	cmd := tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpired{ID: t.id}
	})
	return append(toasts, t), cmd
}

// dropToast removes a toast by ID. Already-removed IDs are ignored.
func dropToast(toasts []toast, id string) []toast {
	for i := range toasts {
		if toasts[i].id == id {
			return append(toasts[:i], toasts[i+1:]...)
		}
	}
	return toasts
}

// renderToasts renders the active toasts, newest last.
func renderToasts(toasts []toast, st Styles) string {
	var out string
	for _, t := range toasts {
		line := t.text
		if t.isError {
			line = st.Error.Render(line)
		} else {
			line = st.Success.Render(line)
		}
		out += line + "\n"
	}
	return out
}
