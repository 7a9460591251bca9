package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"studypoints/internal/state"
	"studypoints/pkg/domain"
)

type loginField int

const (
	fieldUsername loginField = iota
	fieldPassword
	numLoginFields
)

// loginModel is the combined login/signup form shown while no session
// exists. Credentials live only in this form state.
type loginModel struct {
	store      *state.Store
	fields     [numLoginFields]string
	focus      loginField
	hint       string // local form validation hint
	submitting string // "login" or "signup" while an attempt is in flight
}

func newLoginModel(store *state.Store) loginModel {
	return loginModel{store: store}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case stateChangedMsg:
		m.submitting = ""
		if msg.snap.LoggedIn {
			m.fields = [numLoginFields]string{}
			m.focus = fieldUsername
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m loginModel) updateKeys(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	if m.submitting != "" {
		return m, nil
	}
	m.hint = ""

	switch msg.String() {
	case "tab", "down", "enter":
		if msg.String() == "enter" && m.focus == fieldPassword {
			return m.submit("login")
		}
		m.focus = (m.focus + 1) % numLoginFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numLoginFields) % numLoginFields
	case "ctrl+s":
		return m.submit("signup")
	case "backspace":
		f := &m.fields[m.focus]
		*f = editRune(*f, "backspace")
	default:
		key := msg.String()
		if len(key) == 1 {
			m.fields[m.focus] = editRune(m.fields[m.focus], key)
		}
	}
	return m, nil
}

func (m loginModel) submit(action string) (loginModel, tea.Cmd) {
	creds := domain.Credentials{
		Username: strings.TrimSpace(m.fields[fieldUsername]),
		Password: m.fields[fieldPassword],
	}
	if !creds.Complete() {
		m.hint = "username and password are required"
		return m, nil
	}

	m.submitting = action
	store := m.store
	if action == "signup" {
		return m, dispatch(store, func(ctx context.Context) {
			store.Signup(ctx, creds) //nolint:errcheck // outcome lands in the status message
		})
	}
	return m, dispatch(store, func(ctx context.Context) {
		store.Login(ctx, creds) //nolint:errcheck // outcome lands in the status message
	})
}

func (m loginModel) View(st state.Status) string {
	var b strings.Builder

	b.WriteString(" " + normalStyle.Render("welcome — log in or create an account") + "\n\n")

	labels := [numLoginFields]string{"username", "password"}
	for i := loginField(0); i < numLoginFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}

		display := m.fields[i]
		if i == fieldPassword {
			display = strings.Repeat("•", len([]rune(display)))
		}
		if display == "" && i != m.focus {
			display = inputPlaceholderStyle.Render("...")
		}
		if i == m.focus {
			display += accentStyle.Render("█")
		}
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, style.Render(labels[i]), display)
	}

	b.WriteString("\n")
	switch {
	case m.submitting == "login":
		b.WriteString(" " + dimStyle.Render("signing in..."))
	case m.submitting == "signup":
		b.WriteString(" " + dimStyle.Render("creating account..."))
	case m.hint != "":
		b.WriteString(" " + errorStyle.Render(m.hint))
	case st.Text != "":
		if st.IsErr {
			b.WriteString(" " + errorStyle.Render(st.Text))
		} else {
			b.WriteString(" " + successStyle.Render(st.Text))
		}
	}

	return b.String()
}
