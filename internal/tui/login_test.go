package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"studypoints/internal/state"
	"studypoints/pkg/client"
)

func newTestLoginModel() loginModel {
	return newLoginModel(state.NewStore(client.New("http://127.0.0.1:0")))
}

func typeString(m loginModel, s string) loginModel {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestLoginTypingFillsFocusedField(t *testing.T) {
	m := newTestLoginModel()
	m = typeString(m, "alice")
	if m.fields[fieldUsername] != "alice" {
		t.Errorf("username = %q, want %q", m.fields[fieldUsername], "alice")
	}
}

func TestLoginTabCyclesFocus(t *testing.T) {
	m := newTestLoginModel()
	if m.focus != fieldUsername {
		t.Fatalf("initial focus = %d, want username", m.focus)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldPassword {
		t.Errorf("focus after tab = %d, want password", m.focus)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldUsername {
		t.Errorf("focus after second tab = %d, want username", m.focus)
	}
}

func TestLoginPasswordMaskedInView(t *testing.T) {
	m := newTestLoginModel()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeString(m, "secret")

	view := m.View(state.Status{})
	if strings.Contains(view, "secret") {
		t.Errorf("password leaked into view:\n%s", view)
	}
	if !strings.Contains(view, "••••••") {
		t.Errorf("expected masked password, got:\n%s", view)
	}
}

func TestLoginSubmitIncompleteShowsHint(t *testing.T) {
	m := newTestLoginModel()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab}) // focus password, both empty
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no submit command for incomplete credentials")
	}
	if !strings.Contains(m.View(state.Status{}), "required") {
		t.Errorf("expected validation hint, got:\n%s", m.View(state.Status{}))
	}
}

func TestLoginSubmitCompleteDispatches(t *testing.T) {
	m := newTestLoginModel()
	m = typeString(m, "alice")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeString(m, "pw")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a login command")
	}
	if !strings.Contains(m.View(state.Status{}), "signing in") {
		t.Errorf("expected in-flight indicator, got:\n%s", m.View(state.Status{}))
	}
}

func TestLoginCtrlSDispatchesSignup(t *testing.T) {
	m := newTestLoginModel()
	m = typeString(m, "alice")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeString(m, "pw")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("expected a signup command")
	}
	if !strings.Contains(m.View(state.Status{}), "creating account") {
		t.Errorf("expected signup in-flight indicator, got:\n%s", m.View(state.Status{}))
	}
}

func TestLoginKeysIgnoredWhileSubmitting(t *testing.T) {
	m := newTestLoginModel()
	m.submitting = "login"
	m = typeString(m, "x")
	if m.fields[fieldUsername] != "" {
		t.Errorf("expected typing ignored while submitting, got %q", m.fields[fieldUsername])
	}
}

func TestLoginFieldsClearedAfterSuccessfulLogin(t *testing.T) {
	m := newTestLoginModel()
	m = typeString(m, "alice")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeString(m, "pw")

	m, _ = m.Update(stateChangedMsg{snap: state.Snapshot{LoggedIn: true, Username: "alice"}})
	if m.fields[fieldUsername] != "" || m.fields[fieldPassword] != "" {
		t.Error("expected credentials wiped from form state after login")
	}
	if m.submitting != "" {
		t.Error("expected submitting flag cleared")
	}
}

func TestLoginStatusRendered(t *testing.T) {
	m := newTestLoginModel()

	view := m.View(state.Status{Text: "bad credentials", IsErr: true})
	if !strings.Contains(view, "bad credentials") {
		t.Errorf("expected error status in view, got:\n%s", view)
	}

	view = m.View(state.Status{Text: "account created"})
	if !strings.Contains(view, "account created") {
		t.Errorf("expected success status in view, got:\n%s", view)
	}
}
