package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"studypoints/internal/state"
	"studypoints/pkg/client"
	"studypoints/pkg/domain"
)

func newTestDashModel() dashModel {
	store := state.NewStore(client.New("http://127.0.0.1:0"))
	m := newDashModel(store, state.NewStudyController(store), state.NewPurchaseController(store))
	m.width = 80
	m.height = 24
	m.snap = state.Snapshot{
		LoggedIn: true,
		Username: "alice",
		Points:   120,
		Rewards: []domain.Reward{
			{ID: 1, Name: "Coffee", Cost: 50},
			{ID: 2, Name: "Movie night", Cost: 200},
		},
		Hydrated: true,
	}
	return m
}

func TestDashboardRendersBalanceAndRewards(t *testing.T) {
	m := newTestDashModel()
	view := m.View()
	if !strings.Contains(view, "alice") {
		t.Errorf("expected greeting, got:\n%s", view)
	}
	if !strings.Contains(view, "120") {
		t.Errorf("expected balance, got:\n%s", view)
	}
	if !strings.Contains(view, "Coffee") || !strings.Contains(view, "Movie night") {
		t.Errorf("expected both reward rows, got:\n%s", view)
	}
}

func TestDashboardEmptyCatalog(t *testing.T) {
	m := newTestDashModel()
	m.snap.Rewards = nil
	if !strings.Contains(m.View(), "no rewards available") {
		t.Errorf("expected empty-state line, got:\n%s", m.View())
	}
}

func TestDashboardCursorNavigationClamps(t *testing.T) {
	m := newTestDashModel()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want clamp at 1", m.cursor)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamp at 0", m.cursor)
	}
}

func TestDashboardCursorResetWhenCatalogShrinks(t *testing.T) {
	m := newTestDashModel()
	m.cursor = 1
	snap := m.snap
	snap.Rewards = snap.Rewards[:1]
	m, _ = m.Update(stateChangedMsg{snap: snap})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want reset to 0", m.cursor)
	}
}

func TestDashboardBuyDispatchesForSelectedReward(t *testing.T) {
	m := newTestDashModel()
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected purchase command")
	}
	if !m.working {
		t.Error("expected working flag while purchase is in flight")
	}
	if !strings.Contains(m.View(), "working") {
		t.Errorf("expected working indicator, got:\n%s", m.View())
	}
}

func TestDashboardBuyNoopOnEmptyCatalog(t *testing.T) {
	m := newTestDashModel()
	m.snap.Rewards = nil
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no purchase command with an empty catalog")
	}
}

func TestDashboardStudyKeysDispatch(t *testing.T) {
	for _, key := range []string{"s", "e"} {
		m := newTestDashModel()
		m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
		if cmd == nil {
			t.Errorf("expected command for key %q", key)
		}
		if !m.working {
			t.Errorf("expected working flag for key %q", key)
		}
	}
}

func TestDashboardKeysIgnoredWhileWorking(t *testing.T) {
	m := newTestDashModel()
	m.working = true
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if cmd != nil {
		t.Error("expected duplicate action dropped while working")
	}
}

func TestDashboardSuccessStatusShownInline(t *testing.T) {
	m := newTestDashModel()
	m.snap.Status = state.Status{Text: `"Coffee" purchased — enjoy`}
	if !strings.Contains(m.View(), "purchased") {
		t.Errorf("expected confirmation inline, got:\n%s", m.View())
	}
}

func TestDashboardStudyIndicator(t *testing.T) {
	m := newTestDashModel()
	m.snap.Studying = true
	m.snap.StudyStartedAt = time.Now().Add(-30 * time.Second)
	if !strings.Contains(m.View(), "studying") {
		t.Errorf("expected studying indicator, got:\n%s", m.View())
	}

	m.snap.Studying = false
	if !strings.Contains(m.View(), "not studying") {
		t.Errorf("expected idle indicator, got:\n%s", m.View())
	}
}

func TestDashboardCopyResult(t *testing.T) {
	m := newTestDashModel()
	m, _ = m.Update(copyResultMsg{})
	if !strings.Contains(m.View(), "copied!") {
		t.Errorf("expected copy confirmation, got:\n%s", m.View())
	}

	m, _ = m.Update(copyResultMsg{err: errors.New("no clipboard")})
	if !strings.Contains(m.View(), "copy failed") {
		t.Errorf("expected copy failure note, got:\n%s", m.View())
	}
}
