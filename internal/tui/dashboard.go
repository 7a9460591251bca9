package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"studypoints/internal/state"
)

type copyResultMsg struct{ err error }

// dashModel is the authenticated dashboard: balance, study controls,
// and the reward list. It never talks to the network directly; every
// action dispatches a store or controller operation.
type dashModel struct {
	store *state.Store
	study *state.StudyController
	shop  *state.PurchaseController

	snap     state.Snapshot
	cursor   int
	localMsg string // transient copy feedback, separate from the store status
	working  bool
	width    int
	height   int
}

func newDashModel(store *state.Store, study *state.StudyController, shop *state.PurchaseController) dashModel {
	return dashModel{store: store, study: study, shop: shop}
}

func (m dashModel) Update(msg tea.Msg) (dashModel, tea.Cmd) {
	switch msg := msg.(type) {
	case stateChangedMsg:
		m.snap = msg.snap
		m.working = false
		if m.cursor >= len(m.snap.Rewards) {
			m.cursor = 0
		}
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.localMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.localMsg = "copied!"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.localMsg = ""
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m dashModel) updateKeys(msg tea.KeyMsg) (dashModel, tea.Cmd) {
	if m.working {
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.snap.Rewards)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "s":
		m.working = true
		study := m.study
		return m, dispatch(m.store, func(ctx context.Context) {
			study.Start(ctx) //nolint:errcheck // outcome lands in the status message
		})

	case "e":
		m.working = true
		study := m.study
		return m, dispatch(m.store, func(ctx context.Context) {
			study.Stop(ctx) //nolint:errcheck // outcome lands in the status message
		})

	case "enter", "b":
		if m.cursor >= len(m.snap.Rewards) {
			return m, nil
		}
		reward := m.snap.Rewards[m.cursor]
		m.working = true
		shop := m.shop
		return m, dispatch(m.store, func(ctx context.Context) {
			shop.Buy(ctx, reward) //nolint:errcheck // outcome lands in the status message
		})

	case "r":
		m.working = true
		store := m.store
		return m, dispatch(store, func(ctx context.Context) {
			if store.RefreshPoints(ctx) == nil {
				store.RefreshRewards(ctx) //nolint:errcheck // failure is surfaced as status
			}
		})

	case "c":
		if m.cursor >= len(m.snap.Rewards) {
			return m, nil
		}
		reward := m.snap.Rewards[m.cursor]
		return m, func() tea.Msg {
			err := clipboard.WriteAll(fmt.Sprintf("%s - %d points", reward.Name, reward.Cost))
			return copyResultMsg{err: err}
		}
	}
	return m, nil
}

func (m dashModel) View() string {
	var b strings.Builder

	snap := m.snap

	greeting := normalStyle.Render("hello, ") + selectedStyle.Render(snap.Username) +
		normalStyle.Render(" — you have ") + pointsStyle.Render(fmt.Sprintf("%d", snap.Points)) +
		normalStyle.Render(" points")
	b.WriteString(" " + greeting + "\n")

	if snap.Studying {
		elapsed := formatElapsed(time.Since(snap.StudyStartedAt))
		b.WriteString(" " + studyStyle.Render("● studying") + " " + dimStyle.Render(elapsed) + "\n")
	} else {
		b.WriteString(" " + metaStyle.Render("○ not studying") + "\n")
	}

	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")

	b.WriteString(" " + accentStyle.Render("reward store") + "\n")
	if len(snap.Rewards) == 0 {
		b.WriteString(" " + dimStyle.Render("no rewards available right now") + "\n")
	}
	for i, r := range snap.Rewards {
		cursor := " "
		nameStyle := normalStyle
		if i == m.cursor {
			cursor = ">"
			nameStyle = selectedStyle
		}
		cost := costStyle.Render(fmt.Sprintf("%d pts", r.Cost))
		if r.Cost > snap.Points {
			cost = metaStyle.Render(fmt.Sprintf("%d pts", r.Cost))
		}
		fmt.Fprintf(&b, " %s %s %s %s\n", cursor, nameStyle.Render(truncStr(r.Name, 40)), metaStyle.Render("·"), cost)
	}

	b.WriteString("\n")
	switch {
	case m.working:
		b.WriteString(" " + dimStyle.Render("working..."))
	case m.localMsg != "":
		b.WriteString(" " + dimStyle.Render(m.localMsg))
	case snap.Status.Text != "" && !snap.Status.IsErr:
		b.WriteString(" " + successStyle.Render(snap.Status.Text))
	}

	return b.String()
}
