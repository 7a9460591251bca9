package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studypoints/internal/state"
)

// opTimeout bounds every dispatched operation so a request that never
// resolves cannot leave the UI pending forever.
const opTimeout = 10 * time.Second

// stateChangedMsg carries a fresh store snapshot after an operation ran.
type stateChangedMsg struct {
	snap state.Snapshot
}

// dispatch runs a store/controller operation off the event loop with a
// bounded context, then delivers the resulting snapshot.
func dispatch(store *state.Store, op func(ctx context.Context)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		op(ctx)
		return stateChangedMsg{snap: store.Snapshot()}
	}
}

// App is the root Bubbletea model. Which screen renders is derived from
// the store snapshot: login form, loading, error, or dashboard.
type App struct {
	store  *state.Store
	login  loginModel
	dash   dashModel
	snap   state.Snapshot
	width  int
	height int
	frame  int // logo shimmer animation frame
}

// NewApp creates the TUI application over the state core.
func NewApp(store *state.Store, study *state.StudyController, shop *state.PurchaseController) App {
	a := App{
		store: store,
		login: newLoginModel(store),
		dash:  newDashModel(store, study, shop),
	}
	if store != nil {
		a.snap = store.Snapshot()
	}
	return a
}

func (a App) Init() tea.Cmd {
	return shimmerTickCmd()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + help(1) = 3 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 3}
		a.dash, _ = a.dash.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case stateChangedMsg:
		a.snap = msg.snap
		a.login, _ = a.login.Update(msg)
		a.dash, _ = a.dash.Update(msg)
		return a, nil

	case copyResultMsg:
		a.dash, _ = a.dash.Update(msg)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.snap.LoggedIn {
			var cmd tea.Cmd
			a.login, cmd = a.login.Update(msg)
			return a, cmd
		}

		// Error screen captures all keys; the single recovery action
		// clears the error flag.
		if a.snap.Status.IsErr {
			switch msg.String() {
			case "enter", "esc":
				a.store.ClearStatus()
				return a.syncState()
			case "q":
				return a, tea.Quit
			}
			return a, nil
		}

		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "l":
			a.store.Logout()
			return a.syncState()
		}

		var cmd tea.Cmd
		a.dash, cmd = a.dash.Update(msg)
		return a, cmd
	}

	return a, nil
}

// syncState re-reads the store after a synchronous local operation
// (logout, clear-status) and propagates the snapshot to the sub-models.
func (a App) syncState() (tea.Model, tea.Cmd) {
	msg := stateChangedMsg{snap: a.store.Snapshot()}
	a.snap = msg.snap
	a.login, _ = a.login.Update(msg)
	a.dash, _ = a.dash.Update(msg)
	return a, nil
}

func (a App) View() string {
	// Header: centered shimmer logo + identity line
	logo := renderShimmerLogo(a.frame)
	header := centerLine(logo, a.width)

	var identity string
	if a.snap.LoggedIn {
		parts := []string{
			selectedStyle.Render(a.snap.Username),
			pointsStyle.Render(fmt.Sprintf("%d pts", a.snap.Points)),
		}
		if a.snap.Studying {
			parts = append(parts, studyStyle.Render("studying "+formatElapsed(time.Since(a.snap.StudyStartedAt))))
		}
		identity = strings.Join(parts, metaStyle.Render(" · "))
	} else {
		identity = metaStyle.Render("earn points by studying, spend them on rewards")
	}
	header += "\n" + centerLine(identity, a.width)

	// Body + help bar
	var body, help string
	switch {
	case !a.snap.LoggedIn:
		body = a.login.View(a.snap.Status)
		help = " " + helpEntry("tab", "fields") + "  " + helpEntry("enter", "log in") + "  " + helpEntry("ctrl+s", "sign up") + "  " + helpEntry("ctrl+c", "quit")

	case !a.snap.Hydrated:
		body = " " + dimStyle.Render("loading your data...")
		help = " " + helpEntry("ctrl+c", "quit")

	case a.snap.Status.IsErr:
		body = a.errorView()
		help = " " + helpEntry("enter", "dismiss") + "  " + helpEntry("q", "quit")

	default:
		body = a.dash.View()
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "buy") + "  " + helpEntry("s/e", "study") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("c", "copy") + "  " + helpEntry("l", "logout") + "  " + helpEntry("q", "quit")
	}

	// Chrome budget: header(2) + help(1) = 3 lines + body
	body = strings.TrimRight(truncateToHeight(body, a.height-3), "\n")

	return fmt.Sprintf("%s\n%s\n%s", header, body, help)
}

func (a App) errorView() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(" " + errorStyle.Render("⚠ "+a.snap.Status.Text) + "\n\n")
	b.WriteString(" " + dimStyle.Render("press enter to dismiss and try again"))
	return b.String()
}

// centerLine pads a styled line so it sits centered within width.
func centerLine(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
