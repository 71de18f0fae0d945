// Package app provides the main TUI application that wires all views together.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gavel-dev/gavel/internal/api"
	"github.com/gavel-dev/gavel/internal/config"
	"github.com/gavel-dev/gavel/internal/log"
	"github.com/gavel-dev/gavel/internal/session"
	"github.com/gavel-dev/gavel/internal/tui"
	"github.com/gavel-dev/gavel/internal/tui/commands"
	"github.com/gavel-dev/gavel/internal/tui/views"
)

// App is the main TUI application that wires all views together.
type App struct {
	model *tui.Model

	// View models
	homeView     views.HomeModel
	loginView    views.LoginModel
	uploadView   views.UploadModel
	meetingsView views.MeetingsModel
}

// New creates a new App with the given wiring.
func New(cfg *config.Config, client *api.Client, store *session.Store, logger *log.Logger) *App {
	model := tui.NewModel(cfg, client, store, logger)

	return &App{
		model:    model,
		homeView: views.NewHomeModel(model),
	}
}

// Model exposes the shared application state, mainly for tests.
func (a *App) Model() *tui.Model {
	return a.model
}

// Init returns the initial commands: the public summary is always fetched,
// and a persisted token, if any, is exchanged for a profile in parallel.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.homeView.Init(),
		commands.FetchSummaryCmd(a.model.Client, a.model.Logger),
		commands.RestoreSessionCmd(a.model.Client, a.model.Store, a.model.Logger),
	)
}

// Update handles messages and updates the application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.model.Width = msg.Width
		a.model.Height = msg.Height
		return a, a.forwardToActiveView(msg)

	case tea.KeyMsg:
		if model, cmd, handled := a.handleGlobalKey(msg); handled {
			return model, cmd
		}

	case tui.CtrlCResetMsg:
		a.model.CtrlCPending = false
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.model.Spinner, cmd = a.model.Spinner.Update(msg)
		if a.model.Busy {
			return a, cmd
		}
		return a, nil

	case tui.SummaryLoadedMsg:
		return a.handleSummaryLoaded(msg)

	case tui.SessionRestoredMsg:
		return a.handleSessionRestored(msg)

	case tui.MeetingsLoadedMsg:
		// A fetch failure is silently ignored; the list is left as-is.
		if msg.Err == nil {
			a.model.Meetings = msg.Meetings
			if a.model.State == tui.StateMeetings {
				a.meetingsView = views.NewMeetingsModel(a.model.Meetings, a.model.Width, a.model.Height)
			}
		}
		return a, nil

	case views.LoginSubmitMsg:
		return a.handleLoginSubmit(msg)

	case tui.LoginResultMsg:
		return a.handleLoginResult(msg)

	case views.LoginCancelMsg:
		a.model.State = tui.StateHome
		return a, nil

	case tui.LoggedOutMsg:
		return a, nil

	case views.SubmitQueryMsg:
		return a.handleQuerySubmit(msg)

	case tui.QueryResultMsg:
		return a.handleQueryResult(msg)

	case views.UploadSubmitMsg:
		return a.handleUploadSubmit(msg)

	case tui.UploadResultMsg:
		return a.handleUploadResult(msg)

	case tui.UploadCloseMsg:
		return a.handleUploadClose(msg)

	case views.UploadCancelMsg:
		// Cancel clears selection and status immediately. Bumping the
		// generation drops any response still in flight.
		a.model.UploadGen++
		a.model.State = tui.StateHome
		a.uploadView = views.NewUploadModel(a.model.Width, a.model.Height)
		return a, nil

	case tui.ErrorMsg:
		a.model.Err = msg.Err
		a.model.State = tui.StateHome
		return a, nil
	}

	return a, a.forwardToActiveView(msg)
}

// View renders the current application state.
func (a *App) View() string {
	var content string

	switch a.model.State {
	case tui.StateHome:
		content = a.homeView.View()
	case tui.StateLogin:
		content = a.loginView.View()
	case tui.StateUpload:
		content = a.uploadView.View()
	case tui.StateMeetings:
		content = a.meetingsView.View()
	default:
		content = "Unknown state"
	}

	if a.shouldShowTabBar() {
		tabBar := a.renderTabBar(a.model.ActiveTab)
		content = lipgloss.JoinVertical(lipgloss.Center, content, "", tabBar)
	}

	if a.model.CtrlCPending {
		warn := tui.WarningStyle.Render("Press Ctrl+C again to exit")
		content = lipgloss.JoinVertical(lipgloss.Center, content, warn)
	}

	return lipgloss.Place(
		a.model.Width,
		a.model.Height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// ============================================================================
// Global Keys
// ============================================================================

// handleGlobalKey processes keys that apply across views. The bool result
// reports whether the key was consumed.
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	keys := tui.DefaultKeyMap

	switch {
	case key.Matches(msg, keys.CtrlC):
		if a.model.CtrlCPending {
			return a, tea.Quit, true
		}
		a.model.CtrlCPending = true
		return a, tea.Tick(time.Second, func(time.Time) tea.Msg {
			return tui.CtrlCResetMsg{}
		}), true

	case key.Matches(msg, keys.Tab):
		// Meetings tab exists only for authenticated users with a
		// non-empty list.
		if a.model.State == tui.StateHome && a.model.User != nil && len(a.model.Meetings) > 0 {
			a.model.ActiveTab = tui.TabMeetings
			a.model.State = tui.StateMeetings
			a.meetingsView = views.NewMeetingsModel(a.model.Meetings, a.model.Width, a.model.Height)
			return a, a.meetingsView.Init(), true
		}
		if a.model.State == tui.StateMeetings {
			a.model.ActiveTab = tui.TabHome
			a.model.State = tui.StateHome
			return a, nil, true
		}

	case key.Matches(msg, keys.Login):
		if a.model.State == tui.StateHome && a.model.User == nil && !a.model.Busy {
			a.model.State = tui.StateLogin
			a.loginView = views.NewLoginModel(a.model.Width, a.model.Height)
			return a, a.loginView.Init(), true
		}

	case key.Matches(msg, keys.Upload):
		if a.model.State == tui.StateHome && a.model.User != nil && a.model.User.CanUpload() && !a.model.Busy {
			a.model.State = tui.StateUpload
			a.uploadView = views.NewUploadModel(a.model.Width, a.model.Height)
			return a, a.uploadView.Init(), true
		}

	case key.Matches(msg, keys.Logout):
		if a.model.User != nil && !a.model.Busy {
			// Derived state is cleared synchronously; the store clear and
			// event log run in the command.
			a.model.ClearAuthState()
			a.model.Err = nil
			a.model.State = tui.StateHome
			a.model.ActiveTab = tui.TabHome
			a.homeView = views.NewHomeModel(a.model)
			return a, tea.Batch(
				a.homeView.Init(),
				commands.LogoutCmd(a.model.Store, a.model.Logger),
			), true
		}
	}

	return a, nil, false
}

// ============================================================================
// Message Handlers
// ============================================================================

func (a *App) handleSummaryLoaded(msg tui.SummaryLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil || msg.Summary == nil {
		// Fixed human-readable fallback rather than a blank section.
		a.model.SummaryDate = ""
		a.model.SummaryText = tui.SummaryFallback
		return a, nil
	}
	a.model.SummaryDate = msg.Summary.MeetingDate
	a.model.SummaryText = msg.Summary.Summary
	return a, nil
}

func (a *App) handleSessionRestored(msg tui.SessionRestoredMsg) (tea.Model, tea.Cmd) {
	if msg.Profile == nil {
		// No token, or the server rejected it; stay unauthenticated with
		// no user-visible error.
		return a, nil
	}
	a.model.User = msg.Profile
	return a, commands.FetchMeetingsCmd(a.model.Client, a.model.Store, a.model.Logger)
}

func (a *App) handleLoginSubmit(msg views.LoginSubmitMsg) (tea.Model, tea.Cmd) {
	if a.model.Busy {
		return a, nil
	}
	a.model.Busy = true
	a.loginView.SetBusy(true)
	return a, tea.Batch(
		a.model.Spinner.Tick,
		commands.LoginCmd(a.model.Client, a.model.Store, a.model.Logger, msg.Username, msg.Password),
	)
}

func (a *App) handleLoginResult(msg tui.LoginResultMsg) (tea.Model, tea.Cmd) {
	a.model.Busy = false
	a.loginView.SetBusy(false)

	if msg.Err != nil {
		// Fields are preserved for retry; the view stays open.
		a.loginView.SetError(errDetail(msg.Err, "Login failed"))
		return a, nil
	}

	a.model.User = msg.Profile
	a.model.Err = nil
	a.model.State = tui.StateHome
	a.homeView = views.NewHomeModel(a.model)
	return a, tea.Batch(
		a.homeView.Init(),
		commands.FetchMeetingsCmd(a.model.Client, a.model.Store, a.model.Logger),
	)
}

func (a *App) handleQuerySubmit(msg views.SubmitQueryMsg) (tea.Model, tea.Cmd) {
	if a.model.Busy {
		return a, nil
	}
	a.model.Busy = true
	a.model.Err = nil
	return a, tea.Batch(
		a.model.Spinner.Tick,
		commands.SubmitQueryCmd(a.model.Client, a.model.Store, a.model.Logger, msg.Query, msg.MaxWords),
	)
}

func (a *App) handleQueryResult(msg tui.QueryResultMsg) (tea.Model, tea.Cmd) {
	a.model.Busy = false

	if msg.Err != nil {
		// The prior result is left untouched.
		a.model.Err = errors.New(errDetail(msg.Err, "Query failed"))
		return a, nil
	}
	a.model.Result = msg.Result
	a.model.Err = nil
	return a, nil
}

func (a *App) handleUploadSubmit(msg views.UploadSubmitMsg) (tea.Model, tea.Cmd) {
	if a.model.Busy {
		return a, nil
	}
	a.model.Busy = true
	a.uploadView.SetBusy(true)
	a.uploadView.SetStatus(fmt.Sprintf("Uploading %s...", msg.Path), false)
	return a, tea.Batch(
		a.model.Spinner.Tick,
		commands.UploadCmd(a.model.Client, a.model.Store, a.model.Logger, msg.Path, a.model.UploadGen),
	)
}

func (a *App) handleUploadResult(msg tui.UploadResultMsg) (tea.Model, tea.Cmd) {
	a.model.Busy = false

	if msg.Gen != a.model.UploadGen {
		// The issuing view was cancelled; drop the late response.
		return a, nil
	}

	a.uploadView.SetBusy(false)

	if msg.Err != nil {
		// The view stays open so the user can retry or cancel.
		a.uploadView.SetStatus(errDetail(msg.Err, "Upload failed"), true)
		return a, nil
	}

	a.uploadView.SetStatus(
		fmt.Sprintf("Uploaded - minutes for %s indexed", msg.Result.MeetingDate),
		false,
	)
	a.uploadView.ClearSelection()

	return a, tea.Batch(
		commands.FetchSummaryCmd(a.model.Client, a.model.Logger),
		commands.FetchMeetingsCmd(a.model.Client, a.model.Store, a.model.Logger),
		commands.CloseUploadCmd(msg.Gen),
	)
}

func (a *App) handleUploadClose(msg tui.UploadCloseMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != a.model.UploadGen || a.model.State != tui.StateUpload {
		return a, nil
	}
	a.uploadView.SetStatus("", false)
	a.model.State = tui.StateHome
	return a, nil
}

// ============================================================================
// Helpers
// ============================================================================

// forwardToActiveView routes a message to the view owning the current state.
func (a *App) forwardToActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.model.State {
	case tui.StateHome:
		a.homeView, cmd = a.homeView.Update(msg)
	case tui.StateLogin:
		a.loginView, cmd = a.loginView.Update(msg)
	case tui.StateUpload:
		a.uploadView, cmd = a.uploadView.Update(msg)
	case tui.StateMeetings:
		a.meetingsView, cmd = a.meetingsView.Update(msg)
	}
	return cmd
}

// shouldShowTabBar returns true if the tab bar should be displayed.
func (a *App) shouldShowTabBar() bool {
	if a.model.User == nil || len(a.model.Meetings) == 0 {
		return false
	}
	switch a.model.State {
	case tui.StateHome, tui.StateMeetings:
		return true
	default:
		return false
	}
}

// renderTabBar renders the tab bar with the active tab highlighted.
func (a *App) renderTabBar(activeTab tui.Tab) string {
	tabs := []struct {
		name string
		tab  tui.Tab
	}{
		{"Home", tui.TabHome},
		{"Meetings", tui.TabMeetings},
	}

	var rendered []string
	for _, t := range tabs {
		if t.tab == activeTab {
			rendered = append(rendered, tui.ActiveTabStyle.Render(t.name))
		} else {
			rendered = append(rendered, tui.InactiveTabStyle.Render(t.name))
		}
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	return lipgloss.NewStyle().
		Width(a.model.Width).
		Align(lipgloss.Center).
		Render(tabBar)
}

// errDetail extracts the server's detail message from err, falling back to
// a generic string when there is none.
func errDetail(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
