// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/gavel-dev/gavel/internal/api"
	"github.com/gavel-dev/gavel/internal/config"
	"github.com/gavel-dev/gavel/internal/log"
	"github.com/gavel-dev/gavel/internal/session"
)

// ViewState represents the current state of the TUI.
type ViewState int

const (
	StateHome ViewState = iota
	StateLogin
	StateUpload
	StateMeetings
)

// Tab represents the active tab in the TUI.
type Tab int

const (
	TabHome Tab = iota
	TabMeetings
)

// SummaryFallback is shown when the public summary cannot be fetched.
const SummaryFallback = "Latest meeting summary is unavailable right now."

// Model is the main TUI model that holds all application state.
type Model struct {
	// State management
	State     ViewState
	ActiveTab Tab
	Err       error

	// Wiring
	Cfg    *config.Config
	Client *api.Client
	Store  *session.Store
	Logger *log.Logger

	// Session state. User is nil while unauthenticated.
	User *api.Profile

	// Public summary (always fetched, regardless of auth)
	SummaryDate string
	SummaryText string

	// Meetings list, authoritative from the server, replaced wholesale.
	Meetings []api.Meeting

	// Last query result; overwritten per query, cleared on logout.
	Result *api.QueryResult

	// Busy guards login, query and upload. One flag across all three, so
	// only one such action can be in flight at a time.
	Busy bool

	// UploadGen tags upload requests with the generation of the upload
	// view that issued them. A response carrying a stale generation is
	// dropped, so a cancelled upload cannot mutate status afterwards.
	UploadGen int

	// Bubbles components
	Spinner spinner.Model

	// Terminal dimensions
	Width  int
	Height int

	// Ctrl+C confirmation state
	CtrlCPending bool // True when waiting for second Ctrl+C press
}

// NewModel creates a new Model with the given wiring.
func NewModel(cfg *config.Config, client *api.Client, store *session.Store, logger *log.Logger) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))

	return &Model{
		State:     StateHome,
		ActiveTab: TabHome,
		Cfg:       cfg,
		Client:    client,
		Store:     store,
		Logger:    logger,

		SummaryText: "Loading latest summary...",
		Meetings:    make([]api.Meeting, 0),

		Spinner: sp,

		// Default dimensions (will be updated on WindowSizeMsg)
		Width:  80,
		Height: 24,
	}
}

// ClearAuthState resets everything derived from the session. Called on
// logout; the persisted token is cleared separately by the store.
func (m *Model) ClearAuthState() {
	m.User = nil
	m.Result = nil
	m.Meetings = make([]api.Meeting, 0)
}
