// Package views provides TUI view components for the gavel application.
package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gavel-dev/gavel/internal/tui"
)

// ============================================================================
// Message Types
// ============================================================================

// LoginSubmitMsg is sent when the user submits non-empty credentials.
type LoginSubmitMsg struct {
	Username string
	Password string
}

// LoginCancelMsg is sent when the user dismisses the login view.
type LoginCancelMsg struct{}

// ============================================================================
// LoginModel
// ============================================================================

// LoginModel is the view model for the login screen.
type LoginModel struct {
	username textinput.Model
	password textinput.Model
	focus    int // 0 = username, 1 = password
	errText  string
	busy     bool
	width    int
	height   int
}

// NewLoginModel creates a new LoginModel with empty fields.
func NewLoginModel(width, height int) LoginModel {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 100
	user.Width = 32
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 100
	pass.Width = 32
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '*'

	return LoginModel{
		username: user,
		password: pass,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the login view.
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the login view.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			// A login is in flight; only window/result messages matter.
			return m, nil
		}

		switch msg.String() {
		case tui.KeyEsc:
			return m, func() tea.Msg { return LoginCancelMsg{} }

		case tui.KeyTab, tui.KeyDown, tui.KeyUp:
			m.setFocus(1 - m.focus)
			return m, nil

		case tui.KeyEnter:
			if m.focus == 0 {
				m.setFocus(1)
				return m, nil
			}
			username := strings.TrimSpace(m.username.Value())
			password := m.password.Value()
			if username == "" || password == "" {
				// Submission blocked; no request is issued.
				m.errText = "Username and password are required"
				return m, nil
			}
			m.errText = ""
			return m, func() tea.Msg {
				return LoginSubmitMsg{Username: username, Password: password}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

// View renders the login view.
func (m LoginModel) View() string {
	var b strings.Builder

	header := tui.TitleStyle.Render("Sign in")
	b.WriteString(header)
	b.WriteString("\n\n")

	b.WriteString("Username\n")
	b.WriteString(m.username.View())
	b.WriteString("\n\n")
	b.WriteString("Password\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	if m.busy {
		b.WriteString(tui.DimStyle.Render("Signing in..."))
		b.WriteString("\n\n")
	} else if m.errText != "" {
		b.WriteString(tui.ErrorStyle.Render(m.errText))
		b.WriteString("\n\n")
	}

	footer := tui.DimStyle.Render("Enter: Sign in - Tab: Next field - Esc: Cancel")
	b.WriteString(footer)

	const maxBoxWidth = 50
	boxWidth := maxBoxWidth
	if m.width-4 < boxWidth {
		boxWidth = m.width - 4
	}

	return tui.BoxStyle.Width(boxWidth).Render(b.String())
}

// SetError records a failed attempt. Fields are preserved for retry.
func (m *LoginModel) SetError(text string) {
	m.errText = text
	m.busy = false
}

// SetBusy marks a login as in flight, disabling further submissions.
func (m *LoginModel) SetBusy(busy bool) {
	m.busy = busy
}

// Values returns the current field contents.
func (m LoginModel) Values() (username, password string) {
	return m.username.Value(), m.password.Value()
}

func (m *LoginModel) setFocus(idx int) {
	m.focus = idx
	if idx == 0 {
		m.username.Focus()
		m.password.Blur()
	} else {
		m.username.Blur()
		m.password.Focus()
	}
}
