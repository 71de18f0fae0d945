// Package views provides TUI view components for the gavel application.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gavel-dev/gavel/internal/tui"
)

// ============================================================================
// Message Types
// ============================================================================

// UploadSubmitMsg is sent when the user submits a selected PDF.
type UploadSubmitMsg struct {
	Path string
}

// UploadCancelMsg is sent when the user dismisses the upload view. File
// selection and status are cleared immediately.
type UploadCancelMsg struct{}

// ============================================================================
// UploadModel
// ============================================================================

// UploadModel is the view model for the minutes upload screen.
type UploadModel struct {
	pathInput textinput.Model
	selected  string // empty until a PDF path has been accepted
	status    string
	isError   bool
	errText   string
	busy      bool
	width     int
	height    int
}

// NewUploadModel creates a new UploadModel with no selection.
func NewUploadModel(width, height int) UploadModel {
	ti := textinput.New()
	ti.Placeholder = "path/to/minutes.pdf"
	ti.CharLimit = 500
	ti.Width = 48
	ti.Focus()

	return UploadModel{
		pathInput: ti,
		width:     width,
		height:    height,
	}
}

// Init returns the initial command for the upload view.
func (m UploadModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the upload view.
func (m UploadModel) Update(msg tea.Msg) (UploadModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}

		switch msg.String() {
		case tui.KeyEsc:
			return m, func() tea.Msg { return UploadCancelMsg{} }

		case tui.KeyEnter:
			if m.selected == "" {
				return m.selectFile()
			}
			// A file is selected; this submits it.
			m.errText = ""
			path := m.selected
			return m, func() tea.Msg {
				return UploadSubmitMsg{Path: path}
			}

		case "e":
			// Re-open the path input to change the selection.
			if m.selected != "" {
				m.selected = ""
				m.pathInput.Focus()
				return m, textinput.Blink
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	if m.selected == "" {
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// selectFile validates the typed path as a PDF selection. Anything that is
// not a .pdf is rejected and the input reset, leaving the selection unset.
func (m UploadModel) selectFile() (UploadModel, tea.Cmd) {
	path := strings.TrimSpace(m.pathInput.Value())
	if path == "" {
		m.errText = "Choose a PDF file first"
		return m, nil
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		m.errText = "Only PDF files are accepted"
		m.pathInput.SetValue("")
		return m, nil
	}

	m.selected = path
	m.errText = ""
	m.pathInput.Blur()
	return m, nil
}

// View renders the upload view.
func (m UploadModel) View() string {
	var b strings.Builder

	header := tui.TitleStyle.Render("Upload meeting minutes")
	b.WriteString(header)
	b.WriteString("\n\n")

	if m.selected == "" {
		b.WriteString("PDF file\n")
		b.WriteString(m.pathInput.View())
		b.WriteString("\n\n")
	} else {
		b.WriteString(fmt.Sprintf("Selected: %s\n\n", m.selected))
	}

	if m.status != "" {
		style := tui.SuccessStyle
		if m.isError {
			style = tui.ErrorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n\n")
	} else if m.errText != "" {
		b.WriteString(tui.ErrorStyle.Render(m.errText))
		b.WriteString("\n\n")
	}

	var footer string
	switch {
	case m.busy:
		footer = "Uploading - please wait"
	case m.selected == "":
		footer = "Enter: Select - Esc: Cancel"
	default:
		footer = "Enter: Upload - e: Change file - Esc: Cancel"
	}
	b.WriteString(tui.DimStyle.Render(footer))

	const maxBoxWidth = 64
	boxWidth := maxBoxWidth
	if m.width-4 < boxWidth {
		boxWidth = m.width - 4
	}

	return tui.BoxStyle.Width(boxWidth).Render(b.String())
}

// Selected returns the accepted PDF path, or empty when nothing is selected.
func (m UploadModel) Selected() string {
	return m.selected
}

// Status returns the current status message.
func (m UploadModel) Status() string {
	return m.status
}

// SetStatus records a status message. isError selects the failure styling.
func (m *UploadModel) SetStatus(text string, isError bool) {
	m.status = text
	m.isError = isError
}

// SetBusy marks an upload as in flight, disabling further submissions.
func (m *UploadModel) SetBusy(busy bool) {
	m.busy = busy
}

// ClearSelection drops the selected file, as after a successful upload.
func (m *UploadModel) ClearSelection() {
	m.selected = ""
	m.pathInput.SetValue("")
	m.pathInput.Focus()
}
