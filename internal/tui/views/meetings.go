// Package views provides TUI view components for the gavel application.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gavel-dev/gavel/internal/api"
	"github.com/gavel-dev/gavel/internal/tui"
)

// meetingItem adapts an api.Meeting to the bubbles list.
type meetingItem struct {
	meeting api.Meeting
}

func (i meetingItem) Title() string { return i.meeting.Date }
func (i meetingItem) Description() string {
	return fmt.Sprintf("%s - uploaded %s", i.meeting.Filename, i.meeting.UploadedAt)
}
func (i meetingItem) FilterValue() string { return i.meeting.Date }

// ============================================================================
// MeetingsModel
// ============================================================================

// MeetingsModel is the view model for the meetings listing. Display order
// is whatever the server returned; no client-side sorting or filtering.
type MeetingsModel struct {
	list   list.Model
	count  int
	width  int
	height int
}

// NewMeetingsModel creates a MeetingsModel over the given meetings.
func NewMeetingsModel(meetings []api.Meeting, width, height int) MeetingsModel {
	items := make([]list.Item, len(meetings))
	for i, m := range meetings {
		items[i] = meetingItem{meeting: m}
	}

	listHeight := height - 8
	if listHeight < 6 {
		listHeight = 6
	}

	l := list.New(items, list.NewDefaultDelegate(), width-8, listHeight)
	l.Title = "Meetings"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return MeetingsModel{
		list:   l,
		count:  len(meetings),
		width:  width,
		height: height,
	}
}

// Init returns the initial command for the meetings view.
func (m MeetingsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the meetings view.
func (m MeetingsModel) Update(msg tea.Msg) (MeetingsModel, tea.Cmd) {
	if wsMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsMsg.Width
		m.height = wsMsg.Height
		m.list.SetSize(wsMsg.Width-8, wsMsg.Height-8)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the meetings view.
func (m MeetingsModel) View() string {
	var b strings.Builder

	if m.count == 0 {
		b.WriteString(tui.TitleStyle.Render("Meetings"))
		b.WriteString("\n\n")
		b.WriteString(tui.DimStyle.Render("No meetings uploaded yet."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.list.View())
		b.WriteString("\n")
	}

	b.WriteString(tui.DimStyle.Render("Tab: Home       Ctrl+C: Exit"))

	const maxBoxWidth = 84
	boxWidth := maxBoxWidth
	if m.width-4 < boxWidth {
		boxWidth = m.width - 4
	}

	return tui.BoxStyle.Width(boxWidth).Render(b.String())
}

// Count returns the number of listed meetings.
func (m MeetingsModel) Count() int {
	return m.count
}
