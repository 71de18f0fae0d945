// Package views provides TUI view components for the gavel application.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gavel-dev/gavel/internal/api"
	"github.com/gavel-dev/gavel/internal/config"
	"github.com/gavel-dev/gavel/internal/tui"
)

// ============================================================================
// Message Types
// ============================================================================

// SubmitQueryMsg is sent when the user submits a non-empty question.
type SubmitQueryMsg struct {
	Query    string
	MaxWords int
}

// ============================================================================
// HomeModel
// ============================================================================

// HomeModel is the view model for the home screen: the public summary plus,
// when authenticated, the query form and last result.
type HomeModel struct {
	shared   *tui.Model
	question textinput.Model
	maxWords int
	errText  string
}

// NewHomeModel creates a new HomeModel over the shared application state.
func NewHomeModel(shared *tui.Model) HomeModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about the minutes..."
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	maxWords := config.MinWords
	if shared.Cfg != nil && shared.Cfg.Query.MaxWords >= config.MinWords {
		maxWords = shared.Cfg.Query.MaxWords
	}
	if maxWords > config.MaxWords {
		maxWords = config.MaxWords
	}

	return HomeModel{
		shared:   shared,
		question: ti,
		maxWords: maxWords,
	}
}

// Init returns the initial command for the home view.
func (m HomeModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the home view.
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.shared.User == nil {
			// Unauthenticated home is read-only.
			return m, nil
		}
		if m.shared.Busy {
			// The shared busy flag disables submission and the slider while
			// any guarded action is in flight.
			return m, nil
		}

		switch msg.String() {
		case tui.KeyUp:
			if m.maxWords+config.WordsStep <= config.MaxWords {
				m.maxWords += config.WordsStep
			}
			return m, nil

		case tui.KeyDown:
			if m.maxWords-config.WordsStep >= config.MinWords {
				m.maxWords -= config.WordsStep
			}
			return m, nil

		case tui.KeyEnter:
			query := strings.TrimSpace(m.question.Value())
			if query == "" {
				// Submission blocked; no request is issued.
				m.errText = "Enter a question first"
				return m, nil
			}
			m.errText = ""
			maxWords := m.maxWords
			return m, func() tea.Msg {
				return SubmitQueryMsg{Query: query, MaxWords: maxWords}
			}
		}

	case tea.WindowSizeMsg:
		m.question.Width = msg.Width - 16
		return m, nil
	}

	var cmd tea.Cmd
	m.question, cmd = m.question.Update(msg)
	return m, cmd
}

// View renders the home view.
func (m HomeModel) View() string {
	var b strings.Builder

	header := tui.TitleStyle.Render("Gavel - Meeting Minutes Q&A")
	b.WriteString(header)
	b.WriteString("\n\n")

	b.WriteString(m.renderSummary())
	b.WriteString("\n\n")

	if m.shared.User == nil {
		b.WriteString(tui.DimStyle.Render("Sign in to ask questions and upload minutes."))
		b.WriteString("\n\n")
		b.WriteString(m.footer())
		return m.boxed(b.String())
	}

	// Query form
	b.WriteString(fmt.Sprintf("Signed in as %s (%s)\n\n", m.shared.User.Username, m.shared.User.Role))
	b.WriteString(m.question.View())
	b.WriteString("\n")
	b.WriteString(m.renderWordBudget())
	b.WriteString("\n")

	if m.shared.Busy {
		b.WriteString(fmt.Sprintf("%s Thinking...", m.shared.Spinner.View()))
		b.WriteString("\n")
	} else if m.errText != "" {
		b.WriteString(tui.ErrorStyle.Render(m.errText))
		b.WriteString("\n")
	} else if m.shared.Err != nil {
		b.WriteString(tui.ErrorStyle.Render(m.shared.Err.Error()))
		b.WriteString("\n")
	}

	if m.shared.Result != nil {
		b.WriteString("\n")
		b.WriteString(renderResult(m.shared.Result))
	}

	b.WriteString("\n")
	b.WriteString(m.footer())
	return m.boxed(b.String())
}

// ClearError drops the inline validation error.
func (m *HomeModel) ClearError() {
	m.errText = ""
}

// MaxWords returns the current answer length budget.
func (m HomeModel) MaxWords() int {
	return m.maxWords
}

func (m HomeModel) renderSummary() string {
	var b strings.Builder
	if m.shared.SummaryDate != "" {
		b.WriteString(tui.DimStyle.Render("Latest meeting: " + m.shared.SummaryDate))
		b.WriteString("\n")
	}
	b.WriteString(m.shared.SummaryText)

	width := m.shared.Width - 12
	if width > 76 {
		width = 76
	}
	if width < 20 {
		width = 20
	}
	return tui.SummaryStyle.Width(width).Render(b.String())
}

func (m HomeModel) renderWordBudget() string {
	filled := (m.maxWords - config.MinWords) / config.WordsStep
	total := (config.MaxWords - config.MinWords) / config.WordsStep
	bar := strings.Repeat("━", filled) + strings.Repeat("┄", total-filled)
	return tui.DimStyle.Render(fmt.Sprintf("Answer budget: %4d words  %s", m.maxWords, bar))
}

func (m HomeModel) footer() string {
	hints := []string{"Tab: Meetings"}
	if m.shared.User == nil {
		hints = append(hints, "Ctrl+L: Sign in")
	} else {
		if m.shared.User.CanUpload() {
			hints = append(hints, "Ctrl+U: Upload")
		}
		hints = append(hints, "Ctrl+D: Sign out")
	}
	hints = append(hints, "Ctrl+C: Exit")
	return tui.DimStyle.Render(strings.Join(hints, "       "))
}

func (m HomeModel) boxed(content string) string {
	const maxBoxWidth = 84
	boxWidth := maxBoxWidth
	if m.shared.Width-4 < boxWidth {
		boxWidth = m.shared.Width - 4
	}
	return tui.BoxStyle.Width(boxWidth).Render(content)
}

// renderResult renders the last query result: meeting date, answer and the
// retrieved sources with their relevance as a percentage.
func renderResult(r *api.QueryResult) string {
	var b strings.Builder

	if r.MeetingDate != "" {
		b.WriteString(tui.DimStyle.Render("Answered from minutes of " + r.MeetingDate))
		b.WriteString("\n")
	}
	b.WriteString(r.Answer)
	b.WriteString("\n")

	if len(r.Sources) > 0 {
		b.WriteString("\n")
		b.WriteString(tui.DimStyle.Render(fmt.Sprintf("Sources (%d):", r.SourcesCount)))
		b.WriteString("\n")
		b.WriteString(renderSources(r.Sources))
	}

	return lipgloss.NewStyle().PaddingLeft(1).Render(b.String())
}

// renderSources renders one line per source, newest relevance first as the
// server orders them, with score*100 formatted to one decimal place.
func renderSources(sources []api.Source) string {
	var b strings.Builder
	for i, s := range sources {
		text := s.Text
		if len(text) > 120 {
			text = text[:117] + "..."
		}
		b.WriteString(fmt.Sprintf("  %d. [%.1f%%] %s", i+1, s.Score*100, text))
		if i < len(sources)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
