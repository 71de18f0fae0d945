package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gavel-dev/gavel/internal/api"
	"github.com/gavel-dev/gavel/internal/config"
	"github.com/gavel-dev/gavel/internal/tui"
)

func authedModel() *tui.Model {
	m := tui.NewModel(config.DefaultConfig(), nil, nil, nil)
	m.User = &api.Profile{ID: 1, Username: "clerk", Role: api.RoleSecretary}
	return m
}

func keyEnter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }
func keyEsc() tea.KeyMsg   { return tea.KeyMsg{Type: tea.KeyEsc} }

// ============================================================================
// Home
// ============================================================================

func TestHomeBlocksEmptyQuery(t *testing.T) {
	for _, value := range []string{"", "   ", "\t "} {
		m := NewHomeModel(authedModel())
		m.question.SetValue(value)

		updated, cmd := m.Update(keyEnter())
		if cmd != nil {
			t.Errorf("value %q: expected no command, got one", value)
		}
		if updated.errText == "" {
			t.Errorf("value %q: expected an inline error", value)
		}
	}
}

func TestHomeSubmitsTrimmedQuery(t *testing.T) {
	m := NewHomeModel(authedModel())
	m.question.SetValue("  what was decided?  ")

	updated, cmd := m.Update(keyEnter())
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	if updated.errText != "" {
		t.Errorf("unexpected inline error: %q", updated.errText)
	}

	msg, ok := cmd().(SubmitQueryMsg)
	if !ok {
		t.Fatalf("expected SubmitQueryMsg, got %T", cmd())
	}
	if msg.Query != "what was decided?" {
		t.Errorf("query: got %q", msg.Query)
	}
	if msg.MaxWords != 300 {
		t.Errorf("max words: got %d, want config default 300", msg.MaxWords)
	}
}

func TestHomeWordBudgetSteps(t *testing.T) {
	m := NewHomeModel(authedModel())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.MaxWords() != 350 {
		t.Errorf("after up: got %d, want 350", m.MaxWords())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.MaxWords() != 250 {
		t.Errorf("after two downs: got %d, want 250", m.MaxWords())
	}

	// Clamp at the lower bound.
	for i := 0; i < 20; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.MaxWords() != config.MinWords {
		t.Errorf("lower clamp: got %d, want %d", m.MaxWords(), config.MinWords)
	}

	// Clamp at the upper bound.
	for i := 0; i < 40; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	}
	if m.MaxWords() != config.MaxWords {
		t.Errorf("upper clamp: got %d, want %d", m.MaxWords(), config.MaxWords)
	}
}

func TestHomeBusyBlocksSubmission(t *testing.T) {
	shared := authedModel()
	shared.Busy = true

	m := NewHomeModel(shared)
	m.question.SetValue("what was decided?")

	if _, cmd := m.Update(keyEnter()); cmd != nil {
		t.Error("busy flag should block submission")
	}
}

func TestRenderSourcesScoreFormatting(t *testing.T) {
	out := renderSources([]api.Source{
		{Text: "Motion carried.", Score: 0.873},
		{Text: "All in favour.", Score: 0.651},
	})

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("rendered %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "[87.3%]") {
		t.Errorf("first line missing formatted score: %q", lines[0])
	}
	if !strings.Contains(lines[1], "[65.1%]") {
		t.Errorf("second line missing formatted score: %q", lines[1])
	}
}

// ============================================================================
// Login
// ============================================================================

func TestLoginBlocksEmptyFields(t *testing.T) {
	m := NewLoginModel(80, 24)

	// Enter on the username field moves focus; enter on the empty password
	// field must block without emitting a submit.
	m, _ = m.Update(keyEnter())
	m, cmd := m.Update(keyEnter())
	if cmd != nil {
		t.Error("expected empty submission to be blocked")
	}
	if m.errText == "" {
		t.Error("expected an inline error")
	}
}

func TestLoginSubmitsCredentials(t *testing.T) {
	m := NewLoginModel(80, 24)
	m.username.SetValue("clerk")
	m.setFocus(1)
	m.password.SetValue("hunter2")

	_, cmd := m.Update(keyEnter())
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	msg, ok := cmd().(LoginSubmitMsg)
	if !ok {
		t.Fatalf("expected LoginSubmitMsg, got %T", cmd())
	}
	if msg.Username != "clerk" || msg.Password != "hunter2" {
		t.Errorf("credentials: got %+v", msg)
	}
}

func TestLoginPreservesFieldsAfterError(t *testing.T) {
	m := NewLoginModel(80, 24)
	m.username.SetValue("clerk")
	m.setFocus(1)
	m.password.SetValue("wrong")

	m.SetError("bad credentials")

	user, pass := m.Values()
	if user != "clerk" || pass != "wrong" {
		t.Errorf("fields not preserved: got %q/%q", user, pass)
	}
	if !strings.Contains(m.View(), "bad credentials") {
		t.Error("error detail not rendered")
	}
}

// ============================================================================
// Upload
// ============================================================================

func TestUploadRejectsNonPDF(t *testing.T) {
	m := NewUploadModel(80, 24)
	m.pathInput.SetValue("notes.txt")

	m, cmd := m.Update(keyEnter())
	if cmd != nil {
		t.Error("expected no command for a rejected selection")
	}
	if m.Selected() != "" {
		t.Errorf("selection should stay unset, got %q", m.Selected())
	}
	if m.pathInput.Value() != "" {
		t.Error("path input should be reset after rejection")
	}
	if m.errText == "" {
		t.Error("expected an inline error")
	}
}

func TestUploadSelectsThenSubmitsPDF(t *testing.T) {
	m := NewUploadModel(80, 24)
	m.pathInput.SetValue("minutes.pdf")

	m, _ = m.Update(keyEnter())
	if m.Selected() != "minutes.pdf" {
		t.Fatalf("selection: got %q", m.Selected())
	}

	_, cmd := m.Update(keyEnter())
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	msg, ok := cmd().(UploadSubmitMsg)
	if !ok {
		t.Fatalf("expected UploadSubmitMsg, got %T", cmd())
	}
	if msg.Path != "minutes.pdf" {
		t.Errorf("path: got %q", msg.Path)
	}
}

func TestUploadEscEmitsCancel(t *testing.T) {
	m := NewUploadModel(80, 24)

	_, cmd := m.Update(keyEsc())
	if cmd == nil {
		t.Fatal("expected a cancel command")
	}
	if _, ok := cmd().(UploadCancelMsg); !ok {
		t.Fatalf("expected UploadCancelMsg, got %T", cmd())
	}
}
