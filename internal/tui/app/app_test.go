package app

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gavel-dev/gavel/internal/api"
	"github.com/gavel-dev/gavel/internal/config"
	"github.com/gavel-dev/gavel/internal/log"
	"github.com/gavel-dev/gavel/internal/session"
	"github.com/gavel-dev/gavel/internal/testutil"
	"github.com/gavel-dev/gavel/internal/tui"
	"github.com/gavel-dev/gavel/internal/tui/views"
)

func newTestApp(t *testing.T) (*App, *testutil.FakeService, *session.Store) {
	t.Helper()

	fake := testutil.NewFakeService(t)
	client := api.NewClient(fake.URL(), 5*time.Second)

	store, err := session.NewStore(filepath.Join(t.TempDir(), "gavel.db"))
	if err != nil {
		t.Fatalf("opening session store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger, err := log.NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("opening logger: %v", err)
	}

	return New(config.DefaultConfig(), client, store, logger), fake, store
}

// runCmd executes cmd and returns every message it produces, recursing into
// batches. Tick-based commands block until they fire.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// findMsg returns the first produced message for which match returns true.
func findMsg(t *testing.T, msgs []tea.Msg, match func(tea.Msg) bool) tea.Msg {
	t.Helper()
	for _, m := range msgs {
		if match(m) {
			return m
		}
	}
	t.Fatalf("expected message not produced; got %d messages", len(msgs))
	return nil
}

func signIn(t *testing.T, a *App) {
	t.Helper()

	_, cmd := a.Update(views.LoginSubmitMsg{Username: "clerk", Password: "hunter2"})
	msgs := runCmd(cmd)
	result := findMsg(t, msgs, func(m tea.Msg) bool {
		_, ok := m.(tui.LoginResultMsg)
		return ok
	}).(tui.LoginResultMsg)
	if result.Err != nil {
		t.Fatalf("sign in failed: %v", result.Err)
	}

	_, cmd = a.Update(result)
	msgs = runCmd(cmd)
	meetings := findMsg(t, msgs, func(m tea.Msg) bool {
		_, ok := m.(tui.MeetingsLoadedMsg)
		return ok
	}).(tui.MeetingsLoadedMsg)
	a.Update(meetings)
}

func TestStartupFetchesSummaryAndStaysPublic(t *testing.T) {
	a, fake, _ := newTestApp(t)

	msgs := runCmd(a.Init())
	summary := findMsg(t, msgs, func(m tea.Msg) bool {
		_, ok := m.(tui.SummaryLoadedMsg)
		return ok
	}).(tui.SummaryLoadedMsg)
	a.Update(summary)

	if a.Model().SummaryText != "The board approved the budget." {
		t.Errorf("summary text: got %q", a.Model().SummaryText)
	}
	if a.Model().User != nil {
		t.Error("no session was stored; user should be nil")
	}
	if fake.Calls("/summary/latest") != 1 {
		t.Errorf("summary fetched %d times, want 1", fake.Calls("/summary/latest"))
	}
}

func TestStartupRestoresPersistedSession(t *testing.T) {
	a, fake, store := newTestApp(t)
	if _, err := store.Save("clerk", "secretary", testutil.ValidToken, fake.URL()); err != nil {
		t.Fatalf("seeding session: %v", err)
	}

	msgs := runCmd(a.Init())
	restored := findMsg(t, msgs, func(m tea.Msg) bool {
		_, ok := m.(tui.SessionRestoredMsg)
		return ok
	}).(tui.SessionRestoredMsg)
	if restored.Profile == nil {
		t.Fatal("expected the stored token to restore a profile")
	}

	_, cmd := a.Update(restored)
	if a.Model().User == nil || a.Model().User.Username != "clerk" {
		t.Fatalf("user after restore: %+v", a.Model().User)
	}

	// Restoring a session triggers the meetings fetch.
	msgs = runCmd(cmd)
	meetings := findMsg(t, msgs, func(m tea.Msg) bool {
		_, ok := m.(tui.MeetingsLoadedMsg)
		return ok
	}).(tui.MeetingsLoadedMsg)
	a.Update(meetings)
	if len(a.Model().Meetings) != 2 {
		t.Errorf("meetings: got %d, want 2", len(a.Model().Meetings))
	}
}

func TestStartupDropsRejectedTokenSilently(t *testing.T) {
	a, fake, store := newTestApp(t)
	if _, err := store.Save("clerk", "secretary", "stale-token", fake.URL()); err != nil {
		t.Fatalf("seeding session: %v", err)
	}

	msgs := runCmd(a.Init())
	restored := findMsg(t, msgs, func(m tea.Msg) bool {
		_, ok := m.(tui.SessionRestoredMsg)
		return ok
	}).(tui.SessionRestoredMsg)
	if restored.Profile != nil {
		t.Fatal("rejected token must not restore a profile")
	}

	a.Update(restored)
	if a.Model().User != nil {
		t.Error("user should stay nil after rejection")
	}
	if a.Model().Err != nil {
		t.Errorf("rejection must be silent, got error %v", a.Model().Err)
	}

	token, err := store.Token()
	if err != nil {
		t.Fatalf("reading token: %v", err)
	}
	if token != "" {
		t.Errorf("rejected token should be cleared, got %q", token)
	}
}

func TestLoginPersistsTokenAndLoadsMeetings(t *testing.T) {
	a, fake, store := newTestApp(t)
	signIn(t, a)

	if a.Model().User == nil || a.Model().User.Username != "clerk" {
		t.Fatalf("user: %+v", a.Model().User)
	}
	if a.Model().Busy {
		t.Error("busy flag should be released after login")
	}
	token, err := store.Token()
	if err != nil {
		t.Fatalf("reading token: %v", err)
	}
	if token != testutil.ValidToken {
		t.Errorf("persisted token: got %q", token)
	}
	if got := a.Model().Meetings; len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
		t.Errorf("meetings in server order: got %+v", got)
	}
	if form := fake.LastForm("/auth/login"); form["username"] != "clerk" {
		t.Errorf("login form: got %+v", form)
	}
}

func TestLoginFailureShowsDetailAndKeepsViewOpen(t *testing.T) {
	a, _, store := newTestApp(t)

	// Open the login view, then submit bad credentials.
	a.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if a.Model().State != tui.StateLogin {
		t.Fatalf("state after ctrl+l: %v", a.Model().State)
	}

	_, cmd := a.Update(views.LoginSubmitMsg{Username: "clerk", Password: "wrong"})
	msgs := runCmd(cmd)
	result := findMsg(t, msgs, func(m tea.Msg) bool {
		_, ok := m.(tui.LoginResultMsg)
		return ok
	}).(tui.LoginResultMsg)
	if result.Err == nil {
		t.Fatal("expected a login error")
	}

	a.Update(result)
	if a.Model().State != tui.StateLogin {
		t.Error("login view should stay open after a failure")
	}
	if a.Model().User != nil {
		t.Error("user should stay nil after a failure")
	}
	if !strings.Contains(a.View(), "bad credentials") {
		t.Error("server detail not rendered")
	}

	token, err := store.Token()
	if err != nil {
		t.Fatalf("reading token: %v", err)
	}
	if token != "" {
		t.Errorf("no token should be persisted, got %q", token)
	}
}

func TestLogoutClearsDerivedStateAndToken(t *testing.T) {
	a, _, store := newTestApp(t)
	signIn(t, a)

	// Give the model a query result to clear.
	_, cmd := a.Update(views.SubmitQueryMsg{Query: "what was decided?", MaxWords: 300})
	result := findMsg(t, runCmd(cmd), func(m tea.Msg) bool {
		_, ok := m.(tui.QueryResultMsg)
		return ok
	}).(tui.QueryResultMsg)
	a.Update(result)
	if a.Model().Result == nil {
		t.Fatal("query result not recorded")
	}

	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if a.Model().User != nil {
		t.Error("user should be cleared on logout")
	}
	if a.Model().Result != nil {
		t.Error("query result should be cleared on logout")
	}
	if len(a.Model().Meetings) != 0 {
		t.Error("meetings should be cleared on logout")
	}

	findMsg(t, runCmd(cmd), func(m tea.Msg) bool {
		_, ok := m.(tui.LoggedOutMsg)
		return ok
	})
	token, err := store.Token()
	if err != nil {
		t.Fatalf("reading token: %v", err)
	}
	if token != "" {
		t.Errorf("token should be removed, got %q", token)
	}
}

func TestBusyFlagBlocksConcurrentActions(t *testing.T) {
	a, fake, _ := newTestApp(t)
	signIn(t, a)

	_, first := a.Update(views.SubmitQueryMsg{Query: "first", MaxWords: 300})
	if first == nil {
		t.Fatal("expected the first submission to produce a command")
	}
	if !a.Model().Busy {
		t.Fatal("busy flag should be set while a query is in flight")
	}

	// A second query, an upload and a logout are all refused while busy.
	if _, cmd := a.Update(views.SubmitQueryMsg{Query: "second", MaxWords: 300}); cmd != nil {
		t.Error("second query should be blocked")
	}
	if _, cmd := a.Update(views.UploadSubmitMsg{Path: "x.pdf"}); cmd != nil {
		t.Error("upload should be blocked")
	}
	a.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if a.Model().User == nil {
		t.Error("logout should be blocked while busy")
	}

	result := findMsg(t, runCmd(first), func(m tea.Msg) bool {
		_, ok := m.(tui.QueryResultMsg)
		return ok
	}).(tui.QueryResultMsg)
	a.Update(result)
	if a.Model().Busy {
		t.Error("busy flag should be released once the result lands")
	}
	if fake.Calls("/query") != 1 {
		t.Errorf("query issued %d times, want 1", fake.Calls("/query"))
	}
}

func TestQueryFailureKeepsPriorResult(t *testing.T) {
	a, fake, _ := newTestApp(t)
	signIn(t, a)

	_, cmd := a.Update(views.SubmitQueryMsg{Query: "what was decided?", MaxWords: 300})
	result := findMsg(t, runCmd(cmd), func(m tea.Msg) bool {
		_, ok := m.(tui.QueryResultMsg)
		return ok
	}).(tui.QueryResultMsg)
	a.Update(result)
	prior := a.Model().Result
	if prior == nil {
		t.Fatal("expected a first result")
	}

	fake.FailQueries("model overloaded")
	_, cmd = a.Update(views.SubmitQueryMsg{Query: "again?", MaxWords: 300})
	failed := findMsg(t, runCmd(cmd), func(m tea.Msg) bool {
		_, ok := m.(tui.QueryResultMsg)
		return ok
	}).(tui.QueryResultMsg)
	if failed.Err == nil {
		t.Fatal("expected the second query to fail")
	}

	a.Update(failed)
	if a.Model().Result != prior {
		t.Error("failed query must not replace the prior result")
	}
	if a.Model().Err == nil || !strings.Contains(a.Model().Err.Error(), "model overloaded") {
		t.Errorf("error detail: got %v", a.Model().Err)
	}
}

func TestUploadSuccessRefreshesAndCloses(t *testing.T) {
	a, fake, _ := newTestApp(t)
	signIn(t, a)
	baseSummary := fake.Calls("/summary/latest")
	baseMeetings := fake.Calls("/meetings")

	a.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	if a.Model().State != tui.StateUpload {
		t.Fatalf("state after ctrl+u: %v", a.Model().State)
	}

	path := testutil.PDFPath(t, "september.pdf")
	_, cmd := a.Update(views.UploadSubmitMsg{Path: path})
	result := findMsg(t, runCmd(cmd), func(m tea.Msg) bool {
		_, ok := m.(tui.UploadResultMsg)
		return ok
	}).(tui.UploadResultMsg)
	if result.Err != nil {
		t.Fatalf("upload failed: %v", result.Err)
	}
	if fake.LastFile() != "september.pdf" {
		t.Errorf("uploaded filename: got %q", fake.LastFile())
	}

	// Success triggers exactly one summary refresh, one meetings refresh and
	// the delayed close. Running the batch waits out the close tick.
	_, cmd = a.Update(result)
	msgs := runCmd(cmd)
	if got := fake.Calls("/summary/latest") - baseSummary; got != 1 {
		t.Errorf("summary refreshed %d times, want 1", got)
	}
	if got := fake.Calls("/meetings") - baseMeetings; got != 1 {
		t.Errorf("meetings refreshed %d times, want 1", got)
	}

	closeMsg := findMsg(t, msgs, func(m tea.Msg) bool {
		_, ok := m.(tui.UploadCloseMsg)
		return ok
	}).(tui.UploadCloseMsg)
	a.Update(closeMsg)
	if a.Model().State != tui.StateHome {
		t.Errorf("state after close: %v", a.Model().State)
	}
	if a.Model().Busy {
		t.Error("busy flag should be released")
	}
}

func TestCancelledUploadDropsLateResponse(t *testing.T) {
	a, _, _ := newTestApp(t)
	signIn(t, a)

	a.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	gen := a.Model().UploadGen

	// The user cancels while the (unstarted here) request is in flight.
	a.Update(views.UploadCancelMsg{})
	if a.Model().State != tui.StateHome {
		t.Fatalf("state after cancel: %v", a.Model().State)
	}
	if a.Model().UploadGen == gen {
		t.Fatal("cancel should bump the upload generation")
	}

	// The late response carries the old generation and must be dropped.
	_, cmd := a.Update(tui.UploadResultMsg{
		Result: &api.UploadResult{MeetingDate: "Monday 7th September, 2026"},
		Gen:    gen,
	})
	if cmd != nil {
		t.Error("a stale upload result must not trigger refreshes")
	}
	if a.Model().State != tui.StateHome {
		t.Errorf("state after stale result: %v", a.Model().State)
	}
}

func TestMeetingsTabRequiresAuthAndData(t *testing.T) {
	a, _, _ := newTestApp(t)

	// Unauthenticated: tab is inert.
	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	if a.Model().State != tui.StateHome {
		t.Fatalf("tab while logged out changed state to %v", a.Model().State)
	}

	signIn(t, a)

	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	if a.Model().State != tui.StateMeetings {
		t.Fatalf("state after tab: %v", a.Model().State)
	}
	if a.Model().ActiveTab != tui.TabMeetings {
		t.Errorf("active tab: %v", a.Model().ActiveTab)
	}

	a.Update(tea.KeyMsg{Type: tea.KeyTab})
	if a.Model().State != tui.StateHome {
		t.Errorf("state after second tab: %v", a.Model().State)
	}
}

func TestMeetingsFetchFailureIsSilent(t *testing.T) {
	a, _, _ := newTestApp(t)
	signIn(t, a)
	before := a.Model().Meetings

	a.Update(tui.MeetingsLoadedMsg{Err: &api.Error{Status: 500}})
	if len(a.Model().Meetings) != len(before) {
		t.Error("a failed refresh must leave the list untouched")
	}
	if a.Model().Err != nil {
		t.Errorf("failure must be silent, got %v", a.Model().Err)
	}
}

func TestSummaryFallbackOnFetchError(t *testing.T) {
	a, _, _ := newTestApp(t)

	a.Update(tui.SummaryLoadedMsg{Err: &api.Error{Status: 502}})
	if a.Model().SummaryText != tui.SummaryFallback {
		t.Errorf("summary text: got %q", a.Model().SummaryText)
	}
	if a.Model().SummaryDate != "" {
		t.Errorf("summary date should be blank, got %q", a.Model().SummaryDate)
	}
}
