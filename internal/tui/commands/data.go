// Package commands provides Bubble Tea commands for TUI operations.
package commands

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gavel-dev/gavel/internal/api"
	"github.com/gavel-dev/gavel/internal/log"
	"github.com/gavel-dev/gavel/internal/session"
	"github.com/gavel-dev/gavel/internal/tui"
)

// errNoSession marks a guarded fetch that ran with no live session.
var errNoSession = errors.New("no live session")

// FetchSummaryCmd fetches the public latest summary. Fired on mount and
// again after each successful upload, regardless of auth state.
func FetchSummaryCmd(client *api.Client, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		summary, err := client.LatestSummary(context.Background())
		if err != nil {
			if logger != nil {
				_ = logger.Append(log.LogEvent{
					Event: log.EventSummaryFailed,
					Error: err.Error(),
				})
			}
			return tui.SummaryLoadedMsg{Err: err}
		}
		return tui.SummaryLoadedMsg{Summary: summary}
	}
}

// FetchMeetingsCmd fetches the meetings list for the live session. The
// bearer token is read fresh from the store at call time. A failure leaves
// the list empty and is not surfaced to the user.
func FetchMeetingsCmd(client *api.Client, store *session.Store, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		token, err := store.Token()
		if err != nil {
			return tui.MeetingsLoadedMsg{Err: err}
		}
		if token == "" {
			// Logged out between scheduling and running; nothing to fetch.
			return tui.MeetingsLoadedMsg{Err: errNoSession}
		}

		meetings, err := client.Meetings(context.Background(), token)
		if err != nil {
			if logger != nil {
				_ = logger.Append(log.LogEvent{
					Event: log.EventMeetingsFailed,
					Error: err.Error(),
				})
			}
			return tui.MeetingsLoadedMsg{Err: err}
		}
		return tui.MeetingsLoadedMsg{Meetings: meetings}
	}
}

// SubmitQueryCmd asks a question against the indexed minutes. The bearer
// token is read fresh from the store at call time.
func SubmitQueryCmd(client *api.Client, store *session.Store, logger *log.Logger, query string, maxWords int) tea.Cmd {
	return func() tea.Msg {
		token, err := store.Token()
		if err != nil {
			return tui.QueryResultMsg{Err: err}
		}

		if logger != nil {
			_ = logger.Append(log.LogEvent{
				Event:    log.EventQuerySubmitted,
				Query:    query,
				MaxWords: maxWords,
			})
		}

		result, err := client.Query(context.Background(), token, query, maxWords)
		if err != nil {
			if logger != nil {
				_ = logger.Append(log.LogEvent{
					Event: log.EventQueryFailed,
					Query: query,
					Error: err.Error(),
				})
			}
			return tui.QueryResultMsg{Err: err}
		}
		return tui.QueryResultMsg{Result: result}
	}
}
