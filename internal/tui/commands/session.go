// Package commands provides Bubble Tea commands for TUI operations.
package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gavel-dev/gavel/internal/api"
	"github.com/gavel-dev/gavel/internal/log"
	"github.com/gavel-dev/gavel/internal/session"
	"github.com/gavel-dev/gavel/internal/tui"
)

// RestoreSessionCmd validates the persisted token on startup. A rejected or
// missing token yields an unauthenticated SessionRestoredMsg with no
// user-visible error; rejection clears the stale token from the store.
func RestoreSessionCmd(client *api.Client, store *session.Store, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		sess, err := store.Current()
		if err != nil || sess == nil {
			return tui.SessionRestoredMsg{}
		}

		profile, err := client.Me(context.Background(), sess.Token)
		if err != nil {
			_ = store.Clear()
			if logger != nil {
				_ = logger.Append(log.LogEvent{
					Event:    log.EventTokenRejected,
					Username: sess.Username,
					Error:    err.Error(),
				})
			}
			return tui.SessionRestoredMsg{}
		}

		return tui.SessionRestoredMsg{Profile: profile}
	}
}

// LoginCmd submits credentials. On success the token is persisted and the
// profile is immediately re-fetched to populate user state, mirroring the
// startup validation path.
func LoginCmd(client *api.Client, store *session.Store, logger *log.Logger, username, password string) tea.Cmd {
	return func() tea.Msg {
		res, err := client.Login(context.Background(), username, password)
		if err != nil {
			if logger != nil {
				_ = logger.Append(log.LogEvent{
					Event:    log.EventLoginFailed,
					Username: username,
					Error:    err.Error(),
				})
			}
			return tui.LoginResultMsg{Err: err}
		}

		profile, err := client.Me(context.Background(), res.AccessToken)
		if err != nil {
			return tui.LoginResultMsg{Err: err}
		}

		sess, err := store.Save(profile.Username, profile.Role, res.AccessToken, client.BaseURL())
		if err != nil {
			return tui.LoginResultMsg{Err: err}
		}

		if logger != nil {
			_ = logger.Append(log.LogEvent{
				Event:    log.EventLoginSucceeded,
				Username: profile.Username,
				Role:     profile.Role,
			})
		}
		return tui.LoginResultMsg{Profile: profile, Session: sess}
	}
}

// LogoutCmd clears the persisted session. Purely local; no server call.
func LogoutCmd(store *session.Store, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		_ = store.Clear()
		if logger != nil {
			_ = logger.Append(log.LogEvent{Event: log.EventLogout})
		}
		return tui.LoggedOutMsg{}
	}
}
