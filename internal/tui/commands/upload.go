// Package commands provides Bubble Tea commands for TUI operations.
package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gavel-dev/gavel/internal/api"
	"github.com/gavel-dev/gavel/internal/log"
	"github.com/gavel-dev/gavel/internal/session"
	"github.com/gavel-dev/gavel/internal/tui"
)

// UploadCloseDelay is how long a success status stays visible before the
// upload view auto-closes.
const UploadCloseDelay = 2 * time.Second

// UploadCmd sends the selected PDF to the service. gen tags the result with
// the issuing upload view's generation so a response arriving after cancel
// is dropped.
func UploadCmd(client *api.Client, store *session.Store, logger *log.Logger, path string, gen int) tea.Cmd {
	return func() tea.Msg {
		token, err := store.Token()
		if err != nil {
			return tui.UploadResultMsg{Gen: gen, Err: err}
		}

		f, err := os.Open(path)
		if err != nil {
			return tui.UploadResultMsg{Gen: gen, Err: fmt.Errorf("opening %s: %w", path, err)}
		}
		defer f.Close()

		result, err := client.Upload(context.Background(), token, path, f)
		if err != nil {
			if logger != nil {
				_ = logger.Append(log.LogEvent{
					Event:    log.EventUploadFailed,
					Filename: path,
					Error:    err.Error(),
				})
			}
			return tui.UploadResultMsg{Gen: gen, Err: err}
		}

		if logger != nil {
			_ = logger.Append(log.LogEvent{
				Event:       log.EventUploadCompleted,
				Filename:    path,
				MeetingID:   result.MeetingID,
				MeetingDate: result.MeetingDate,
			})
		}
		return tui.UploadResultMsg{Result: result, Gen: gen}
	}
}

// CloseUploadCmd schedules the post-success auto-close of the upload view.
func CloseUploadCmd(gen int) tea.Cmd {
	return tea.Tick(UploadCloseDelay, func(time.Time) tea.Msg {
		return tui.UploadCloseMsg{Gen: gen}
	})
}
