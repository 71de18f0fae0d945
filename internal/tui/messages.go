// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"github.com/gavel-dev/gavel/internal/api"
	"github.com/gavel-dev/gavel/internal/session"
)

// ============================================================================
// Mount-time Messages
// ============================================================================

// SummaryLoadedMsg carries the public latest summary, or the fetch error.
type SummaryLoadedMsg struct {
	Summary *api.Summary
	Err     error
}

// SessionRestoredMsg is the result of validating a persisted token on
// startup. Profile is nil when no token was stored or the server rejected
// it; rejection is silent toward the user.
type SessionRestoredMsg struct {
	Profile *api.Profile
}

// ============================================================================
// Login / Logout Messages
// ============================================================================

// LoginResultMsg carries the outcome of a login attempt. On success the
// token has already been persisted and the profile re-fetched.
type LoginResultMsg struct {
	Profile *api.Profile
	Session *session.Session
	Err     error
}

// LoggedOutMsg signals that the persisted session has been cleared.
type LoggedOutMsg struct{}

// ============================================================================
// Data Messages
// ============================================================================

// MeetingsLoadedMsg carries the refreshed meetings list. A fetch error
// leaves the list empty and is not surfaced to the user.
type MeetingsLoadedMsg struct {
	Meetings []api.Meeting
	Err      error
}

// QueryResultMsg carries the outcome of a query submission. On failure the
// prior result is left untouched.
type QueryResultMsg struct {
	Result *api.QueryResult
	Err    error
}

// ============================================================================
// Upload Messages
// ============================================================================

// UploadResultMsg carries the outcome of an upload. Gen identifies the
// upload view generation that issued the request; stale results are dropped.
type UploadResultMsg struct {
	Result *api.UploadResult
	Gen    int
	Err    error
}

// UploadCloseMsg fires after the post-success delay to close the upload
// view and clear its status.
type UploadCloseMsg struct {
	Gen int
}

// ============================================================================
// Utility Messages
// ============================================================================

// ErrorMsg is a generic error message for unrecoverable errors.
type ErrorMsg struct {
	Err error
}

// CtrlCResetMsg resets the Ctrl+C confirmation state after its timeout.
type CtrlCResetMsg struct{}
