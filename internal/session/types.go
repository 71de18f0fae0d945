// Package session persists the authenticated session across runs.
package session

import "time"

// Session is one persisted login. The newest row is the live session; the
// token it carries is sent as the bearer credential on authenticated calls.
type Session struct {
	ID        string
	Username  string
	Role      string
	Token     string
	ServerURL string
	CreatedAt time.Time
}
