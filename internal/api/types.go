// Package api implements the HTTP client for the meeting-minutes service.
package api

// Summary is the public latest-summary payload from /summary/latest.
type Summary struct {
	MeetingDate string `json:"meeting_date,omitempty"`
	Summary     string `json:"summary"`
}

// Profile is the authenticated user profile from /auth/me.
type Profile struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Roles reported by the server. Upload is offered to admin and secretary;
// the server enforces the actual permission check.
const (
	RoleAdmin     = "admin"
	RoleSecretary = "secretary"
	RoleUser      = "user"
)

// CanUpload reports whether the profile's role is offered the upload flow.
func (p Profile) CanUpload() bool {
	return p.Role == RoleAdmin || p.Role == RoleSecretary
}

// LoginResult is the payload from /auth/login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
}

// RegisterResult is the payload from /auth/register.
type RegisterResult struct {
	Message string `json:"message"`
	UserID  int    `json:"user_id"`
}

// Meeting is a single entry in the /meetings listing. Date and UploadedAt
// are the server's display strings and are rendered as-is.
type Meeting struct {
	ID         int    `json:"id"`
	Date       string `json:"date"`
	Filename   string `json:"filename"`
	UploadedAt string `json:"uploaded_at"`
}

// Source is one retrieved chunk backing a query answer.
type Source struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// QueryResult is the payload from /query.
type QueryResult struct {
	MeetingDate  string   `json:"meeting_date"`
	Answer       string   `json:"answer"`
	SourcesCount int      `json:"sources_count"`
	Sources      []Source `json:"sources"`
}

// UploadResult is the payload from /upload.
type UploadResult struct {
	Message     string `json:"message"`
	MeetingID   int    `json:"meeting_id"`
	MeetingDate string `json:"meeting_date"`
	TotalChunks int    `json:"total_chunks"`
	Summary     string `json:"summary"`
}

// QueryLogEntry is one row from /admin/query-logs.
type QueryLogEntry struct {
	UserID             int    `json:"user_id"`
	Query              string `json:"query"`
	Timestamp          string `json:"timestamp"`
	MeetingDateQueried string `json:"meeting_date_queried,omitempty"`
}
