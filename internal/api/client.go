// Package api implements the HTTP client for the meeting-minutes service.
// This file provides the client for calling the service with timeouts.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Error is a failed response from the service. Detail carries the server's
// human-readable message when the body held one.
type Error struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// errorBody is the failure shape the service returns on every endpoint.
type errorBody struct {
	Detail string `json:"detail"`
}

// Client communicates with the meeting-minutes service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the service at baseURL. Every request is
// bounded by timeout so a stalled call cannot wedge the caller.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured service endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LatestSummary fetches the public latest meeting summary. No auth.
func (c *Client) LatestSummary(ctx context.Context) (*Summary, error) {
	var out Summary
	if err := c.get(ctx, "/summary/latest", "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me exchanges the bearer token for the current user profile.
func (c *Client) Me(ctx context.Context, token string) (*Profile, error) {
	var out Profile
	if err := c.get(ctx, "/auth/me", token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login submits credentials and returns the issued bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	fields := map[string]string{
		"username": username,
		"password": password,
	}
	var out LoginResult
	if err := c.postForm(ctx, "/auth/login", "", fields, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new user account. Role must be admin, secretary or user.
func (c *Client) Register(ctx context.Context, username, email, password, role string) (*RegisterResult, error) {
	fields := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
		"role":     role,
	}
	var out RegisterResult
	if err := c.postForm(ctx, "/auth/register", "", fields, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Meetings lists all uploaded meetings in the server's display order.
func (c *Client) Meetings(ctx context.Context, token string) ([]Meeting, error) {
	var out struct {
		Meetings []Meeting `json:"meetings"`
	}
	if err := c.get(ctx, "/meetings", token, &out); err != nil {
		return nil, err
	}
	return out.Meetings, nil
}

// Query asks a question against the indexed minutes. maxWords bounds the
// answer length and must be within the range the service accepts.
func (c *Client) Query(ctx context.Context, token, query string, maxWords int) (*QueryResult, error) {
	fields := map[string]string{
		"query":     query,
		"max_words": strconv.Itoa(maxWords),
	}
	var out QueryResult
	if err := c.postForm(ctx, "/query", token, fields, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upload sends a PDF of meeting minutes for ingestion. filename is used for
// the multipart part; file supplies the bytes.
func (c *Client) Upload(ctx context.Context, token, filename string, file io.Reader) (*UploadResult, error) {
	var out UploadResult
	if err := c.postForm(ctx, "/upload", token, nil, file, filepath.Base(filename), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMeeting removes a meeting and its index. Admin only.
func (c *Client) DeleteMeeting(ctx context.Context, token string, id int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/meetings/"+strconv.Itoa(id), nil)
	if err != nil {
		return fmt.Errorf("api: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return c.do(req, nil)
}

// QueryLogs returns the most recent query-log entries. Admin only.
func (c *Client) QueryLogs(ctx context.Context, token string, limit int) ([]QueryLogEntry, error) {
	path := "/admin/query-logs"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out struct {
		Logs []QueryLogEntry `json:"logs"`
	}
	if err := c.get(ctx, path, token, &out); err != nil {
		return nil, err
	}
	return out.Logs, nil
}

// get issues an authenticated (or anonymous, when token is empty) GET and
// unmarshals the response into result.
func (c *Client) get(ctx context.Context, path, token string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("api: building request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req, result)
}

// postForm issues a multipart POST carrying fields and, when file is
// non-nil, a "file" part named filename.
func (c *Client) postForm(ctx context.Context, path, token string, fields map[string]string, file io.Reader, filename string, result any) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("api: writing form field %q: %w", name, err)
		}
	}
	if file != nil {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			return fmt.Errorf("api: creating file part: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return fmt.Errorf("api: copying file contents: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("api: finalizing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return fmt.Errorf("api: building request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req, result)
}

// do executes the request, maps non-2xx responses to *Error, and
// unmarshals a successful body into result when result is non-nil.
func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			apiErr.Detail = eb.Detail
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("api: unmarshalling response: %w", err)
		}
	}
	return nil
}
