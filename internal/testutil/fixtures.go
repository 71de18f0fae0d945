// Package testutil provides test helper utilities for gavel tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// ValidToken is the bearer token the fake service accepts.
const ValidToken = "tok-fixture-123"

// FakeService is an in-process stand-in for the meeting-minutes backend.
// It serves canned responses, enforces the bearer token, and records what
// was called with which form fields.
type FakeService struct {
	Server *httptest.Server

	mu        sync.Mutex
	calls     map[string]int
	lastForm  map[string]map[string]string
	lastFile  string
	loginFail bool
	queryFail string // non-empty: detail returned with status 500
}

// NewFakeService starts a fake backend. It is shut down when the test ends.
func NewFakeService(t *testing.T) *FakeService {
	t.Helper()

	f := &FakeService{
		calls:    make(map[string]int),
		lastForm: make(map[string]map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /summary/latest", func(w http.ResponseWriter, r *http.Request) {
		f.record(r, nil)
		writeJSON(w, http.StatusOK, map[string]any{
			"meeting_date": "Monday 3rd August, 2026",
			"summary":      "The board approved the budget.",
		})
	})

	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		f.record(r, nil)
		if !f.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 1, "username": "clerk", "email": "clerk@example.com", "role": "secretary",
		})
	})

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		fields := f.formFields(t, r)
		f.record(r, fields)
		if f.loginFail || fields["password"] != "hunter2" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "bad credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": ValidToken, "token_type": "bearer", "role": "secretary",
		})
	})

	mux.HandleFunc("GET /meetings", func(w http.ResponseWriter, r *http.Request) {
		f.record(r, nil)
		if !f.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"meetings": []map[string]any{
				{"id": 2, "date": "Monday 3rd August, 2026", "filename": "aug.pdf", "uploaded_at": "2026-08-04T09:00:00"},
				{"id": 1, "date": "Monday 6th July, 2026", "filename": "jul.pdf", "uploaded_at": "2026-07-07T09:00:00"},
			},
		})
	})

	mux.HandleFunc("POST /query", func(w http.ResponseWriter, r *http.Request) {
		fields := f.formFields(t, r)
		f.record(r, fields)
		if !f.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid token"})
			return
		}
		if detail := f.queryFailure(); detail != "" {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": detail})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"meeting_date":  "Monday 3rd August, 2026",
			"answer":        "The budget was approved unanimously.",
			"sources_count": 2,
			"sources": []map[string]any{
				{"text": "Motion to approve the 2026 budget carried.", "score": 0.873},
				{"text": "All members voted in favour.", "score": 0.651},
			},
		})
	})

	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		fields := f.formFields(t, r)
		f.record(r, fields)
		if !f.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":      "Meeting minutes uploaded successfully",
			"meeting_id":   3,
			"meeting_date": "Monday 7th September, 2026",
			"total_chunks": 12,
			"summary":      "New projects were discussed.",
		})
	})

	mux.HandleFunc("DELETE /meetings/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r, nil)
		if !f.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Meeting deleted successfully"})
	})

	mux.HandleFunc("GET /admin/query-logs", func(w http.ResponseWriter, r *http.Request) {
		f.record(r, nil)
		if !f.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"logs": []map[string]any{
				{"user_id": 1, "query": "what was decided?", "timestamp": "2026-08-04T10:00:00"},
			},
		})
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the fake service's base URL.
func (f *FakeService) URL() string {
	return f.Server.URL
}

// Calls returns how many times path was requested.
func (f *FakeService) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

// LastForm returns the multipart fields of the last request to path.
func (f *FakeService) LastForm(path string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastForm[path]
}

// LastFile returns the filename of the last uploaded file part.
func (f *FakeService) LastFile() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastFile
}

// FailLogins makes every subsequent login attempt fail.
func (f *FakeService) FailLogins() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginFail = true
}

// FailQueries makes every subsequent query fail with the given detail.
func (f *FakeService) FailQueries(detail string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryFail = detail
}

func (f *FakeService) queryFailure() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queryFail
}

func (f *FakeService) record(r *http.Request, fields map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := r.URL.Path
	f.calls[path]++
	if fields != nil {
		f.lastForm[path] = fields
	}
}

func (f *FakeService) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+ValidToken
}

// formFields parses a multipart body into its plain fields, recording the
// filename of a "file" part if one is present.
func (f *FakeService) formFields(t *testing.T, r *http.Request) map[string]string {
	t.Helper()

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parsing multipart form: %v", err)
	}

	fields := make(map[string]string)
	for name, values := range r.MultipartForm.Value {
		if len(values) > 0 {
			fields[name] = values[0]
		}
	}
	if files := r.MultipartForm.File["file"]; len(files) > 0 {
		f.mu.Lock()
		f.lastFile = files[0].Filename
		f.mu.Unlock()
	}
	return fields
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// PDFPath writes a minimal fake PDF into a temp dir and returns its path.
func PDFPath(t *testing.T, name string) string {
	t.Helper()
	if !strings.HasSuffix(name, ".pdf") {
		t.Fatalf("fixture name %q must end in .pdf", name)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake minutes"), 0644); err != nil {
		t.Fatalf("writing fixture pdf: %v", err)
	}
	return path
}
