package session

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "gavel.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndCurrent(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.Save("clerk", "secretary", "tok-1", "http://localhost:8000")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if sess.ID == "" {
		t.Error("expected a generated session id")
	}

	got, err := store.Current()
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a live session")
	}
	if got.Username != "clerk" || got.Role != "secretary" || got.Token != "tok-1" {
		t.Errorf("session: got %+v", got)
	}
}

func TestSaveReplacesPreviousSession(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save("clerk", "secretary", "tok-1", "http://localhost:8000"); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if _, err := store.Save("chair", "admin", "tok-2", "http://localhost:8000"); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	token, err := store.Token()
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "tok-2" {
		t.Errorf("token: got %q, want tok-2", token)
	}
}

func TestTokenWhenLoggedOut(t *testing.T) {
	store := newTestStore(t)

	token, err := store.Token()
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "" {
		t.Errorf("token: got %q, want empty", token)
	}

	sess, err := store.Current()
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil session, got %+v", sess)
	}
}

func TestClearRemovesSession(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save("clerk", "secretary", "tok-1", "http://localhost:8000"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	token, err := store.Token()
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "" {
		t.Errorf("token survives Clear: got %q", token)
	}
}
