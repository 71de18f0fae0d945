package session

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store provides SQLite-backed persistence for the login session.
type Store struct {
	db *sql.DB
}

// NewStore opens the SQLite database at dbPath and creates tables if they don't exist.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		role TEXT NOT NULL,
		token TEXT NOT NULL,
		server_url TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Save records a fresh login, replacing any previous session. There is at
// most one live session per store.
func (s *Store) Save(username, role, token, serverURL string) (*Session, error) {
	if _, err := s.db.Exec(`DELETE FROM sessions`); err != nil {
		return nil, fmt.Errorf("clear previous sessions: %w", err)
	}

	id := uuid.New().String()
	now := time.Now()

	_, err := s.db.Exec(
		`INSERT INTO sessions (id, username, role, token, server_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, username, role, token, serverURL, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return &Session{
		ID:        id,
		Username:  username,
		Role:      role,
		Token:     token,
		ServerURL: serverURL,
		CreatedAt: now,
	}, nil
}

// Current returns the live session, or nil when no one is logged in.
func (s *Store) Current() (*Session, error) {
	row := s.db.QueryRow(
		`SELECT id, username, role, token, server_url, created_at
		 FROM sessions ORDER BY created_at DESC LIMIT 1`,
	)

	var sess Session
	err := row.Scan(&sess.ID, &sess.Username, &sess.Role, &sess.Token, &sess.ServerURL, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	return &sess, nil
}

// Token returns the live bearer token, or the empty string when logged out.
// Authenticated flows read the token through here at call time so storage
// stays the single source of truth.
func (s *Store) Token() (string, error) {
	sess, err := s.Current()
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", nil
	}
	return sess.Token, nil
}

// Clear removes the persisted session. Logout is purely local; no server
// call is made.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	return nil
}
