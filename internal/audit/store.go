// Package audit keeps an append-only log of committed annotation
// transitions. The log is advisory: recording failures must never block
// or undo the user's action.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is one committed transition.
type Event struct {
	ID        string
	SessionID string
	Annotator string
	FilePath  string
	Action    string
	From      string
	To        string
	CreatedAt time.Time
}

// Store writes events to sqlite.
type Store struct {
	db *sql.DB
}

// Open migrates and opens the event log.
func Open(path, migrationsPath string) (*Store, error) {
	if err := runMigrations(path, migrationsPath); err != nil {
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Record appends one event, filling ID and CreatedAt when absent.
func (s *Store) Record(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO events(id, session_id, annotator, file_path, action, prev_annotation, new_annotation, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?);
	`, e.ID, e.SessionID, e.Annotator, e.FilePath, e.Action, e.From, e.To, e.CreatedAt)
	return err
}

// BySession lists a session's events oldest first.
func (s *Store) BySession(ctx context.Context, sessionID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, session_id, annotator, file_path, action, prev_annotation, new_annotation, created_at
	FROM events WHERE session_id = ? ORDER BY created_at, id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Annotator, &e.FilePath, &e.Action, &e.From, &e.To, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountByAnnotator counts an annotator's events across all sessions.
func (s *Store) CountByAnnotator(ctx context.Context, annotator string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE annotator = ?`, annotator).Scan(&n)
	return n, err
}
