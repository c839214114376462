// Package sqlite provides a SQLite-backed SessionStore for single-node
// deployments that want sessions to survive restarts without running a
// database server.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sajalsharma/saj-assistant/assistant"
	"github.com/sajalsharma/saj-assistant/store"
)

// SessionStore persists turns in a local SQLite database.
type SessionStore struct {
	db *sql.DB
}

var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore opens (or creates) the database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func NewSessionStore(path string) (*SessionStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	s := &SessionStore{db: db}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SessionStore) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS session_turns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS session_turns_session_id_idx
			ON session_turns (session_id, id);
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Append inserts turns in order.
func (s *SessionStore) Append(ctx context.Context, sessionID string, turns ...assistant.Turn) error {
	for _, turn := range turns {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO session_turns (session_id, role, content) VALUES (?, ?, ?)`,
			sessionID, string(turn.Role), turn.Content,
		)
		if err != nil {
			return fmt.Errorf("failed to insert turn: %w", err)
		}
	}
	return nil
}

// History returns the session's turns, oldest first.
func (s *SessionStore) History(ctx context.Context, sessionID string) ([]assistant.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM session_turns WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	defer rows.Close()

	var turns []assistant.Turn
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, assistant.Turn{Role: assistant.Role(role), Content: content})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session rows: %w", err)
	}
	return turns, nil
}

// Clear deletes the session's turns.
func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_turns WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SessionStore) Close() error {
	return s.db.Close()
}
