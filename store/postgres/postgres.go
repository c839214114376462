// Package postgres provides a PostgreSQL-backed SessionStore using pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sajalsharma/saj-assistant/assistant"
	"github.com/sajalsharma/saj-assistant/store"
)

// DBPool is the subset of pgxpool.Pool the store uses. pgxmock implements
// it, which keeps the store testable without a live database.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// SessionStore persists turns in an append-only table, ordered by a serial
// primary key.
type SessionStore struct {
	pool DBPool
}

var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore connects to Postgres and ensures the schema exists.
func NewSessionStore(ctx context.Context, connString string) (*SessionStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	s := &SessionStore{pool: pool}
	if err := s.InitSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewSessionStoreWithPool wraps an existing pool. Useful for testing with
// mocks; InitSchema is not called.
func NewSessionStoreWithPool(pool DBPool) *SessionStore {
	return &SessionStore{pool: pool}
}

// InitSchema creates the session_turns table if it doesn't exist.
func (s *SessionStore) InitSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS session_turns (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
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
		_, err := s.pool.Exec(ctx,
			`INSERT INTO session_turns (session_id, role, content) VALUES ($1, $2, $3)`,
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
	rows, err := s.pool.Query(ctx,
		`SELECT role, content FROM session_turns WHERE session_id = $1 ORDER BY id`,
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
	_, err := s.pool.Exec(ctx, `DELETE FROM session_turns WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *SessionStore) Close() {
	s.pool.Close()
}
