// Package store defines server-side storage of conversation histories, with
// backends under store/memory, store/redis, store/postgres and store/sqlite.
// The orchestration core never touches a store; histories are loaded by the
// HTTP layer and passed in as immutable input.
package store

import (
	"context"

	"github.com/sajalsharma/saj-assistant/assistant"
)

// SessionStore persists ordered conversation turns per session.
type SessionStore interface {
	// Append adds turns to the end of the session's history.
	Append(ctx context.Context, sessionID string, turns ...assistant.Turn) error

	// History returns the session's turns, oldest first. An unknown session
	// yields an empty history.
	History(ctx context.Context, sessionID string) ([]assistant.Turn, error)

	// Clear removes the session's history.
	Clear(ctx context.Context, sessionID string) error
}
