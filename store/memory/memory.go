// Package memory provides an in-process SessionStore, suitable for tests
// and single-instance deployments without durability requirements.
package memory

import (
	"context"
	"sync"

	"github.com/sajalsharma/saj-assistant/assistant"
	"github.com/sajalsharma/saj-assistant/store"
)

// SessionStore keeps histories in a mutex-guarded map.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]assistant.Turn
}

var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string][]assistant.Turn),
	}
}

// Append adds turns to the session's history.
func (s *SessionStore) Append(ctx context.Context, sessionID string, turns ...assistant.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], turns...)
	return nil
}

// History returns a copy of the session's turns, oldest first.
func (s *SessionStore) History(ctx context.Context, sessionID string) ([]assistant.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[sessionID]
	out := make([]assistant.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// Clear removes the session.
func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
