package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sajalsharma/saj-assistant/assistant"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	s, err := NewSessionStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.Append(ctx, "sess-1",
		assistant.Turn{Role: assistant.RoleUser, Content: "hi"},
		assistant.Turn{Role: assistant.RoleAssistant, Content: "hello"},
	)
	require.NoError(t, err)

	turns, err := s.History(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, assistant.RoleUser, turns[0].Role)
	assert.Equal(t, "hello", turns[1].Content)
}

func TestUnknownSessionIsEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	turns, err := s.History(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestClearRemovesOnlyTargetSession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Append(ctx, "a", assistant.Turn{Role: assistant.RoleUser, Content: "x"}))
	require.NoError(t, s.Append(ctx, "b", assistant.Turn{Role: assistant.RoleUser, Content: "y"}))
	require.NoError(t, s.Clear(ctx, "a"))

	turnsA, err := s.History(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, turnsA)

	turnsB, err := s.History(ctx, "b")
	require.NoError(t, err)
	require.Len(t, turnsB, 1)
	assert.Equal(t, "y", turnsB[0].Content)
}
