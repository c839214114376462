package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sajalsharma/saj-assistant/assistant"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()

	err := s.Append(ctx, "sess-1",
		assistant.Turn{Role: assistant.RoleUser, Content: "hi"},
		assistant.Turn{Role: assistant.RoleAssistant, Content: "hello"},
	)
	require.NoError(t, err)
	err = s.Append(ctx, "sess-1", assistant.Turn{Role: assistant.RoleUser, Content: "who is sajal?"})
	require.NoError(t, err)

	turns, err := s.History(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "hi", turns[0].Content)
	assert.Equal(t, assistant.RoleAssistant, turns[1].Role)
	assert.Equal(t, "who is sajal?", turns[2].Content)
}

func TestSessionStoreIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()

	require.NoError(t, s.Append(ctx, "a", assistant.Turn{Role: assistant.RoleUser, Content: "for a"}))

	turns, err := s.History(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestSessionStoreClear(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()

	require.NoError(t, s.Append(ctx, "a", assistant.Turn{Role: assistant.RoleUser, Content: "x"}))
	require.NoError(t, s.Clear(ctx, "a"))

	turns, err := s.History(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestHistoryReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()

	require.NoError(t, s.Append(ctx, "a", assistant.Turn{Role: assistant.RoleUser, Content: "original"}))

	turns, err := s.History(ctx, "a")
	require.NoError(t, err)
	turns[0].Content = "mutated"

	again, err := s.History(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Content)
}
