package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sajalsharma/saj-assistant/assistant"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return NewSessionStore(Options{Addr: mr.Addr()}), mr
}

func TestSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	err := s.Append(ctx, "sess-1",
		assistant.Turn{Role: assistant.RoleUser, Content: "hi"},
		assistant.Turn{Role: assistant.RoleAssistant, Content: "hello"},
	)
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, "sess-1", assistant.Turn{Role: assistant.RoleUser, Content: "more"}))

	turns, err := s.History(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "hi", turns[0].Content)
	assert.Equal(t, assistant.RoleAssistant, turns[1].Role)
	assert.Equal(t, "more", turns[2].Content)
}

func TestUnknownSessionIsEmpty(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	turns, err := s.History(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Append(ctx, "a", assistant.Turn{Role: assistant.RoleUser, Content: "x"}))
	require.NoError(t, s.Clear(ctx, "a"))

	turns, err := s.History(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestTTLIsApplied(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s := NewSessionStore(Options{Addr: mr.Addr(), TTL: time.Minute})
	require.NoError(t, s.Append(ctx, "a", assistant.Turn{Role: assistant.RoleUser, Content: "x"}))

	mr.FastForward(2 * time.Minute)

	turns, err := s.History(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, turns)
}
