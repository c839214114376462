// Package redis provides a Redis-backed SessionStore, one list per session.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sajalsharma/saj-assistant/assistant"
	"github.com/sajalsharma/saj-assistant/store"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // key prefix, default "saj:"
	TTL      time.Duration // session expiry, default 0 (no expiry)
}

// SessionStore stores each session as a Redis list of JSON-encoded turns.
type SessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore connects to Redis with the given options.
func NewSessionStore(opts Options) *SessionStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "saj:"
	}

	return &SessionStore{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

func (s *SessionStore) sessionKey(id string) string {
	return fmt.Sprintf("%ssession:%s:turns", s.prefix, id)
}

// Append pushes turns onto the session's list, refreshing the TTL when one
// is configured.
func (s *SessionStore) Append(ctx context.Context, sessionID string, turns ...assistant.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	values := make([]any, len(turns))
	for i, turn := range turns {
		data, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("failed to marshal turn: %w", err)
		}
		values[i] = data
	}

	key := s.sessionKey(sessionID)
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, values...)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append turns to redis: %w", err)
	}
	return nil
}

// History returns the session's turns, oldest first. An unknown session
// yields an empty history.
func (s *SessionStore) History(ctx context.Context, sessionID string) ([]assistant.Turn, error) {
	items, err := s.client.LRange(ctx, s.sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session from redis: %w", err)
	}

	turns := make([]assistant.Turn, 0, len(items))
	for _, item := range items {
		var turn assistant.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("failed to unmarshal turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Clear deletes the session's list.
func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session in redis: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *SessionStore) Close() error {
	return s.client.Close()
}
