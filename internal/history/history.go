// In file: internal/history/history.go

// Package history keeps a bounded log of recent chat exchanges for the web UI.
// It is a side record only and is never fed back into the agent.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultLimit is the number of exchanges kept when no limit is configured.
const DefaultLimit = 50

const defaultKey = "chat:history"

// Entry is one user message and the answer it received.
type Entry struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Bot       string    `json:"bot"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntry stamps an exchange with a fresh id and the current time.
func NewEntry(user, bot string) Entry {
	return Entry{
		ID:        uuid.NewString(),
		User:      user,
		Bot:       bot,
		Timestamp: time.Now().UTC(),
	}
}

// Store records exchanges. List returns them oldest first.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	List(ctx context.Context) ([]Entry, error)
	Clear(ctx context.Context) error
}

// RedisStore keeps the newest exchanges in a capped Redis list.
type RedisStore struct {
	rdb   *redis.Client
	key   string
	limit int
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(rdb *redis.Client, limit int) (*RedisStore, error) {
	if rdb == nil {
		return nil, errors.New("history: redis client is required")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &RedisStore{rdb: rdb, key: defaultKey, limit: limit}, nil
}

// Append pushes entry to the head of the list and trims the tail in one transaction.
func (s *RedisStore) Append(ctx context.Context, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, s.key, data)
		pipe.LTrim(ctx, s.key, 0, int64(s.limit-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Entry, error) {
	raw, err := s.rdb.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	entries := make([]Entry, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var e Entry
		if err := json.Unmarshal([]byte(raw[i]), &e); err != nil {
			log.Printf("WARNING: skipping undecodable history entry: %v", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// NopStore is used when no Redis address is configured.
type NopStore struct{}

var _ Store = NopStore{}

func (NopStore) Append(context.Context, Entry) error { return nil }
func (NopStore) List(context.Context) ([]Entry, error) { return []Entry{}, nil }
func (NopStore) Clear(context.Context) error { return nil }
