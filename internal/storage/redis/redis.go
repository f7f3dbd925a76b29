package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	cache "chapkhane/pkg/redis"
)

const defaultStateTTL = 24 * time.Hour

// Storage keeps Telegram dialog state under state:<chat id>.
type Storage struct {
	client *cache.Client
	ttl    time.Duration
}

func New(client *cache.Client) *Storage {
	ttl := client.TTL()
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	return &Storage{client: client, ttl: ttl}
}

func (s *Storage) SetUserDialogState(ctx context.Context, chatID int64, state *UserState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return s.client.Set(ctx, buildStateKey(chatID), data, s.ttl)
}

// GetUserDialogState returns an empty state for chats with none stored.
func (s *Storage) GetUserDialogState(ctx context.Context, chatID int64) (*UserState, error) {
	data, err := s.client.Get(ctx, buildStateKey(chatID))
	if errors.Is(err, cache.ErrMiss) {
		return &UserState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}

	var state UserState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal failure: %w", err)
	}
	return &state, nil
}

func (s *Storage) DropUserDialogState(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, buildStateKey(chatID))
}

func buildStateKey(chatID int64) string {
	return fmt.Sprintf("state:%d", chatID)
}
