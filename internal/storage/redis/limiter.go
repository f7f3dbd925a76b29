package redis

import (
	"context"
	"fmt"
	"time"

	cache "chapkhane/pkg/redis"
)

type windowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter is a fixed-window rate limiter shared by every replica.
type Limiter struct {
	counter windowCounter
	limit   int64
	window  time.Duration
}

func NewLimiter(client *cache.Client, limit int64, window time.Duration) *Limiter {
	return &Limiter{counter: client, limit: limit, window: window}
}

func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.counter.IncrWindow(ctx, "ratelimit:"+key, l.window)
	if err != nil {
		return false, fmt.Errorf("failed to count request: %w", err)
	}
	return count <= l.limit, nil
}
