package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	cache "chapkhane/pkg/redis"
)

func TestBuildStateKey(t *testing.T) {
	if got := buildStateKey(123456789); got != "state:123456789" {
		t.Errorf("got %q", got)
	}
}

func TestStateTTL(t *testing.T) {
	client := cache.New("127.0.0.1:0", "", 0, 0)
	defer client.Close()
	if s := New(client); s.ttl != defaultStateTTL {
		t.Errorf("zero client TTL: got %s, want %s", s.ttl, defaultStateTTL)
	}

	client = cache.New("127.0.0.1:0", "", 0, time.Hour)
	defer client.Close()
	if s := New(client); s.ttl != time.Hour {
		t.Errorf("got %s, want 1h", s.ttl)
	}
}

type countingWindow struct {
	counts map[string]int64
	window time.Duration
	err    error
}

func (c *countingWindow) IncrWindow(_ context.Context, key string, window time.Duration) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.window = window
	c.counts[key]++
	return c.counts[key], nil
}

func TestLimiterAllow(t *testing.T) {
	counter := &countingWindow{counts: make(map[string]int64)}
	l := &Limiter{counter: counter, limit: 2, window: time.Minute}
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		ok, err := l.Allow(ctx, "quote:ip:1.2.3.4")
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if ok != want {
			t.Errorf("request %d: got %v, want %v", i+1, ok, want)
		}
	}
	if counter.counts["ratelimit:quote:ip:1.2.3.4"] != 3 {
		t.Errorf("key not prefixed: %v", counter.counts)
	}
	if counter.window != time.Minute {
		t.Errorf("window: got %s", counter.window)
	}

	counter.err = errors.New("connection refused")
	if _, err := l.Allow(ctx, "quote:ip:1.2.3.4"); err == nil {
		t.Fatal("expected counter error to surface")
	}
}
