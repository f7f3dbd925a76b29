package redis

import (
	"context"
	"testing"
	"time"
)

func TestNeedsExpiry(t *testing.T) {
	cases := []struct {
		ttl  time.Duration
		want bool
	}{
		{-1, true},
		{-2, true},
		{-1 * time.Second, true},
		{0, false},
		{time.Minute, false},
	}
	for _, tc := range cases {
		if got := needsExpiry(tc.ttl); got != tc.want {
			t.Errorf("needsExpiry(%s): got %v, want %v", tc.ttl, got, tc.want)
		}
	}
}

func TestIncrWindowUnreachable(t *testing.T) {
	client := New("127.0.0.1:0", "", 0, time.Minute)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := client.IncrWindow(ctx, "ratelimit:test", time.Minute); err == nil {
		t.Fatal("expected error from unreachable server")
	}
}
