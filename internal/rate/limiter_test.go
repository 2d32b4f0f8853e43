package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newLimiterTest(t *testing.T, max int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb, Config{MaxAttempts: max, Cooldown: time.Minute}), mr
}

func TestLimiterBlocksAfterMaxAttempts(t *testing.T) {
	l, _ := newLimiterTest(t, 3)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		if err := l.Check(ctx, "client"); err != nil {
			t.Fatalf("attempt %d unexpectedly limited: %v", i, err)
		}
		n, err := l.Increment(ctx, "client")
		if err != nil || n != i {
			t.Fatalf("increment %d: got %d %v", i, n, err)
		}
	}
	if err := l.Check(ctx, "client"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if err := l.Check(ctx, "other"); err != nil {
		t.Fatalf("other client limited: %v", err)
	}
}

func TestLimiterWindowExpires(t *testing.T) {
	l, mr := newLimiterTest(t, 1)
	ctx := context.Background()

	if _, err := l.Increment(ctx, "client"); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if ttl := mr.TTL("gob:ax:client"); ttl != time.Minute {
		t.Fatalf("expected window ttl, got %v", ttl)
	}
	if _, err := l.Increment(ctx, "client"); err != nil {
		t.Fatalf("increment: %v", err)
	}
	// second hit keeps the original window
	mr.FastForward(59 * time.Second)
	if err := l.Check(ctx, "client"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected limit inside window, got %v", err)
	}
	mr.FastForward(2 * time.Second)
	if err := l.Check(ctx, "client"); err != nil {
		t.Fatalf("expected window to reset, got %v", err)
	}
}

func TestLimiterReset(t *testing.T) {
	l, _ := newLimiterTest(t, 1)
	ctx := context.Background()

	if _, err := l.Increment(ctx, "client"); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := l.Reset(ctx, "client"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n, err := l.Attempts(ctx, "client"); err != nil || n != 0 {
		t.Fatalf("expected 0 attempts after reset, got %d %v", n, err)
	}
}

func TestLimiterRedisUnavailable(t *testing.T) {
	l, mr := newLimiterTest(t, 1)
	mr.Close()
	if err := l.Check(context.Background(), "client"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
}
