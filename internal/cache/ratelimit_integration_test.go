//go:build integration

package cache

import (
	"context"
	"testing"

	"github.com/easydelivery/easydelivery/internal/testutil"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	redisURL := testutil.RequireEnv(t, "REDIS_URL")
	ctx := context.Background()

	c, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to Redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("failed to flush Redis: %v", err)
	}

	return c
}

func TestIPRateLimiter_Burst(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	l := NewIPRateLimiter(c, 1, 3)
	ip := testutil.UniqueName("client")

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, ip)
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	res, err := l.Allow(ctx, ip)
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if res.Allowed {
		t.Error("request beyond burst should be rejected")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want > 0", res.RetryAfter)
	}

	other, err := l.Allow(ctx, "198.51.100.7")
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if !other.Allowed {
		t.Error("a different IP has its own bucket")
	}
}
