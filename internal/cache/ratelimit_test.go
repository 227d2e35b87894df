package cache

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestHashIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip   string
	}{
		{"IPv4", "192.168.1.1"},
		{"IPv6 localhost", "::1"},
		{"IPv6 full", "2001:0db8:85a3:0000:0000:8a2e:0370:7334"},
		{"empty", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash := hashIP(tt.ip)
			if len(hash) != 16 {
				t.Errorf("hashIP(%q) length = %d, want 16", tt.ip, len(hash))
			}
			if hash != hashIP(tt.ip) {
				t.Errorf("hashIP(%q) is not deterministic", tt.ip)
			}
		})
	}
}

func TestHashIP_Different(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"192.168.1.1", "192.168.1.2"},
		{"127.0.0.1", "::1"},
		{"8.8.8.8", "10.0.0.1"},
	}

	for _, p := range pairs {
		if hashIP(p[0]) == hashIP(p[1]) {
			t.Errorf("hashIP(%q) == hashIP(%q)", p[0], p[1])
		}
	}
}

func TestNewIPRateLimiter_ClampsConfig(t *testing.T) {
	t.Parallel()

	l := NewIPRateLimiter(nil, 0, 0)
	if l.ratePerSecond != 1 || l.burst != 1 {
		t.Errorf("got rate=%d burst=%d, want 1/1", l.ratePerSecond, l.burst)
	}
}

func TestIPRateLimiter_FailsOpen(t *testing.T) {
	t.Parallel()

	// Nothing listens on this port.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	l := NewIPRateLimiter(NewFromClient(client), 10, 20)

	res, err := l.Allow(context.Background(), "10.0.0.1")
	if err == nil {
		t.Fatal("expected error from unreachable Redis")
	}
	if !res.Allowed {
		t.Error("expected request to be allowed when Redis is unreachable")
	}
	if res.Remaining != 20 {
		t.Errorf("Remaining = %d, want 20", res.Remaining)
	}
}
