// Package cache holds the Redis connection backing the per-IP limit on the
// user, parcel and payment write routes. Redis is optional: without it the
// API runs unlimited.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Pool sizing for the limiter. Each limited request makes one EVALSHA round
// trip, so a small pool is enough.
const (
	poolSize        = 10
	minIdleConns    = 2
	poolTimeout     = 4 * time.Second
	connMaxIdleTime = 5 * time.Minute
)

// Cache is the Redis connection shared by the rate limiter and the readiness probe.
type Cache struct {
	client *redis.Client
}

// New connects to REDIS_URL and fails unless the server answers PING.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.PoolSize = poolSize
	opt.MinIdleConns = minIdleConns
	opt.PoolTimeout = poolTimeout
	opt.ConnMaxIdleTime = connMaxIdleTime

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// NewFromClient wraps a client built elsewhere, as tests do.
func NewFromClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Ping backs the "redis" entry of /readyz.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close is registered as a shutdown hook after the HTTP server stops.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client exposes the raw client for scripts and test cleanup.
func (c *Cache) Client() *redis.Client {
	return c.client
}
