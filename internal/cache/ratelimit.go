package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// rateLimitIPPrefix is the Redis key prefix for per-IP buckets.
	rateLimitIPPrefix = "easydelivery:ratelimit:ip:"
	// rateLimitIPTTL bounds how long an idle bucket is kept.
	rateLimitIPTTL = 10 * time.Second
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// tokenBucketScript refills and consumes one token atomically.
// Returns {allowed, retry_after_seconds, remaining_tokens}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = math.max(0, now - last_update)
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// IPRateLimiter is a per-client-IP token bucket stored in Redis.
type IPRateLimiter struct {
	cache         *Cache
	ratePerSecond int
	burst         int
}

// NewIPRateLimiter creates a limiter allowing ratePerSecond sustained
// requests per IP with bursts up to burst.
func NewIPRateLimiter(c *Cache, ratePerSecond, burst int) *IPRateLimiter {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{cache: c, ratePerSecond: ratePerSecond, burst: burst}
}

// Allow consumes a token for ip. IP addresses are hashed before they are
// used as keys.
//
// On Redis failure the request is allowed and the error is returned so the
// caller can log it.
func (l *IPRateLimiter) Allow(ctx context.Context, ip string) (*RateLimitResult, error) {
	key := rateLimitIPPrefix + hashIP(ip)

	result, err := tokenBucketScript.Run(ctx, l.cache.client,
		[]string{key},
		l.ratePerSecond, l.burst, time.Now().Unix(), int(rateLimitIPTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		return &RateLimitResult{Allowed: true, Remaining: int64(l.burst)}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(result) != 3 {
		return &RateLimitResult{Allowed: true, Remaining: int64(l.burst)}, fmt.Errorf("rate limit script: unexpected reply %v", result)
	}

	return &RateLimitResult{
		Allowed:    result[0] == 1,
		Remaining:  result[2],
		RetryAfter: time.Duration(result[1]) * time.Second,
	}, nil
}

// hashIP returns the first 8 bytes of the SHA256 of ip, hex encoded.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8])
}
