package ratelimit

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript increments the bucket counter, starts the window TTL
// on the first hit and reads the remaining TTL back, all in one atomic
// round trip.
var fixedWindowScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {current, ttl}
`)

// RedisLimiter is a fixed-window limiter shared across processes. The
// window is anchored at the first hit and resets when the key expires,
// which is looser than the in-memory sliding window under bursts but
// atomic without in-process locking.
//
// Failure policy: if Redis is unreachable or errors, the request is
// admitted (fail open). Availability wins over strict enforcement; only
// store errors are treated this way, a real limit rejection is never
// masked.
type RedisLimiter struct {
	client      redis.Scripter
	maxRequests int
	window      time.Duration
}

func NewRedisLimiter(client redis.Scripter, maxRequests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:      client,
		maxRequests: maxRequests,
		window:      window,
	}
}

// NewRedisClient dials a Redis instance from a redis:// URL.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) error {
	windowSeconds := int(l.window.Seconds())

	vals, err := fixedWindowScript.Run(ctx, l.client, []string{"rate_limit:" + key}, windowSeconds).Slice()
	if err != nil {
		log.Printf("⚠️  Rate limiter: redis unavailable, admitting request: %v", err)
		return nil
	}

	current, ttl, ok := parseScriptReply(vals)
	if !ok {
		log.Printf("⚠️  Rate limiter: unexpected redis reply %v, admitting request", vals)
		return nil
	}

	if current > int64(l.maxRequests) {
		retryAfter := time.Duration(ttl) * time.Second
		if retryAfter < 0 {
			retryAfter = 0
		}
		return &LimitExceededError{Limit: l.maxRequests, RetryAfter: retryAfter}
	}

	return nil
}

func parseScriptReply(vals []interface{}) (current, ttl int64, ok bool) {
	if len(vals) != 2 {
		return 0, 0, false
	}
	current, ok = vals[0].(int64)
	if !ok {
		return 0, 0, false
	}
	ttl, ok = vals[1].(int64)
	if !ok {
		return 0, 0, false
	}
	return current, ttl, true
}
