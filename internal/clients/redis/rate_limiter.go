package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kitzurapp/qa-backend/internal/apperr"
	"github.com/kitzurapp/qa-backend/internal/logger"
)

// checkAndIncrScript rejects without writing once the bucket is at its
// limit. Lua scripts execute atomically, which gives the transactional
// check-then-increment the limiter contract requires.
var checkAndIncrScript = goredis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
  return 0
end
current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('EXPIRE', KEYS[1], ARGV[2])
end
return 1
`)

type RateLimiter struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewRateLimiter connects from REDIS_ADDR and pings before returning.
func NewRateLimiter(log *logger.Logger) (*RateLimiter, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RateLimiter{
		log: log.With("service", "RedisRateLimiter"),
		rdb: rdb,
		// Buckets are per-minute; 2x window covers clock skew between callers.
		ttl: 2 * time.Minute,
	}, nil
}

func (rl *RateLimiter) CheckAndIncrement(ctx context.Context, key string, limit int) error {
	if rl == nil || rl.rdb == nil {
		return fmt.Errorf("redis rate limiter not initialized")
	}
	// Same per-minute bucket shape as the database backend, so the two
	// are interchangeable behind the limiter interface.
	bucketKey := fmt.Sprintf("ratelimit:%s_%d", key, time.Now().UTC().Unix()/60)
	allowed, err := checkAndIncrScript.Run(ctx, rl.rdb, []string{bucketKey}, limit, int(rl.ttl.Seconds())).Int()
	if err != nil {
		return fmt.Errorf("rate limit script: %w", err)
	}
	if allowed == 0 {
		return apperr.ErrResourceExhausted
	}
	return nil
}

func (rl *RateLimiter) Close() error {
	if rl == nil || rl.rdb == nil {
		return nil
	}
	return rl.rdb.Close()
}
