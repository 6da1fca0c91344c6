package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/saddleworks/stablecare-backend/internal/platform/envutil"
	"github.com/saddleworks/stablecare-backend/internal/platform/logger"
)

// RateLimiter throttles the public intake endpoint. It is fixed-window
// per key: limit hits per window, counted in Redis so multiple API
// replicas share the budget.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

type rateLimiter struct {
	log    *logger.Logger
	rdb    *goredis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(log *logger.Logger) (RateLimiter, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(envutil.String("REDIS_ADDR", ""))
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

	return &rateLimiter{
		log:    log.With("service", "RedisRateLimiter"),
		rdb:    rdb,
		limit:  int64(envutil.Int("INTAKE_RATE_LIMIT", 5)),
		window: clampWindow(time.Duration(envutil.Int("INTAKE_RATE_WINDOW_SECONDS", 60)) * time.Second),
	}, nil
}

// clampWindow keeps the bucket divisor positive; a zero or negative
// configured window would divide by zero in Allow.
func clampWindow(d time.Duration) time.Duration {
	if d < time.Second {
		return time.Second
	}
	return d
}

// Allow increments the key's window counter and reports whether the
// caller is still under the limit. The first hit in a window sets the
// expiry.
func (l *rateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.rdb == nil {
		return false, fmt.Errorf("rate limiter not initialized")
	}

	bucket := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))
	pipe := l.rdb.TxPipeline()
	count := pipe.Incr(ctx, bucket)
	pipe.Expire(ctx, bucket, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return count.Val() <= l.limit, nil
}

func (l *rateLimiter) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}
