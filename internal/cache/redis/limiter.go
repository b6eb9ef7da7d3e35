package redis

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

// Allow counts a hit for key in a fixed window and reports whether the
// count is still within limit. Redis failures let the request through.
func (r *Redis) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	const op = "cache.Allow.redis"
	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	n, err := r.cli.Incr(ctx, key).Result()
	if err != nil {
		zap.L().Warn("rate limiter unavailable", zap.String("op", op), zap.String("key", key), zap.Error(err))
		return true
	}

	if n == 1 {
		if err = r.cli.Expire(ctx, key, window).Err(); err != nil {
			zap.L().Warn("failed to set window expiry", zap.String("op", op), zap.String("key", key), zap.Error(err))
		}
	}

	return n <= int64(limit)
}
