package bootstrap

import (
	"context"
	"log/slog"

	"parking-orchestrator/internal/handler/middleware"
	"parking-orchestrator/internal/infra/ratelimit"
	"parking-orchestrator/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedisClient,
		NewRateLimitMiddleware,
	),
)

// NewRedisClient returns nil when REDIS_ADDR is empty.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})
	return rdb
}

// NewRateLimitMiddleware returns nil, which disables throttling, without Redis or when turned off.
func NewRateLimitMiddleware(rdb *redis.Client, cfg config.Config, logger *slog.Logger) *middleware.RateLimitMiddleware {
	if rdb == nil || !cfg.RateLimit.Enabled {
		logger.Info("booking rate limit disabled")
		return nil
	}
	return middleware.NewRateLimitMiddleware(ratelimit.NewTokenBucket(rdb, cfg.RateLimit), logger)
}
