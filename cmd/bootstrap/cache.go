package bootstrap

import (
	"context"

	"waitdesk/internal/infra/cache"
	"waitdesk/internal/pkg/config"
	"waitdesk/internal/usecase/commands"
	"waitdesk/internal/usecase/queries"

	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewAvailabilityCache,
	),
)

// NewAvailabilityCache wires the Redis-backed availability cache, or a
// noop when REDIS_ADDR is unset. Both the read-through cache and the
// write-side invalidator come from the same instance.
func NewAvailabilityCache(lc fx.Lifecycle, cfg config.Config) (queries.AvailabilityCache, commands.AvailabilityInvalidator, error) {
	if cfg.Redis.Addr == "" {
		noop := cache.NoopAvailabilityCache{}
		return noop, noop, nil
	}

	client, cleanup, err := cache.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		return nil, nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	c := cache.NewAvailabilityCache(client, cfg.Redis.AvailabilityTTL)
	return c, c, nil
}
