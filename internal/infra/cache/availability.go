package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"waitdesk/internal/pkg/config"
	"waitdesk/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AvailabilityCache is a read-through cache for day availability grids,
// invalidated whenever a write changes what blocks a slot. Cache failures
// are logged and treated as misses.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	cleanup := func() { _ = client.Close() }
	return client, cleanup, nil
}

func availabilityKey(serviceID uuid.UUID, date time.Time) string {
	return "availability:" + serviceID.String() + ":" + date.Format("2006-01-02")
}

func (c *AvailabilityCache) Get(ctx context.Context, serviceID uuid.UUID, date time.Time) (*queries.DayAvailability, bool) {
	raw, err := c.client.Get(ctx, availabilityKey(serviceID, date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("availability cache read failed", "error", err.Error())
		}
		return nil, false
	}
	var view queries.DayAvailability
	if err := json.Unmarshal(raw, &view); err != nil {
		slog.Warn("availability cache entry malformed", "error", err.Error())
		return nil, false
	}
	return &view, true
}

func (c *AvailabilityCache) Set(ctx context.Context, serviceID uuid.UUID, date time.Time, v *queries.DayAvailability) {
	raw, err := json.Marshal(v)
	if err != nil {
		slog.Warn("availability cache encode failed", "error", err.Error())
		return
	}
	if err := c.client.Set(ctx, availabilityKey(serviceID, date), raw, c.ttl).Err(); err != nil {
		slog.Warn("availability cache write failed", "error", err.Error())
	}
}

func (c *AvailabilityCache) InvalidateAvailability(ctx context.Context, serviceID uuid.UUID, date time.Time) {
	if err := c.client.Del(ctx, availabilityKey(serviceID, date)).Err(); err != nil {
		slog.Warn("availability cache invalidation failed", "error", err.Error())
	}
}

// NoopAvailabilityCache is wired when no Redis address is configured.
type NoopAvailabilityCache struct{}

func (NoopAvailabilityCache) Get(context.Context, uuid.UUID, time.Time) (*queries.DayAvailability, bool) {
	return nil, false
}

func (NoopAvailabilityCache) Set(context.Context, uuid.UUID, time.Time, *queries.DayAvailability) {}

func (NoopAvailabilityCache) InvalidateAvailability(context.Context, uuid.UUID, time.Time) {}
