package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flightcarbon/backend/internal/config"
	"github.com/flightcarbon/backend/internal/domain"
)

// RedisCache stores generated fleets keyed by count and seed.
type RedisCache struct {
	client   *redis.Client
	fleetTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		fleetTTL: cfg.TTL,
	}
}

// Ping verifies the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: ping failed: %w", err)
	}
	return nil
}

// GetFleet returns nil, nil on a miss.
func (c *RedisCache) GetFleet(ctx context.Context, count int, seed int64) ([]domain.FlightRecord, error) {
	data, err := c.client.Get(ctx, fleetKey(count, seed)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache: failed to get fleet: %w", err)
	}

	var flights []domain.FlightRecord
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, fmt.Errorf("cache: failed to decode fleet: %w", err)
	}
	return flights, nil
}

func (c *RedisCache) SetFleet(ctx context.Context, count int, seed int64, flights []domain.FlightRecord) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return fmt.Errorf("cache: failed to encode fleet: %w", err)
	}
	if err := c.client.Set(ctx, fleetKey(count, seed), payload, c.fleetTTL).Err(); err != nil {
		return fmt.Errorf("cache: failed to set fleet: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func fleetKey(count int, seed int64) string {
	return fmt.Sprintf("cache:fleet:%d:%d", count, seed)
}
