package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightcarbon/backend/internal/config"
	"github.com/flightcarbon/backend/internal/domain"
)

func TestFleetKey(t *testing.T) {
	assert.Equal(t, "cache:fleet:10:42", fleetKey(10, 42))
	assert.Equal(t, "cache:fleet:0:-7", fleetKey(0, -7))
	assert.NotEqual(t, fleetKey(10, 42), fleetKey(42, 10))
}

func TestNewRedisCache(t *testing.T) {
	c := NewRedisCache(config.RedisConfig{Addr: "127.0.0.1:6379", TTL: time.Minute})
	require.NotNil(t, c)
	assert.Equal(t, time.Minute, c.fleetTTL)
	assert.NoError(t, c.Close())
}

func TestRedisCache_ClosedClient(t *testing.T) {
	c := NewRedisCache(config.RedisConfig{Addr: "127.0.0.1:6379", TTL: time.Minute})
	require.NoError(t, c.Close())

	ctx := context.Background()
	flights, err := c.GetFleet(ctx, 1, 1)
	assert.Error(t, err)
	assert.Nil(t, flights)

	err = c.SetFleet(ctx, 1, 1, []domain.FlightRecord{{ID: "a"}})
	assert.Error(t, err)
}
