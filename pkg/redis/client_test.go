package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Payphone-Digital/storefront/pkg/circuit"
)

func TestClient_Disabled(t *testing.T) {
	c := NewClient(Config{Host: "localhost", Port: 6379}, zap.NewNop())
	ctx := context.Background()

	assert.False(t, c.IsEnabled())
	assert.ErrorIs(t, c.Ping(ctx), ErrDisabled)
	assert.ErrorIs(t, c.Set(ctx, "k", []byte("v"), 0), ErrDisabled)
	assert.ErrorIs(t, c.Delete(ctx, "k"), ErrDisabled)

	_, found, err := c.Get(ctx, "k")
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrDisabled)

	assert.NoError(t, c.Close())
	assert.Equal(t, map[string]any{"enabled": false}, c.PoolStats())
}

func TestConfig_Address(t *testing.T) {
	assert.Equal(t, "cache.internal:6380", Config{Host: "cache.internal", Port: 6380}.Address())
}

func TestClient_BreakerFailsFastWhenServerIsDown(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	breaker := circuit.NewBreaker("grid-state", circuit.Config{Threshold: 2, Timeout: time.Minute}, zap.NewNop())
	c := NewFromUniversal(rdb, zap.NewNop()).WithBreaker(breaker)
	defer c.Close()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, err := c.Get(ctx, "storefront:grid:books:c1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, circuit.ErrCircuitOpen)
	}
	assert.Equal(t, circuit.StateOpen, breaker.State())

	_, found, err := c.Get(ctx, "storefront:grid:books:c1")
	assert.False(t, found)
	assert.ErrorIs(t, err, circuit.ErrCircuitOpen)
	assert.ErrorIs(t, c.Set(ctx, "storefront:grid:books:c1", []byte("{}"), time.Minute), circuit.ErrCircuitOpen)
	assert.ErrorIs(t, c.Delete(ctx, "storefront:grid:books:c1"), circuit.ErrCircuitOpen)
}
