package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Payphone-Digital/storefront/pkg/circuit"
)

// Config holds the Redis connection settings.
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	Enabled      bool
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ErrDisabled is returned by every operation of a disabled client.
var ErrDisabled = errors.New("redis: client disabled")

// Client stores raw values under string keys. It is the per-client grid
// state store when Redis is enabled.
type Client struct {
	rdb     redis.UniversalClient
	enabled bool
	log     *zap.Logger
	breaker *circuit.Breaker
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Enabled {
		return &Client{log: log}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
	})
	return NewFromUniversal(rdb, log)
}

// NewFromUniversal wraps an existing go-redis client.
func NewFromUniversal(rdb redis.UniversalClient, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{rdb: rdb, enabled: rdb != nil, log: log}
}

// WithBreaker routes reads and writes through b, so a failing server is
// skipped until b lets a probe through.
func (c *Client) WithBreaker(b *circuit.Breaker) *Client {
	c.breaker = b
	return c
}

// guard runs fn through the breaker when one is set.
func (c *Client) guard(ctx context.Context, fn func(ctx context.Context) error) error {
	if c.breaker == nil {
		return fn(ctx)
	}
	return c.breaker.Do(ctx, fn)
}

func (c *Client) IsEnabled() bool {
	return c.enabled
}

func (c *Client) Ping(ctx context.Context) error {
	if !c.enabled {
		return ErrDisabled
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if !c.enabled {
		return nil
	}
	return c.rdb.Close()
}

// Get reads key. A missing key is reported as found == false, not as an
// error.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if !c.enabled {
		return nil, false, ErrDisabled
	}

	var data []byte
	found := false
	err := c.guard(ctx, func(ctx context.Context) error {
		var err error
		data, err = c.rdb.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil // Cache miss
		}
		found = err == nil
		return err
	})
	if err != nil {
		c.log.Error("Failed to get key",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false, fmt.Errorf("failed to get key: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	c.log.Debug("Key read",
		zap.String("key", key),
		zap.Int("data_size", len(data)),
	)
	return data, true, nil
}

// Set writes key with ttl; a zero ttl keeps the key until it is deleted.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !c.enabled {
		return ErrDisabled
	}

	err := c.guard(ctx, func(ctx context.Context) error {
		return c.rdb.Set(ctx, key, value, ttl).Err()
	})
	if err != nil {
		c.log.Error("Failed to set key",
			zap.String("key", key),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)
		return fmt.Errorf("failed to set key: %w", err)
	}

	c.log.Debug("Key set",
		zap.String("key", key),
		zap.Duration("ttl", ttl),
		zap.Int("data_size", len(value)),
	)
	return nil
}

// Delete removes key.
func (c *Client) Delete(ctx context.Context, key string) error {
	if !c.enabled {
		return ErrDisabled
	}

	err := c.guard(ctx, func(ctx context.Context) error {
		return c.rdb.Del(ctx, key).Err()
	})
	if err != nil {
		c.log.Error("Failed to delete key",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// PoolStats reports connection pool usage for the health endpoint.
func (c *Client) PoolStats() map[string]any {
	if !c.enabled {
		return map[string]any{"enabled": false}
	}

	stats := c.rdb.PoolStats()
	return map[string]any{
		"enabled":     true,
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}
