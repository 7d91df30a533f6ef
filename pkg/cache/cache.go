// pkg/cache/cache.go
package cache

import (
	"context"
	"sync"
	"time"
)

type Item struct {
	Value      []byte
	Expiration int64
}

// Cache is an in-process TTL map. It serves as the per-client state store
// when Redis is disabled. Entries with a zero TTL never expire.
type Cache struct {
	items map[string]Item
	mu    sync.RWMutex
	stop  chan struct{}
	once  sync.Once
}

func NewCache(gcInterval time.Duration) *Cache {
	cache := &Cache{
		items: make(map[string]Item),
		stop:  make(chan struct{}),
	}
	if gcInterval <= 0 {
		gcInterval = time.Minute
	}
	go cache.startGC(gcInterval)
	return cache
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var expiration int64
	if ttl > 0 {
		expiration = time.Now().Add(ttl).UnixNano()
	}
	c.items[key] = Item{
		Value:      append([]byte(nil), value...),
		Expiration: expiration,
	}
	return nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found || item.expired(time.Now().UnixNano()) {
		return nil, false, nil
	}

	return append([]byte(nil), item.Value...), true, nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// Len counts entries, including expired ones not yet collected.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Ping always succeeds; it lets the cache stand in for Redis in health
// checks.
func (c *Cache) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close stops the collector.
func (c *Cache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

func (i Item) expired(now int64) bool {
	return i.Expiration > 0 && now > i.Expiration
}

func (c *Cache) collect() {
	now := time.Now().UnixNano()
	c.mu.Lock()
	for k, v := range c.items {
		if v.expired(now) {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
}

func (c *Cache) startGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stop:
			return
		}
	}
}
