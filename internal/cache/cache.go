package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultTTL  = 10 * time.Minute
	DefaultSize = 128
)

// Cache is a size-bounded response cache whose entries expire after a fixed
// TTL. Values are stored as JSON so callers decode into their own types.
// Invalidate drops every entry and runs the registered hooks.
type Cache struct {
	lru    *expirable.LRU[string, []byte]
	ttl    time.Duration
	logger *slog.Logger

	mu    sync.Mutex
	hooks []func()
}

// New builds a cache. Non-positive size or ttl fall back to the defaults.
func New(size int, ttl time.Duration, logger *slog.Logger) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Cache{ttl: ttl, logger: logger}
	c.lru = expirable.NewLRU(size, func(key string, _ []byte) {
		c.logger.Debug("cache entry evicted", "key", key)
	}, ttl)
	return c
}

// TTL returns the entry lifetime.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Len returns the number of live entries.
func (c *Cache) Len() int { return c.lru.Len() }

// Get decodes the entry for key into out and reports whether it was found.
func (c *Cache) Get(key string, out any) bool {
	raw, ok := c.lru.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.lru.Remove(key)
		return false
	}
	return true
}

// Set stores value under key.
func (c *Cache) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %q: %w", key, err)
	}
	c.lru.Add(key, raw)
	return nil
}

// Delete removes a single key.
func (c *Cache) Delete(key string) {
	c.lru.Remove(key)
}

// DeletePrefix removes every key starting with prefix and returns how many
// were removed.
func (c *Cache) DeletePrefix(prefix string) int {
	n := 0
	for _, k := range c.lru.Keys() {
		if strings.HasPrefix(k, prefix) && c.lru.Remove(k) {
			n++
		}
	}
	return n
}

// OnInvalidate registers fn to run after every Invalidate.
func (c *Cache) OnInvalidate(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// Invalidate drops every entry and runs the invalidation hooks. A nil cache
// is a no-op.
func (c *Cache) Invalidate() {
	if c == nil {
		return
	}
	c.lru.Purge()

	c.mu.Lock()
	hooks := append([]func(){}, c.hooks...)
	c.mu.Unlock()

	c.logger.Debug("cache invalidated", "hooks", len(hooks))
	for _, fn := range hooks {
		fn()
	}
}

// Fetch returns the cached value for key or calls load, caches its result and
// decodes it into out. Load errors are not cached.
func Fetch[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	if c != nil && c.Get(key, &out) {
		return out, nil
	}
	out, err := load(ctx)
	if err != nil {
		return out, err
	}
	if c != nil {
		if err := c.Set(key, out); err != nil {
			c.logger.Warn("cache store failed", "key", key, "error", err)
		}
	}
	return out, nil
}
