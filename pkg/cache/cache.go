package cache

import (
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"
	"go.uber.org/zap"
)

// Cache is an in-process LRU with per-entry TTL. Every Delete bumps the
// key's generation so a reader that loaded before an invalidation cannot
// store its stale copy afterwards.
type Cache[V any] struct {
	store *ccache.Cache[V]
	ttl   time.Duration
	log   *zap.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

func New[V any](maxSize int64, ttl time.Duration, name string, log *zap.Logger) *Cache[V] {
	return &Cache[V]{
		store:       ccache.New(ccache.Configure[V]().MaxSize(maxSize)),
		ttl:         ttl,
		log:         log.With(zap.String("cache", name)),
		generations: make(map[string]uint64),
	}
}

// Get returns the value for key and whether an unexpired entry was found.
func (c *Cache[V]) Get(key string) (V, bool) {
	item := c.store.Get(key)
	if item == nil || item.Expired() {
		var zero V
		c.log.Debug("Cache miss", zap.String("key", key))
		return zero, false
	}
	c.log.Debug("Cache hit", zap.String("key", key))
	return item.Value(), true
}

func (c *Cache[V]) Set(key string, value V) {
	c.store.Set(key, value, c.ttl)
}

// Generation is read before loading the value handed to SetIfCurrent.
func (c *Cache[V]) Generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[key]
}

// SetIfCurrent stores value unless key was deleted after gen was read.
func (c *Cache[V]) SetIfCurrent(key string, value V, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[key] != gen {
		c.log.Debug("Cache set skipped, entry invalidated meanwhile", zap.String("key", key))
		return false
	}
	c.Set(key, value)
	return true
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[key]++
	if c.store.Delete(key) {
		c.log.Debug("Cache delete", zap.String("key", key))
	}
}

// Stop releases the background worker.
func (c *Cache[V]) Stop() {
	c.store.Stop()
}
