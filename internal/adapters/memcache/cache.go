// Package memcache is an in-process ports.CacheService used when Valkey is
// not reachable.
package memcache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/samirrijal/geonotes/internal/core/ports"
)

const defaultSize = 128

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache is a size-bounded LRU with per-key expiry.
type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache[string, entry]
	now func() time.Time
}

// New creates a cache holding at most size keys.
func New(size int) *Cache {
	if size <= 0 {
		size = defaultSize
	}
	c, _ := lru.New[string, entry](size)
	return &Cache{lru: c, now: time.Now}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(key)
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.lru.Remove(key)
		return nil, ports.ErrCacheMiss
	}
	return e.value, nil
}

// Set stores a copy of value. ttlSeconds <= 0 means no expiry.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttlSeconds > 0 {
		e.expiresAt = c.now().Add(time.Duration(ttlSeconds) * time.Second)
	}

	c.mu.Lock()
	c.lru.Add(key, e)
	c.mu.Unlock()
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	c.lru.Remove(key)
	c.mu.Unlock()
	return nil
}
