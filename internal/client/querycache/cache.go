// Package querycache caches remote query results per key.
//
// Concurrent fetches of one key share a single call. A result whose fetch
// started before a logout (an epoch change) is discarded with ErrStale, and
// a result whose fetch overlapped an Invalidate or Clear is returned to the
// caller but not cached.
package querycache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/primepost/internal/client/session"
	"golang.org/x/sync/singleflight"
)

var ErrStale = errors.New("session ended while the request was in flight")

type Cache struct {
	mu         sync.Mutex
	entries    map[string]any
	generation uint64
	group      singleflight.Group
	epoch      *session.Epoch
}

func New(epoch *session.Epoch) *Cache {
	return &Cache{entries: make(map[string]any), epoch: epoch}
}

// Fetch returns the cached value for key or loads it with fn.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if v, ok := c.lookup(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}

	start := c.epoch.Current()
	flightKey := fmt.Sprintf("%d/%s", start, key)

	v, err, _ := c.group.Do(flightKey, func() (any, error) {
		gen := c.currentGeneration()

		val, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if !c.epoch.IsCurrent(start) {
			return nil, ErrStale
		}
		c.storeIf(key, val, gen)
		return val, nil
	})
	if err != nil {
		return zero, err
	}

	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cached value for %q has type %T", key, v)
	}
	return t, nil
}

// Invalidate drops every key starting with prefix.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	c.generation++
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]any)
	c.generation++
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache) currentGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *Cache) storeIf(key string, val any, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == gen {
		c.entries[key] = val
	}
}
