package plugin

import (
	"context"
	"sync"

	"github.com/EmundoT/git-assess/internal/types"
)

// ResultCache memoizes one decoded tool payload per repository target for the
// lifetime of a plugin instance.
type ResultCache[T any] struct {
	mu      sync.Mutex
	entries map[types.TargetKey]T
	hits    int
	misses  int
}

// NewResultCache returns an empty cache.
func NewResultCache[T any]() *ResultCache[T] {
	return &ResultCache[T]{entries: make(map[types.TargetKey]T)}
}

// GetOrLoad returns the cached payload for target, calling load on a miss.
// The guard is held while load runs, so concurrent callers for the same plugin
// never trigger a second invocation. Errors are not cached.
func (c *ResultCache[T]) GetOrLoad(ctx context.Context, target types.RepositoryTarget, load func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := target.Key()
	if v, ok := c.entries[key]; ok {
		c.hits++
		return v, nil
	}
	c.misses++

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.entries[key] = v
	return v, nil
}

// Hits returns the number of lookups served from the cache.
func (c *ResultCache[T]) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

// Misses returns the number of lookups that invoked the loader.
func (c *ResultCache[T]) Misses() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.misses
}

// Len returns the number of cached targets.
func (c *ResultCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
