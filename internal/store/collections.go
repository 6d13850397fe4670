package store

import (
	"context"
	"errors"
	"sync"
)

// Backend captures the document access a Collection needs. *Store satisfies
// it; tests substitute failing backends.
type Backend interface {
	Get(ctx context.Context, key string, out any) error
	Put(ctx context.Context, key string, value any) error
}

// Collection is a typed read-through/write-through view of one document key.
// It keeps an in-memory snapshot that is refreshed only after a successful
// write, so a failed Put leaves readers on the last persisted value. The
// snapshot makes no copies; callers must treat returned values as read-only.
type Collection[T any] struct {
	backend Backend
	key     string
	seed    func() T

	mu     sync.RWMutex
	cached T
	loaded bool
}

// NewCollection wires a collection for key. The seed callback supplies the
// initial document persisted on first access when the key is absent.
func NewCollection[T any](backend Backend, key string, seed func() T) *Collection[T] {
	return &Collection[T]{backend: backend, key: key, seed: seed}
}

// Key returns the collection's document key.
func (c *Collection[T]) Key() string {
	return c.key
}

// Get returns the current document, loading it from the backend on first
// access. An absent document is seeded and persisted immediately.
func (c *Collection[T]) Get(ctx context.Context) (T, error) {
	c.mu.RLock()
	if c.loaded {
		value := c.cached
		c.mu.RUnlock()
		return value, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.cached, nil
	}

	var value T
	err := c.backend.Get(ctx, c.key, &value)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		if c.seed != nil {
			value = c.seed()
		}
		if err := c.backend.Put(ctx, c.key, value); err != nil {
			var zero T
			return zero, err
		}
	default:
		var zero T
		return zero, err
	}

	c.cached = value
	c.loaded = true
	return value, nil
}

// Put persists value as the whole document and refreshes the snapshot. Write
// failures propagate to the caller and leave the snapshot untouched.
func (c *Collection[T]) Put(ctx context.Context, value T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.backend.Put(ctx, c.key, value); err != nil {
		return err
	}
	c.cached = value
	c.loaded = true
	return nil
}

// Prime installs value as the snapshot without writing. Used after an
// out-of-band multi-key write (Store.PutAll) already persisted it.
func (c *Collection[T]) Prime(value T) {
	c.mu.Lock()
	c.cached = value
	c.loaded = true
	c.mu.Unlock()
}

// Invalidate drops the snapshot so the next Get reloads from the backend.
func (c *Collection[T]) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	var zero T
	c.cached = zero
	c.mu.Unlock()
}
