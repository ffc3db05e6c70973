// Package cache implements a process-local write-through memory cache: a
// map from object id to the most recently written value, with shared
// ownership of immutable value buffers so a reader can keep using a
// value after another goroutine removes or overwrites it.
package cache

import (
	"sync"

	"github.com/ioremap/blobnode/internal/shared"
)

// Cache maps object ids to their most recently written value. All three
// operations acquire the same mutex only for the map access itself; the
// returned Buffer is safe to read without holding the lock.
type Cache struct {
	mu    sync.Mutex
	store map[shared.ObjectID]*Buffer
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{store: make(map[shared.ObjectID]*Buffer)}
}

// Write copies data into a fresh buffer and installs it under id,
// replacing (and releasing the cache's reference to) any prior buffer.
func (c *Cache) Write(id shared.ObjectID, data []byte) {
	buf := newBuffer(data)

	c.mu.Lock()
	old := c.store[id]
	c.store[id] = buf
	c.mu.Unlock()

	if old != nil {
		old.Release()
	}
}

// Read returns an owning, retained share of the current buffer for id, or
// shared.ErrNotFound if there is none. The caller must call Release on
// the returned buffer when done with it.
func (c *Cache) Read(id shared.ObjectID) (*Buffer, error) {
	c.mu.Lock()
	buf, ok := c.store[id]
	if ok {
		buf.Retain()
	}
	c.mu.Unlock()

	if !ok {
		return nil, shared.ErrNotFound
	}
	return buf, nil
}

// Remove drops the mapping for id. Buffers already handed out by Read
// remain valid until their holders call Release.
func (c *Cache) Remove(id shared.ObjectID) {
	c.mu.Lock()
	buf, ok := c.store[id]
	if ok {
		delete(c.store, id)
	}
	c.mu.Unlock()

	if ok {
		buf.Release()
	}
}
