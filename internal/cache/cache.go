// Package cache implements an in-process LRU cache with per-entry TTLs.
// It is the only cross-request shared mutable state in the addon; entries
// are written atomically as whole values and expire on their own.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Cache is the contract used by the rest of the addon.
type Cache interface {
	Get(key string) (interface{}, bool)
	Has(key string) bool
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Clear()
}

type item struct {
	key        string
	value      interface{}
	expiration time.Time
}

// LRUCache is a size-bounded LRU cache with per-entry expiration.
// The clock is injectable for tests.
type LRUCache struct {
	capacity  int
	items     map[string]*list.Element
	evictList *list.List
	mu        sync.Mutex
	now       func() time.Time
}

// New creates a cache bounded to capacity entries.
func New(capacity int) *LRUCache {
	return &LRUCache{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
		now:       time.Now,
	}
}

// NewWithClock creates a cache with an injected clock.
func NewWithClock(capacity int, now func() time.Time) *LRUCache {
	c := New(capacity)
	c.now = now
	return c
}

// Get returns the live value for key, if any.
func (c *LRUCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}

	it := elem.Value.(*item)
	if c.now().After(it.expiration) {
		c.removeElement(elem)
		return nil, false
	}

	c.evictList.MoveToFront(elem)
	return it.value, true
}

// Has reports whether a live entry exists for key.
func (c *LRUCache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Set stores value under key with the given TTL, replacing any previous entry.
func (c *LRUCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiration := c.now().Add(ttl)

	if elem, ok := c.items[key]; ok {
		it := elem.Value.(*item)
		it.value = value
		it.expiration = expiration
		c.evictList.MoveToFront(elem)
		return
	}

	elem := c.evictList.PushFront(&item{
		key:        key,
		value:      value,
		expiration: expiration,
	})
	c.items[key] = elem

	if c.evictList.Len() > c.capacity {
		c.removeOldest()
	}
}

// Delete removes the entry for key, if present.
func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Clear drops every entry.
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.evictList.Init()
}

func (c *LRUCache) removeOldest() {
	if elem := c.evictList.Back(); elem != nil {
		c.removeElement(elem)
	}
}

func (c *LRUCache) removeElement(elem *list.Element) {
	c.evictList.Remove(elem)
	delete(c.items, elem.Value.(*item).key)
}

// CleanExpired drops every expired entry.
func (c *LRUCache) CleanExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var toRemove []*list.Element

	for elem := c.evictList.Back(); elem != nil; elem = elem.Prev() {
		if now.After(elem.Value.(*item).expiration) {
			toRemove = append(toRemove, elem)
		}
	}

	for _, elem := range toRemove {
		c.removeElement(elem)
	}
}

// StartCleanup runs periodic expiry sweeps until the context is cancelled.
func (c *LRUCache) StartCleanup(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.CleanExpired()
			case <-ctx.Done():
				return
			}
		}
	}()
}
