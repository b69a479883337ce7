package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	c := New(10)
	c.Set("a", 1, time.Minute)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.True(t, c.Has("a"))
}

func TestExpiryWithInjectedClock(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewWithClock(10, func() time.Time { return now })

	c.Set("streams", []string{"x"}, 30*time.Minute)
	assert.True(t, c.Has("streams"))

	now = now.Add(29 * time.Minute)
	assert.True(t, c.Has("streams"))

	now = now.Add(2 * time.Minute)
	_, ok := c.Get("streams")
	assert.False(t, ok, "entry should expire after its TTL")
}

func TestPerEntryTTL(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewWithClock(10, func() time.Time { return now })

	c.Set("short", "empty-result", 5*time.Minute)
	c.Set("long", "metadata", 24*time.Hour)

	now = now.Add(10 * time.Minute)
	assert.False(t, c.Has("short"))
	assert.True(t, c.Has("long"))
}

func TestLRUEviction(t *testing.T) {
	c := New(2)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Set("c", 3, time.Minute)

	assert.False(t, c.Has("a"), "oldest entry should be evicted")
	assert.True(t, c.Has("b"))
	assert.True(t, c.Has("c"))
}

func TestCleanExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewWithClock(10, func() time.Time { return now })

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Hour)

	now = now.Add(30 * time.Minute)
	c.CleanExpired()

	c.mu.Lock()
	remaining := len(c.items)
	c.mu.Unlock()
	assert.Equal(t, 1, remaining)
}
