package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
}

func TestGetWithinTTL(t *testing.T) {
	clock := newClock()
	c := New[string, int](clock.now)

	c.Put("k", 42, time.Minute)
	clock.advance(59 * time.Second)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestGetAfterTTL(t *testing.T) {
	clock := newClock()
	c := New[string, int](clock.now)

	c.Put("k", 42, time.Minute)
	clock.advance(time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok, "entry expires exactly at its TTL")
	assert.Zero(t, c.Len(), "expired entry is evicted on access")
}

func TestPutOverwritesAndResetsExpiry(t *testing.T) {
	clock := newClock()
	c := New[string, string](clock.now)

	c.Put("k", "old", time.Minute)
	clock.advance(50 * time.Second)
	c.Put("k", "new", time.Minute)
	clock.advance(50 * time.Second)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestNonPositiveTTLBypasses(t *testing.T) {
	c := New[string, int](nil)

	c.Put("zero", 1, 0)
	c.Put("negative", 2, -time.Second)

	_, ok := c.Get("zero")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestNilValuesAreCached(t *testing.T) {
	clock := newClock()
	c := New[struct{}, *int](clock.now)

	c.Put(struct{}{}, nil, time.Minute)

	v, ok := c.Get(struct{}{})
	assert.True(t, ok, "a stored nil is a hit, not a miss")
	assert.Nil(t, v)
}

func TestExpiredEntryIsEvictedOnGet(t *testing.T) {
	clock := newClock()
	c := New[int, int](clock.now)

	c.Put(1, 1, time.Second)
	c.Put(2, 2, time.Hour)
	assert.Equal(t, 2, c.Len())

	clock.advance(time.Minute)
	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}
