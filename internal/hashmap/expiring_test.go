package hashmap

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mtx sync.Mutex
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	clock.mtx.Lock()
	defer clock.mtx.Unlock()
	return clock.now
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.mtx.Lock()
	defer clock.mtx.Unlock()
	clock.now = clock.now.Add(d)
}

func TestExpiringMap_SetIfAbsent(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	cache := NewExpiring[string, int](time.Minute)
	cache.now = clock.Now

	val, stored := cache.SetIfAbsent("a", 1)
	assert.True(t, stored)
	assert.Equal(t, 1, val)

	val, stored = cache.SetIfAbsent("a", 2)
	assert.False(t, stored)
	assert.Equal(t, 1, val)

	// Expired values count as absent
	clock.Advance(2 * time.Minute)
	val, stored = cache.SetIfAbsent("a", 3)
	assert.True(t, stored)
	assert.Equal(t, 3, val)
	val, _ = cache.Lookup("a")
	assert.Equal(t, 3, val)
}

func TestExpiringMap_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	cache := NewExpiring[string, int](time.Minute)
	cache.now = clock.Now

	cache.Set("a", 1)
	clock.Advance(30 * time.Second)
	cache.Set("b", 2)

	val, ok := cache.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, 1, val)

	clock.Advance(40 * time.Second)
	_, ok = cache.Lookup("a")
	assert.False(t, ok)
	val, ok = cache.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, 2, val)

	assert.Equal(t, 2, cache.Size())
	assert.Equal(t, 1, cache.Sweep())
	assert.Equal(t, 1, cache.Size())

	cache.Unset("b")
	assert.Equal(t, 0, cache.Size())

	cache.Set("c", 3)
	cache.Clear()
	_, ok = cache.Lookup("c")
	assert.False(t, ok)
}

func TestExpiringMap_SetResetsLifetime(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	cache := NewExpiring[string, int](time.Minute)
	cache.now = clock.Now

	cache.Set("a", 1)
	clock.Advance(50 * time.Second)
	cache.Set("a", 2)
	clock.Advance(50 * time.Second)

	val, ok := cache.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, 2, val)
}

func TestExpiringMap_CleanupTask(t *testing.T) {
	cache := NewExpiring[string, int](time.Millisecond)
	cache.Set("a", 1)

	cache.ScheduleCleanupTask(2 * time.Millisecond)
	cache.ScheduleCleanupTask(2 * time.Millisecond)
	assert.Eventually(t, func() bool {
		return cache.Size() == 0
	}, time.Second, time.Millisecond)

	cache.StopCleanupTask()
	cache.StopCleanupTask()
}
