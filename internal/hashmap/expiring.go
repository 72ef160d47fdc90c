package hashmap

import (
	"sync"
	"time"

	"github.com/skybi/oasis-sync/internal/task"
)

type expiringEntry[T any] struct {
	raw      T
	inserted time.Time
}

// ExpiringMap is a thread safe map whose values exist for a specific lifetime.
// Expired values are never returned; they are removed from memory by Sweep or the cleanup task.
type ExpiringMap[K comparable, V any] struct {
	mtx         sync.RWMutex
	underlying  map[K]*expiringEntry[V]
	lifetime    time.Duration
	now         func() time.Time
	cleanupTask *task.RepeatingTask
}

// NewExpiring creates a new expiring map whose values exist for the given lifetime
func NewExpiring[K comparable, V any](lifetime time.Duration) *ExpiringMap[K, V] {
	return &ExpiringMap[K, V]{
		underlying: make(map[K]*expiringEntry[V]),
		lifetime:   lifetime,
		now:        time.Now,
	}
}

// ScheduleCleanupTask schedules the task that sweeps expired values in a specific interval.
// StopCleanupTask has to be called as soon as the map is no longer needed.
func (obj *ExpiringMap[K, V]) ScheduleCleanupTask(tick time.Duration) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	if obj.cleanupTask != nil {
		return
	}
	obj.cleanupTask = task.NewRepeating(func() {
		obj.Sweep()
	}, tick)
	obj.cleanupTask.Start()
}

// StopCleanupTask stops the cleanup task if it is running
func (obj *ExpiringMap[K, V]) StopCleanupTask() {
	obj.mtx.Lock()
	cleanupTask := obj.cleanupTask
	obj.cleanupTask = nil
	obj.mtx.Unlock()

	if cleanupTask != nil {
		cleanupTask.Stop(false)
	}
}

// Size returns the amount of stored key-value pairs, including expired ones that were not swept yet
func (obj *ExpiringMap[K, V]) Size() int {
	obj.mtx.RLock()
	defer obj.mtx.RUnlock()
	return len(obj.underlying)
}

// Lookup returns the value assigned to the given key and whether it is present and not expired
func (obj *ExpiringMap[K, V]) Lookup(key K) (V, bool) {
	obj.mtx.RLock()
	defer obj.mtx.RUnlock()
	entry, ok := obj.underlying[key]
	if !ok || obj.expired(entry) {
		var zero V
		return zero, false
	}
	return entry.raw, true
}

// Set sets a key-value pair and resets its lifetime
func (obj *ExpiringMap[K, V]) Set(key K, value V) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	obj.underlying[key] = &expiringEntry[V]{
		raw:      value,
		inserted: obj.now(),
	}
}

// SetIfAbsent sets a key-value pair only if the key holds no live value yet.
// It returns the value the key holds afterwards and whether the given value was stored.
func (obj *ExpiringMap[K, V]) SetIfAbsent(key K, value V) (V, bool) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	if entry, ok := obj.underlying[key]; ok && !obj.expired(entry) {
		return entry.raw, false
	}
	obj.underlying[key] = &expiringEntry[V]{
		raw:      value,
		inserted: obj.now(),
	}
	return value, true
}

// Unset deletes the value assigned to given key
func (obj *ExpiringMap[K, V]) Unset(key K) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	delete(obj.underlying, key)
}

// Clear clears the whole map
func (obj *ExpiringMap[K, V]) Clear() {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	obj.underlying = make(map[K]*expiringEntry[V])
}

// Sweep removes every expired value and returns how many were removed
func (obj *ExpiringMap[K, V]) Sweep() int {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	removed := 0
	for key, entry := range obj.underlying {
		if obj.expired(entry) {
			delete(obj.underlying, key)
			removed++
		}
	}
	return removed
}

func (obj *ExpiringMap[K, V]) expired(entry *expiringEntry[V]) bool {
	return obj.lifetime > 0 && obj.now().Sub(entry.inserted) > obj.lifetime
}
