package task

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRepeatingTask(t *testing.T) {
	var runs int32
	task := NewRepeating(func() {
		atomic.AddInt32(&runs, 1)
	}, 5*time.Millisecond)

	assert.False(t, task.Running())
	task.Start()
	task.Start()
	assert.True(t, task.Running())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) >= 2
	}, time.Second, time.Millisecond)

	task.Stop(false)
	assert.False(t, task.Running())
	stopped := atomic.LoadInt32(&runs)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&runs))

	task.Stop(true)
	assert.Equal(t, stopped, atomic.LoadInt32(&runs))
}

func TestRepeatingTask_ForceExec(t *testing.T) {
	var runs int32
	task := NewRepeating(func() {
		atomic.AddInt32(&runs, 1)
	}, time.Hour)

	task.Start()
	task.Stop(true)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))

	// Restarting after a stop is allowed
	task.Start()
	assert.True(t, task.Running())
	task.Stop(false)
}
