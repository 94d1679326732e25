package schedule_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/limbo/hydrobuddy/pkg/schedule"
	"github.com/stretchr/testify/assert"
)

func TestTaskTicksUntilStopped(t *testing.T) {
	var calls atomic.Int32
	task := schedule.NewTask("test", 5*time.Millisecond, func(ctx context.Context) {
		calls.Add(1)
	})
	task.Start(context.Background(), false)
	assert.True(t, task.Running())
	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)

	task.Stop()
	assert.False(t, task.Running())
	stopped := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
}

func TestTaskImmediateRun(t *testing.T) {
	ran := make(chan struct{}, 1)
	task := schedule.NewTask("immediate", time.Hour, func(ctx context.Context) {
		ran <- struct{}{}
	})
	task.Start(context.Background(), true)
	defer task.Stop()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("immediate run didn't happen")
	}
}

func TestTaskRestartAndDoubleStop(t *testing.T) {
	var calls atomic.Int32
	task := schedule.NewTask("restart", 5*time.Millisecond, func(ctx context.Context) {
		calls.Add(1)
	})
	task.Start(context.Background(), false)
	task.Start(context.Background(), false)
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)
	task.Stop()
	task.Stop()
	assert.False(t, task.Running())
}

func TestTaskStopsWithParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	task := schedule.NewTask("parent", 5*time.Millisecond, func(ctx context.Context) {
		calls.Add(1)
	})
	task.Start(ctx, false)
	cancel()
	assert.Eventually(t, func() bool { return !task.Running() }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	before := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, before, calls.Load())
	task.Stop()
}
