// Package schedule runs a function on a fixed interval until stopped.
package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is a restartable interval job. Stop blocks until the running loop
// has exited, so no call of fn starts after Stop returns.
type Task struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewTask(name string, interval time.Duration, fn func(ctx context.Context)) *Task {
	return &Task{
		name:     name,
		interval: interval,
		fn:       fn,
	}
}

// Start launches the loop, replacing a running one. With immediate set fn
// runs once right away before the first tick.
func (t *Task) Start(ctx context.Context, immediate bool) {
	t.Stop()
	t.mu.Lock()
	defer t.mu.Unlock()
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	go t.loop(loopCtx, done, immediate)
	slog.Debug("task started", slog.String("task", t.name), slog.Duration("interval", t.interval))
}

func (t *Task) loop(ctx context.Context, done chan struct{}, immediate bool) {
	defer close(done)
	if immediate {
		t.fn(ctx)
	}
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A tick and a cancel may be ready together
			if ctx.Err() != nil {
				return
			}
			t.fn(ctx)
		}
	}
}

func (t *Task) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	slog.Debug("task stopped", slog.String("task", t.name))
}

// Running reports whether the loop is alive. It turns false on Stop and
// also when the parent context of Start is cancelled.
func (t *Task) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

func (t *Task) Interval() time.Duration {
	return t.interval
}
