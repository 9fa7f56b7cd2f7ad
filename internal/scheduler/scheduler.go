// Package scheduler provides the deferred-execution primitives behind
// the simulated payment gateway: one-shot delayed tasks for settlement
// and a fixed-period sweep loop for expiration.
package scheduler

import (
	"context"
	"sync"
	"time"
)

// CancelFunc stops a scheduled task that has not started yet.
type CancelFunc func()

// TaskScheduler runs a function once after a delay. Implementations must
// not block the caller.
type TaskScheduler interface {
	Schedule(delay time.Duration, task func(ctx context.Context)) CancelFunc
}

// TimerScheduler fires tasks on real timers. Stop cancels pending timers
// and prevents new ones; tasks already running are not interrupted
// beyond the context cancellation they observe.
type TimerScheduler struct {
	mu      sync.Mutex
	timers  map[*time.Timer]struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
}

func NewTimerScheduler() *TimerScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &TimerScheduler{
		timers: make(map[*time.Timer]struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *TimerScheduler) Schedule(delay time.Duration, task func(ctx context.Context)) CancelFunc {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return func() {}
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, timer)
		stopped := s.stopped
		s.mu.Unlock()
		if stopped {
			return
		}
		task(s.ctx)
	})
	s.timers[timer] = struct{}{}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if timer.Stop() {
			delete(s.timers, timer)
		}
	}
}

// Stop cancels all pending tasks.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for timer := range s.timers {
		timer.Stop()
	}
	s.timers = make(map[*time.Timer]struct{})
	s.mu.Unlock()
	s.cancel()
}

// ManualScheduler queues tasks and runs them only when told to, so tests
// control logical time instead of sleeping.
type ManualScheduler struct {
	mu    sync.Mutex
	queue []manualTask
}

type manualTask struct {
	delay     time.Duration
	task      func(ctx context.Context)
	cancelled *bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) Schedule(delay time.Duration, task func(ctx context.Context)) CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	cancelled := false
	s.queue = append(s.queue, manualTask{delay: delay, task: task, cancelled: &cancelled})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		cancelled = true
	}
}

// Pending reports the number of queued, uncancelled tasks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.queue {
		if !*t.cancelled {
			n++
		}
	}
	return n
}

// RunAll executes every queued task in scheduling order and clears the
// queue. Tasks scheduled by running tasks are left queued.
func (s *ManualScheduler) RunAll(ctx context.Context) {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, t := range queue {
		if *t.cancelled {
			continue
		}
		t.task(ctx)
	}
}
