//go:build unit

package scheduler_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"staybooker/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestManualScheduler(t *testing.T) {
	ctx := context.Background()

	t.Run("runs queued tasks in order", func(t *testing.T) {
		s := scheduler.NewManualScheduler()

		var order []int
		s.Schedule(time.Minute, func(context.Context) { order = append(order, 1) })
		s.Schedule(time.Second, func(context.Context) { order = append(order, 2) })
		assert.Equal(t, 2, s.Pending())

		s.RunAll(ctx)
		assert.Equal(t, []int{1, 2}, order)
		assert.Equal(t, 0, s.Pending())
	})

	t.Run("cancelled tasks never run", func(t *testing.T) {
		s := scheduler.NewManualScheduler()

		ran := false
		cancel := s.Schedule(time.Minute, func(context.Context) { ran = true })
		cancel()
		assert.Equal(t, 0, s.Pending())

		s.RunAll(ctx)
		assert.False(t, ran)
	})

	t.Run("tasks scheduled while running stay queued", func(t *testing.T) {
		s := scheduler.NewManualScheduler()

		var nested atomic.Bool
		s.Schedule(time.Minute, func(context.Context) {
			s.Schedule(time.Minute, func(context.Context) { nested.Store(true) })
		})

		s.RunAll(ctx)
		assert.False(t, nested.Load())
		assert.Equal(t, 1, s.Pending())

		s.RunAll(ctx)
		assert.True(t, nested.Load())
	})
}

func TestTimerScheduler(t *testing.T) {
	t.Run("fires after the delay", func(t *testing.T) {
		s := scheduler.NewTimerScheduler()
		defer s.Stop()

		done := make(chan struct{})
		s.Schedule(5*time.Millisecond, func(context.Context) { close(done) })

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("task never fired")
		}
	})

	t.Run("cancel prevents execution", func(t *testing.T) {
		s := scheduler.NewTimerScheduler()
		defer s.Stop()

		var ran atomic.Bool
		cancel := s.Schedule(20*time.Millisecond, func(context.Context) { ran.Store(true) })
		cancel()

		time.Sleep(60 * time.Millisecond)
		assert.False(t, ran.Load())
	})

	t.Run("stop drops pending tasks", func(t *testing.T) {
		s := scheduler.NewTimerScheduler()

		var ran atomic.Bool
		s.Schedule(20*time.Millisecond, func(context.Context) { ran.Store(true) })
		s.Stop()

		time.Sleep(60 * time.Millisecond)
		assert.False(t, ran.Load())

		// Scheduling after stop is a no-op.
		s.Schedule(time.Millisecond, func(context.Context) { ran.Store(true) })
		time.Sleep(20 * time.Millisecond)
		assert.False(t, ran.Load())
	})
}

func TestSweeper(t *testing.T) {
	t.Run("sweeps on every tick until cancelled", func(t *testing.T) {
		var sweeps atomic.Int64
		s := scheduler.NewSweeper(5*time.Millisecond, func(context.Context) (int, error) {
			sweeps.Add(1)
			return 1, nil
		}, discardLogger())

		ctx, cancel := context.WithCancel(context.Background())
		stopped := make(chan struct{})
		go func() {
			s.Run(ctx)
			close(stopped)
		}()

		require.Eventually(t, func() bool { return sweeps.Load() >= 3 }, time.Second, time.Millisecond)
		cancel()

		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("sweeper did not stop on cancellation")
		}
	})

	t.Run("a failing sweep does not stop the loop", func(t *testing.T) {
		var sweeps atomic.Int64
		s := scheduler.NewSweeper(5*time.Millisecond, func(context.Context) (int, error) {
			if sweeps.Add(1) == 1 {
				return 0, assert.AnError
			}
			return 0, nil
		}, discardLogger())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go s.Run(ctx)

		require.Eventually(t, func() bool { return sweeps.Load() >= 2 }, time.Second, time.Millisecond)
	})
}
