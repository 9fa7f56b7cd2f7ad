//go:build unit

package cache_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"staybooker/internal/domain/booking"
	"staybooker/internal/infra/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustRange(t *testing.T, start, end string) booking.DateRange {
	t.Helper()
	r, err := booking.ParseDateRange(start, end)
	require.NoError(t, err)
	return r
}

func TestAvailabilityCacheHitMiss(t *testing.T) {
	var calls atomic.Int64
	c := cache.NewAvailabilityCache(func(_ context.Context, _ booking.DateRange) (int64, error) {
		calls.Add(1)
		return 42, nil
	}, discardLogger())

	ctx := context.Background()
	r := mustRange(t, "2025-06-01", "2025-06-10")

	n, err := c.GetCount(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.Equal(t, int64(1), calls.Load())

	// Identical range: served from the cache, zero extra computations.
	n, err = c.GetCount(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.Equal(t, int64(1), calls.Load())

	// A different range is a separate key.
	_, err = c.GetCount(ctx, mustRange(t, "2025-06-01", "2025-06-11"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestAvailabilityCacheErrorNotCached(t *testing.T) {
	var calls atomic.Int64
	fail := true
	c := cache.NewAvailabilityCache(func(_ context.Context, _ booking.DateRange) (int64, error) {
		calls.Add(1)
		if fail {
			return 0, assert.AnError
		}
		return 7, nil
	}, discardLogger())

	ctx := context.Background()
	r := mustRange(t, "2025-06-01", "2025-06-10")

	_, err := c.GetCount(ctx, r)
	require.Error(t, err)

	fail = false
	n, err := c.GetCount(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, int64(2), calls.Load())
}

func TestAvailabilityCacheInvalidationPrecision(t *testing.T) {
	var calls atomic.Int64
	c := cache.NewAvailabilityCache(func(_ context.Context, _ booking.DateRange) (int64, error) {
		calls.Add(1)
		return 1, nil
	}, discardLogger())

	ctx := context.Background()
	keyA := mustRange(t, "2025-06-01", "2025-06-10")
	keyB := mustRange(t, "2025-06-05", "2025-06-15")
	keyC := mustRange(t, "2025-07-01", "2025-07-10")
	keyD := mustRange(t, "2025-08-01", "2025-08-10")

	for _, r := range []booking.DateRange{keyA, keyB, keyC, keyD} {
		_, err := c.GetCount(ctx, r)
		require.NoError(t, err)
	}
	require.Equal(t, 4, c.Len())

	// Overlaps A and B, touches C at its boundary, misses D entirely.
	c.Invalidate(mustRange(t, "2025-06-08", "2025-07-12"))
	assert.Equal(t, 1, c.Len())

	// D survived: another read costs no computation.
	_, err := c.GetCount(ctx, keyD)
	require.NoError(t, err)
	assert.Equal(t, int64(4), calls.Load())

	// The evicted keys recompute on next read.
	_, err = c.GetCount(ctx, keyA)
	require.NoError(t, err)
	assert.Equal(t, int64(5), calls.Load())
}

func TestAvailabilityCacheConcurrentAccess(t *testing.T) {
	var calls atomic.Int64
	c := cache.NewAvailabilityCache(func(_ context.Context, dates booking.DateRange) (int64, error) {
		calls.Add(1)
		return int64(len(dates.StartISO())), nil
	}, discardLogger())

	ctx := context.Background()
	ranges := []booking.DateRange{
		mustRange(t, "2025-06-01", "2025-06-10"),
		mustRange(t, "2025-06-05", "2025-06-15"),
		mustRange(t, "2025-07-01", "2025-07-10"),
	}

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := ranges[i%len(ranges)]
			switch i % 5 {
			case 4:
				c.Invalidate(r)
			default:
				_, err := c.GetCount(ctx, r)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	// Readers repopulate after invalidations; final state must be coherent.
	for _, r := range ranges {
		n, err := c.GetCount(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, int64(10), n)
	}
}

// A booking write that lands while the counting query is in flight must
// not be masked forever: the flight's pre-write result may be served
// once but never stored past the invalidation.
func TestAvailabilityCacheInvalidationDuringCompute(t *testing.T) {
	var calls atomic.Int64
	computeStarted := make(chan struct{})
	releaseCompute := make(chan struct{})

	c := cache.NewAvailabilityCache(func(_ context.Context, _ booking.DateRange) (int64, error) {
		if calls.Add(1) == 1 {
			close(computeStarted)
			<-releaseCompute
			return 5, nil
		}
		return 4, nil
	}, discardLogger())

	ctx := context.Background()
	r := mustRange(t, "2025-06-01", "2025-06-10")

	first := make(chan int64, 1)
	go func() {
		n, err := c.GetCount(ctx, r)
		assert.NoError(t, err)
		first <- n
	}()

	// While the count is still being computed, a booking for the same
	// range is written and the overlapping entries are evicted.
	<-computeStarted
	c.Invalidate(r)
	close(releaseCompute)

	assert.Equal(t, int64(5), <-first)

	// The stale result must not have been stored: the next read
	// recomputes and sees the post-write count.
	n, err := c.GetCount(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, int64(2), calls.Load())
}
