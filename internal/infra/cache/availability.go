// Package cache holds the in-process availability cache: a concurrent
// (startDate, endDate) -> free-unit-count map populated lazily from a
// counting query and invalidated by date-range overlap.
//
// The cache is derived, disposable state; the booking store stays the
// source of truth. A read racing ahead of an invalidation may briefly
// return a stale count. Entries have no TTL and no size bound, so an
// adversarial stream of distinct ranges can grow the map without limit;
// realistic query patterns keep the key space small.
package cache

import (
	"context"
	"log/slog"
	"sync"

	"staybooker/internal/domain/booking"

	"golang.org/x/sync/singleflight"
)

// CountFunc computes the number of units with no active booking
// overlapping the range. Supplied by the unit store.
type CountFunc func(ctx context.Context, dates booking.DateRange) (int64, error)

// rangeKey is a comparable encoding of a date range. Using a struct of
// the two ISO dates keeps start/end unambiguous without delimiter games.
type rangeKey struct {
	start string
	end   string
}

type entry struct {
	dates booking.DateRange
	count int64
}

type AvailabilityCache struct {
	mu      sync.RWMutex
	entries map[rangeKey]entry
	// gen increments on every Invalidate. A computation that started
	// before the bump may have read pre-write state, so its result must
	// not be stored.
	gen uint64

	group  singleflight.Group
	count  CountFunc
	logger *slog.Logger
}

func NewAvailabilityCache(count CountFunc, logger *slog.Logger) *AvailabilityCache {
	return &AvailabilityCache{
		entries: make(map[rangeKey]entry),
		count:   count,
		logger:  logger,
	}
}

// GetCount returns the cached count for the range, computing it at most
// once per key: concurrent first readers of the same key share a single
// call to the counting query.
func (c *AvailabilityCache) GetCount(ctx context.Context, dates booking.DateRange) (int64, error) {
	key := keyFor(dates)

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return e.count, nil
	}

	v, err, _ := c.group.Do(key.start+"_"+key.end, func() (any, error) {
		// Re-check under the group: a previous flight may have stored it.
		c.mu.RLock()
		e, ok := c.entries[key]
		gen := c.gen
		c.mu.RUnlock()
		if ok {
			return e.count, nil
		}

		c.logger.Info("availability cache miss", "range", dates.String())
		n, err := c.count(ctx, dates)
		if err != nil {
			return int64(0), err
		}

		c.mu.Lock()
		// An invalidation that ran during the counting query evicted an
		// entry this flight has not stored yet. Storing now would pin the
		// pre-write count forever, so serve it once and recompute on the
		// next read instead.
		if c.gen == gen {
			c.entries[key] = entry{dates: dates, count: n}
		}
		c.mu.Unlock()
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// Invalidate removes every entry whose range overlaps the changed range.
// Called after a booking is created, confirmed, or cancelled.
func (c *AvailabilityCache) Invalidate(changed booking.DateRange) {
	c.mu.Lock()
	// The bump must happen even when nothing is evicted: the entry an
	// in-flight computation is about to store is not in the map yet.
	c.gen++
	before := len(c.entries)
	for k, e := range c.entries {
		if e.dates.Overlaps(changed) {
			delete(c.entries, k)
		}
	}
	after := len(c.entries)
	c.mu.Unlock()

	if before != after {
		c.logger.Info("availability cache invalidated",
			"range", changed.String(), "evicted", before-after)
	}
}

// Len reports the number of live entries.
func (c *AvailabilityCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func keyFor(dates booking.DateRange) rangeKey {
	return rangeKey{start: dates.StartISO(), end: dates.EndISO()}
}
