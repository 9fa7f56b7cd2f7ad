//go:build unit

package booking_test

import (
	"testing"
	"time"

	"staybooker/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooking(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	dates := mustRange(t, "2025-07-01", "2025-07-05")

	t.Run("new booking starts pending", func(t *testing.T) {
		b := booking.NewBooking(uuid.New(), uuid.New(), dates, now)
		assert.NotEqual(t, uuid.Nil, b.ID)
		assert.Equal(t, booking.StatusPending, b.Status)
		assert.True(t, b.Status.IsActive())
		assert.False(t, b.Status.IsTerminal())
		assert.Equal(t, now, b.CreatedAt)
		assert.Equal(t, now, b.UpdatedAt)
	})

	t.Run("confirm and cancel are one-way", func(t *testing.T) {
		later := now.Add(2 * time.Minute)

		b := booking.NewBooking(uuid.New(), uuid.New(), dates, now)
		require.NoError(t, b.Confirm(later))
		assert.Equal(t, booking.StatusConfirmed, b.Status)
		assert.Equal(t, later, b.UpdatedAt)
		assert.ErrorIs(t, b.Cancel(later), booking.ErrAlreadyTerminal)
		assert.Equal(t, booking.StatusConfirmed, b.Status)

		b2 := booking.NewBooking(uuid.New(), uuid.New(), dates, now)
		require.NoError(t, b2.Cancel(later))
		assert.Equal(t, booking.StatusCancelled, b2.Status)
		assert.ErrorIs(t, b2.Confirm(later), booking.ErrAlreadyTerminal)
		assert.Equal(t, booking.StatusCancelled, b2.Status)
	})

	t.Run("conflicts require same unit, active status and overlap", func(t *testing.T) {
		unitID := uuid.New()
		candidate := booking.NewBooking(unitID, uuid.New(), dates, now)

		overlapping := booking.NewBooking(unitID, uuid.New(), mustRange(t, "2025-07-03", "2025-07-08"), now)
		assert.True(t, candidate.ConflictsWith(overlapping))

		otherUnit := booking.NewBooking(uuid.New(), uuid.New(), dates, now)
		assert.False(t, candidate.ConflictsWith(otherUnit))

		cancelled := booking.NewBooking(unitID, uuid.New(), dates, now)
		require.NoError(t, cancelled.Cancel(now))
		assert.False(t, candidate.ConflictsWith(cancelled))

		disjoint := booking.NewBooking(unitID, uuid.New(), mustRange(t, "2025-08-01", "2025-08-05"), now)
		assert.False(t, candidate.ConflictsWith(disjoint))
	})
}
