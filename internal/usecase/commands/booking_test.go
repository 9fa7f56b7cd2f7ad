//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"staybooker/internal/domain/booking"
	"staybooker/internal/domain/payment"
	"staybooker/internal/domain/unit"
	"staybooker/internal/domain/user"
	"staybooker/internal/pkg/clock"
	"staybooker/internal/usecase/commands"
	"staybooker/tests/common/fake"

	"github.com/google/uuid"
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

// recordingInitiator satisfies the payment port without touching any
// payment state, so booking tests observe initiation calls in isolation.
type recordingInitiator struct {
	mu    sync.Mutex
	calls []initiateCall
}

type initiateCall struct {
	bookingID uuid.UUID
	amount    unit.Money
}

func (r *recordingInitiator) InitiatePayment(_ context.Context, b *booking.Booking, amount unit.Money) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, initiateCall{bookingID: b.ID, amount: amount})
	return payment.NewPayment(b.ID, amount, time.Time{}), nil
}

func (r *recordingInitiator) Calls() []initiateCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]initiateCall, len(r.calls))
	copy(out, r.calls)
	return out
}

type bookingEnv struct {
	units       *fake.UnitRepository
	users       *fake.UserRepository
	bookings    *fake.BookingRepository
	invalidator *fake.Invalidator
	initiator   *recordingInitiator
	clock       *clock.MockClock
	commands    commands.BookingCommands
}

func newBookingEnv(t *testing.T) *bookingEnv {
	t.Helper()
	env := &bookingEnv{
		units:       fake.NewUnitRepository(),
		users:       fake.NewUserRepository(),
		bookings:    fake.NewBookingRepository(),
		invalidator: fake.NewInvalidator(),
		initiator:   &recordingInitiator{},
		clock:       clock.NewMockClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)),
	}
	env.commands = commands.NewBookingCommands(
		env.units, env.users, env.bookings, env.invalidator, env.initiator, env.clock, discardLogger(),
	)
	return env
}

func (e *bookingEnv) seedUnit(t *testing.T, baseCents int64) *unit.Unit {
	t.Helper()
	u, err := unit.NewUnit(2, unit.TypeFlat, 1, unit.MustMoney(baseCents), "test unit", unit.NewFixedMarkup(), e.clock.Now())
	require.NoError(t, err)
	require.NoError(t, e.units.Create(context.Background(), u))
	return u
}

func (e *bookingEnv) seedUser(t *testing.T) *user.User {
	t.Helper()
	u := &user.User{ID: uuid.New(), Name: "Test User", Email: "test@example.com", CreatedAt: e.clock.Now()}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func TestBookUnit(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending booking, invalidates cache and initiates payment", func(t *testing.T) {
		env := newBookingEnv(t)
		u := env.seedUnit(t, 10000)
		usr := env.seedUser(t)
		dates := mustRange(t, "2025-07-01", "2025-07-05")

		b, err := env.commands.BookUnit(ctx, u.ID, usr.ID, dates)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, b.Status)
		assert.Equal(t, u.ID, b.UnitID)
		assert.Equal(t, usr.ID, b.UserID)

		stored, err := env.bookings.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, stored.Status)

		evicted := env.invalidator.Ranges()
		require.Len(t, evicted, 1)
		assert.True(t, evicted[0].Overlaps(dates))

		calls := env.initiator.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, b.ID, calls[0].bookingID)
		assert.Equal(t, int64(11500), calls[0].amount.Cents())
	})

	t.Run("unknown unit", func(t *testing.T) {
		env := newBookingEnv(t)
		usr := env.seedUser(t)

		_, err := env.commands.BookUnit(ctx, uuid.New(), usr.ID, mustRange(t, "2025-07-01", "2025-07-05"))
		assert.ErrorIs(t, err, commands.ErrUnitNotFound)
		assert.Empty(t, env.initiator.Calls())
	})

	t.Run("unknown user", func(t *testing.T) {
		env := newBookingEnv(t)
		u := env.seedUnit(t, 10000)

		_, err := env.commands.BookUnit(ctx, u.ID, uuid.New(), mustRange(t, "2025-07-01", "2025-07-05"))
		assert.ErrorIs(t, err, commands.ErrUserNotFound)
		assert.Empty(t, env.initiator.Calls())
	})

	t.Run("overlapping range conflicts", func(t *testing.T) {
		env := newBookingEnv(t)
		u := env.seedUnit(t, 10000)
		usr := env.seedUser(t)

		_, err := env.commands.BookUnit(ctx, u.ID, usr.ID, mustRange(t, "2025-07-01", "2025-07-05"))
		require.NoError(t, err)

		_, err = env.commands.BookUnit(ctx, u.ID, usr.ID, mustRange(t, "2025-07-03", "2025-07-04"))
		assert.ErrorIs(t, err, commands.ErrUnitNotAvailable)

		// A cancelled booking frees the range again.
		all, err := env.bookings.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		_, err = env.bookings.UpdateStatusFrom(ctx, all[0].ID, booking.StatusPending, booking.StatusCancelled, env.clock.Now())
		require.NoError(t, err)

		_, err = env.commands.BookUnit(ctx, u.ID, usr.ID, mustRange(t, "2025-07-03", "2025-07-04"))
		assert.NoError(t, err)
	})

	t.Run("adjacent ranges do not conflict", func(t *testing.T) {
		env := newBookingEnv(t)
		u := env.seedUnit(t, 10000)
		usr := env.seedUser(t)

		_, err := env.commands.BookUnit(ctx, u.ID, usr.ID, mustRange(t, "2025-07-01", "2025-07-05"))
		require.NoError(t, err)

		// The ranges are inclusive, so the next free day is the 6th.
		_, err = env.commands.BookUnit(ctx, u.ID, usr.ID, mustRange(t, "2025-07-06", "2025-07-10"))
		assert.NoError(t, err)
	})

	t.Run("no double booking under concurrency", func(t *testing.T) {
		env := newBookingEnv(t)
		u := env.seedUnit(t, 10000)
		usr := env.seedUser(t)
		dates := mustRange(t, "2025-07-01", "2025-07-05")

		const attempts = 20
		results := make(chan error, attempts)

		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := env.commands.BookUnit(ctx, u.ID, usr.ID, dates)
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		succeeded, conflicted := 0, 0
		for err := range results {
			switch {
			case err == nil:
				succeeded++
			default:
				assert.ErrorIs(t, err, commands.ErrUnitNotAvailable)
				conflicted++
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, attempts-1, conflicted)

		all, err := env.bookings.List(ctx)
		require.NoError(t, err)
		active := 0
		for _, b := range all {
			if b.Status.IsActive() {
				active++
			}
		}
		assert.Equal(t, 1, active)
		assert.Len(t, env.initiator.Calls(), 1)
	})
}
