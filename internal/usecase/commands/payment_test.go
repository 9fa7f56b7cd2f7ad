//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"staybooker/internal/domain/booking"
	"staybooker/internal/domain/payment"
	"staybooker/internal/domain/unit"
	"staybooker/internal/domain/user"
	"staybooker/internal/pkg/clock"
	"staybooker/internal/pkg/config"
	"staybooker/internal/pkg/random"
	"staybooker/internal/scheduler"
	"staybooker/internal/usecase/commands"
	"staybooker/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentEnv struct {
	units           *fake.UnitRepository
	users           *fake.UserRepository
	bookings        *fake.BookingRepository
	payments        *fake.PaymentRepository
	expirations     *fake.ExpirationRepository
	invalidator     *fake.Invalidator
	clock           *clock.MockClock
	tasks           *scheduler.ManualScheduler
	cfg             config.PaymentConfig
	paymentCommands commands.PaymentCommands
	bookingCommands commands.BookingCommands
}

// newPaymentEnv wires the full booking and payment command stack over
// in-memory stores with simulated time, queued tasks and a fixed random
// draw of 0.5: a success probability above that settles, below it leaves
// the payment for the sweep.
func newPaymentEnv(t *testing.T, successProbability float64) *paymentEnv {
	t.Helper()
	cfg := config.NewTestConfig().Payment
	cfg.SuccessProbability = successProbability
	env := &paymentEnv{
		units:       fake.NewUnitRepository(),
		users:       fake.NewUserRepository(),
		bookings:    fake.NewBookingRepository(),
		payments:    fake.NewPaymentRepository(),
		expirations: fake.NewExpirationRepository(),
		invalidator: fake.NewInvalidator(),
		clock:       clock.NewMockClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)),
		tasks:       scheduler.NewManualScheduler(),
		cfg: cfg,
	}
	env.paymentCommands = commands.NewPaymentCommands(
		env.payments, env.expirations, env.bookings, env.invalidator,
		env.clock, random.NewFixedSource(0.5), env.tasks, env.cfg, discardLogger(),
	)
	env.bookingCommands = commands.NewBookingCommands(
		env.units, env.users, env.bookings, env.invalidator, env.paymentCommands,
		env.clock, discardLogger(),
	)
	return env
}

// book seeds a unit and user and runs the full booking workflow once.
func (e *paymentEnv) book(t *testing.T, start, end string) (*booking.Booking, *payment.Payment) {
	t.Helper()
	ctx := context.Background()

	u, err := unit.NewUnit(2, unit.TypeFlat, 1, unit.MustMoney(10000), "test unit", unit.NewFixedMarkup(), e.clock.Now())
	require.NoError(t, err)
	require.NoError(t, e.units.Create(ctx, u))
	usr := &user.User{ID: uuid.New(), Name: "Test User", Email: "test@example.com", CreatedAt: e.clock.Now()}
	require.NoError(t, e.users.Create(ctx, usr))

	b, err := e.bookingCommands.BookUnit(ctx, u.ID, usr.ID, mustRange(t, start, end))
	require.NoError(t, err)

	payments, err := e.payments.List(ctx)
	require.NoError(t, err)
	var p *payment.Payment
	for i := range payments {
		if payments[i].BookingID == b.ID {
			p = &payments[i]
		}
	}
	require.NotNil(t, p)
	return b, p
}

func (e *paymentEnv) paymentStatus(t *testing.T, id uuid.UUID) payment.Status {
	t.Helper()
	p, err := e.payments.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Status
}

func (e *paymentEnv) bookingStatus(t *testing.T, id uuid.UUID) booking.Status {
	t.Helper()
	b, err := e.bookings.FindByID(context.Background(), id)
	require.NoError(t, err)
	return b.Status
}

func TestInitiatePayment(t *testing.T) {
	t.Run("success branch schedules a settlement task", func(t *testing.T) {
		env := newPaymentEnv(t, 0.8)
		_, p := env.book(t, "2025-07-01", "2025-07-05")

		assert.Equal(t, payment.StatusInitiated, p.Status)
		assert.Equal(t, int64(11500), p.Amount.Cents())
		assert.Equal(t, 1, env.tasks.Pending())

		// Deadline sits at now + processing delay.
		overdue, err := env.expirations.FindAllBefore(context.Background(), env.clock.Now().Add(env.cfg.ProcessingDelay+time.Second))
		require.NoError(t, err)
		require.Len(t, overdue, 1)
		assert.Equal(t, p.ID, overdue[0].PaymentID)
		assert.Equal(t, env.clock.Now().Add(env.cfg.ProcessingDelay), overdue[0].ExpiresAt)
	})

	t.Run("failure branch schedules nothing", func(t *testing.T) {
		env := newPaymentEnv(t, 0)
		_, p := env.book(t, "2025-07-01", "2025-07-05")

		assert.Equal(t, payment.StatusInitiated, p.Status)
		assert.Equal(t, 0, env.tasks.Pending())
		assert.Equal(t, 1, env.expirations.Len())
	})
}

func TestProcessPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("settles and confirms", func(t *testing.T) {
		env := newPaymentEnv(t, 1)
		b, p := env.book(t, "2025-07-01", "2025-07-05")

		env.clock.Add(env.cfg.ProcessingDelay)
		env.tasks.RunAll(ctx)

		assert.Equal(t, payment.StatusCompleted, env.paymentStatus(t, p.ID))
		assert.Equal(t, booking.StatusConfirmed, env.bookingStatus(t, b.ID))
		assert.Equal(t, 0, env.expirations.Len())

		// Booking creation and confirmation each evict overlapping counts.
		assert.Len(t, env.invalidator.Ranges(), 2)
	})

	t.Run("unknown payment id", func(t *testing.T) {
		env := newPaymentEnv(t, 1)
		err := env.paymentCommands.ProcessPayment(ctx, uuid.New())
		assert.ErrorIs(t, err, commands.ErrPaymentNotFound)
	})

	t.Run("terminal payment is left untouched", func(t *testing.T) {
		env := newPaymentEnv(t, 1)
		b, p := env.book(t, "2025-07-01", "2025-07-05")

		env.clock.Add(env.cfg.ProcessingDelay)
		env.tasks.RunAll(ctx)
		require.Equal(t, payment.StatusCompleted, env.paymentStatus(t, p.ID))

		// A duplicate settlement attempt and a late sweep both no-op.
		require.NoError(t, env.paymentCommands.ProcessPayment(ctx, p.ID))
		env.clock.Add(time.Hour)
		reaped, err := env.paymentCommands.ExpireOverduePayments(ctx)
		require.NoError(t, err)
		assert.Zero(t, reaped)

		assert.Equal(t, payment.StatusCompleted, env.paymentStatus(t, p.ID))
		assert.Equal(t, booking.StatusConfirmed, env.bookingStatus(t, b.ID))
	})
}

func TestExpireOverduePayments(t *testing.T) {
	ctx := context.Background()

	t.Run("reaps only strictly overdue records", func(t *testing.T) {
		env := newPaymentEnv(t, 0)
		b, p := env.book(t, "2025-07-01", "2025-07-05")

		// Exactly at the deadline nothing is overdue yet.
		env.clock.Add(env.cfg.ProcessingDelay)
		reaped, err := env.paymentCommands.ExpireOverduePayments(ctx)
		require.NoError(t, err)
		assert.Zero(t, reaped)
		assert.Equal(t, payment.StatusInitiated, env.paymentStatus(t, p.ID))

		env.clock.Add(time.Second)
		reaped, err = env.paymentCommands.ExpireOverduePayments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, reaped)

		assert.Equal(t, payment.StatusFailed, env.paymentStatus(t, p.ID))
		assert.Equal(t, booking.StatusCancelled, env.bookingStatus(t, b.ID))
		assert.Equal(t, 0, env.expirations.Len())
	})

	t.Run("is idempotent", func(t *testing.T) {
		env := newPaymentEnv(t, 0)
		b, p := env.book(t, "2025-07-01", "2025-07-05")

		env.clock.Add(env.cfg.ProcessingDelay + time.Second)
		_, err := env.paymentCommands.ExpireOverduePayments(ctx)
		require.NoError(t, err)

		reaped, err := env.paymentCommands.ExpireOverduePayments(ctx)
		require.NoError(t, err)
		assert.Zero(t, reaped)
		assert.Equal(t, payment.StatusFailed, env.paymentStatus(t, p.ID))
		assert.Equal(t, booking.StatusCancelled, env.bookingStatus(t, b.ID))
	})

	t.Run("a broken record does not abort the batch", func(t *testing.T) {
		env := newPaymentEnv(t, 0)
		_, p := env.book(t, "2025-07-01", "2025-07-05")

		// Expiration pointing at a payment that does not exist.
		orphan := payment.NewExpiration(uuid.New(), env.clock.Now())
		require.NoError(t, env.expirations.Create(ctx, orphan))

		env.clock.Add(env.cfg.ProcessingDelay + time.Second)
		reaped, err := env.paymentCommands.ExpireOverduePayments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, reaped)
		assert.Equal(t, payment.StatusFailed, env.paymentStatus(t, p.ID))
	})

	t.Run("drops a stale row for a terminal payment", func(t *testing.T) {
		env := newPaymentEnv(t, 0)

		// An expiration row left behind for an already settled payment
		// must be cleaned up without touching the payment.
		p := payment.NewPayment(uuid.New(), unit.MustMoney(11500), env.clock.Now())
		require.NoError(t, p.Complete(env.clock.Now()))
		require.NoError(t, env.payments.Create(ctx, p))
		require.NoError(t, env.expirations.Create(ctx, payment.NewExpiration(p.ID, env.clock.Now())))

		env.clock.Add(time.Second)
		reaped, err := env.paymentCommands.ExpireOverduePayments(ctx)
		require.NoError(t, err)
		assert.Zero(t, reaped)
		assert.Equal(t, 0, env.expirations.Len())
		assert.Equal(t, payment.StatusCompleted, env.paymentStatus(t, p.ID))
	})
}

func TestSettlementSweepRace(t *testing.T) {
	// Both sides fire at the same logical instant; exactly one outcome
	// pair may materialize and the expiration row must always be claimed.
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		env := newPaymentEnv(t, 1)
		b, p := env.book(t, "2025-07-01", "2025-07-05")
		env.clock.Add(env.cfg.ProcessingDelay + time.Second)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			env.tasks.RunAll(ctx)
		}()
		go func() {
			defer wg.Done()
			_, err := env.paymentCommands.ExpireOverduePayments(ctx)
			assert.NoError(t, err)
		}()
		wg.Wait()

		ps := env.paymentStatus(t, p.ID)
		bs := env.bookingStatus(t, b.ID)
		switch ps {
		case payment.StatusCompleted:
			assert.Equal(t, booking.StatusConfirmed, bs)
		case payment.StatusFailed:
			assert.Equal(t, booking.StatusCancelled, bs)
		default:
			t.Fatalf("payment left in non-terminal status %s", ps)
		}
		assert.Equal(t, 0, env.expirations.Len())
	}
}

func TestBookingSettlementScenario(t *testing.T) {
	ctx := context.Background()
	env := newPaymentEnv(t, 0)

	// Unit with totalCost 115.00, no bookings.
	b, p := env.book(t, "2025-07-01", "2025-07-05")
	assert.Equal(t, booking.StatusPending, b.Status)
	assert.Equal(t, "115.00", p.Amount.String())
	assert.Equal(t, payment.StatusInitiated, p.Status)
	assert.Equal(t, 1, env.expirations.Len())

	// Overlapping second attempt conflicts.
	_, err := env.bookingCommands.BookUnit(ctx, b.UnitID, b.UserID, mustRange(t, "2025-07-03", "2025-07-04"))
	assert.ErrorIs(t, err, commands.ErrUnitNotAvailable)

	// Settlement probability is zero, so only the sweep acts.
	env.clock.Add(env.cfg.SweepInterval)
	reaped, err := env.paymentCommands.ExpireOverduePayments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reaped)

	assert.Equal(t, booking.StatusCancelled, env.bookingStatus(t, b.ID))
	assert.Equal(t, payment.StatusFailed, env.paymentStatus(t, p.ID))
	assert.Equal(t, 0, env.expirations.Len())

	// The range is bookable again once the old booking is cancelled.
	_, err = env.bookingCommands.BookUnit(ctx, b.UnitID, b.UserID, mustRange(t, "2025-07-03", "2025-07-04"))
	assert.NoError(t, err)
}
