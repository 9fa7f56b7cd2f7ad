package commands

import (
	"context"
	"log/slog"

	"staybooker/internal/domain/booking"
	"staybooker/internal/domain/payment"
	"staybooker/internal/domain/unit"
	"staybooker/internal/infra"
	"staybooker/internal/pkg/clock"
	"staybooker/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrUnitNotFound            = errs.New("unit not found")
	ErrUserNotFound            = errs.New("user not found")
	ErrUnitNotAvailable        = errs.New("unit is not available for the chosen date range")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// PaymentInitiator starts the settlement process for a freshly created
// booking. Implemented by PaymentCommands; declared here so the booking
// workflow depends only on the one operation it uses.
type PaymentInitiator interface {
	InitiatePayment(ctx context.Context, b *booking.Booking, amount unit.Money) (*payment.Payment, error)
}

type BookingCommands interface {
	// BookUnit books the unit for the user over the inclusive date range:
	// it resolves both entities, atomically conflict-checks and persists a
	// PENDING booking, evicts overlapping availability counts, and
	// initiates payment.
	BookUnit(ctx context.Context, unitID, userID uuid.UUID, dates booking.DateRange) (*booking.Booking, error)
}

type bookingCommandsImpl struct {
	unitRepo    UnitRepository
	userRepo    UserRepository
	bookingRepo BookingRepository
	invalidator AvailabilityInvalidator
	payments    PaymentInitiator
	clock       clock.Clock
	logger      *slog.Logger
}

func NewBookingCommands(
	unitRepo UnitRepository,
	userRepo UserRepository,
	bookingRepo BookingRepository,
	invalidator AvailabilityInvalidator,
	payments PaymentInitiator,
	clk clock.Clock,
	logger *slog.Logger,
) BookingCommands {
	return &bookingCommandsImpl{
		unitRepo:    unitRepo,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		invalidator: invalidator,
		payments:    payments,
		clock:       clk,
		logger:      logger,
	}
}

func (c *bookingCommandsImpl) BookUnit(ctx context.Context, unitID, userID uuid.UUID, dates booking.DateRange) (*booking.Booking, error) {
	u, err := c.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if _, err := c.userRepo.FindByID(ctx, userID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	b := booking.NewBooking(unitID, userID, dates, c.clock.Now())

	// The conflict check and the insert happen inside the repository's
	// per-unit critical section; a plain check-then-insert here would let
	// two concurrent requests both pass the check.
	if err := c.bookingRepo.CreateIfAvailable(ctx, b); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			c.logger.Warn("booking conflict",
				"unit_id", unitID, "range", dates.String())
			return nil, ErrUnitNotAvailable
		}
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	// Invalidation follows the committed write; evicting before the row
	// is visible would let a racing read repopulate a stale count.
	c.invalidator.Invalidate(dates)

	if _, err := c.payments.InitiatePayment(ctx, b, u.TotalCost); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	c.logger.Info("unit booked",
		"booking_id", b.ID, "unit_id", unitID, "user_id", userID, "range", dates.String())
	return b, nil
}
