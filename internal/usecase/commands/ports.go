package commands

import (
	"context"
	"time"

	"staybooker/internal/domain/booking"
	"staybooker/internal/domain/payment"
	"staybooker/internal/domain/unit"
	"staybooker/internal/domain/user"

	"github.com/google/uuid"
)

type UnitRepository interface {
	Create(ctx context.Context, u *unit.Unit) error
	FindByID(ctx context.Context, id uuid.UUID) (*unit.Unit, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type BookingRepository interface {
	// CreateIfAvailable atomically checks for overlapping active bookings
	// on the booking's unit and inserts when none exists. Concurrent
	// attempts on the same unit are serialized by the implementation.
	CreateIfAvailable(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// UpdateStatusFrom transitions id from one status to another and
	// reports whether the row was in the expected source status.
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to booking.Status, updatedAt time.Time) (bool, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error)
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to payment.Status, updatedAt time.Time) (bool, error)
}

type ExpirationRepository interface {
	Create(ctx context.Context, e *payment.Expiration) error
	// DeleteByPaymentID reports whether this caller deleted the row. The
	// settlement task and the expiration sweep both call it; exactly one
	// of them observes true.
	DeleteByPaymentID(ctx context.Context, paymentID uuid.UUID) (bool, error)
	FindAllBefore(ctx context.Context, cutoff time.Time) ([]payment.Expiration, error)
}

// AvailabilityInvalidator evicts cached availability counts whose range
// overlaps a changed booking's dates.
type AvailabilityInvalidator interface {
	Invalidate(changed booking.DateRange)
}
