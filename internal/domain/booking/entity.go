package booking

import (
	"time"

	"staybooker/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyTerminal is returned by a transition attempted on a
	// CONFIRMED or CANCELLED booking.
	ErrAlreadyTerminal = errs.New("booking is already in a terminal status")
)

// Booking reserves one unit for one user over an inclusive date range.
// Created PENDING; settlement confirms it, the expiration sweep cancels it.
type Booking struct {
	ID        uuid.UUID
	UnitID    uuid.UUID
	UserID    uuid.UUID
	Dates     DateRange
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewBooking(unitID, userID uuid.UUID, dates DateRange, now time.Time) *Booking {
	return &Booking{
		ID:        uuid.New(),
		UnitID:    unitID,
		UserID:    userID,
		Dates:     dates,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Confirm moves PENDING -> CONFIRMED.
func (b *Booking) Confirm(now time.Time) error {
	if b.Status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now
	return nil
}

// Cancel moves PENDING -> CANCELLED.
func (b *Booking) Cancel(now time.Time) error {
	if b.Status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now
	return nil
}

// ConflictsWith reports whether another booking would block this one:
// same unit, active status, overlapping dates.
func (b *Booking) ConflictsWith(other *Booking) bool {
	if b.UnitID != other.UnitID {
		return false
	}
	if !other.Status.IsActive() {
		return false
	}
	return b.Dates.Overlaps(other.Dates)
}
