package payment

import (
	"time"

	"staybooker/internal/domain/unit"
	"staybooker/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrAlreadyTerminal = errs.New("payment is already in a terminal status")

// Payment settles exactly one booking. Amount is fixed to the unit's
// total cost at initiation time.
type Payment struct {
	ID        uuid.UUID
	BookingID uuid.UUID
	Amount    unit.Money
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewPayment(bookingID uuid.UUID, amount unit.Money, now time.Time) *Payment {
	return &Payment{
		ID:        uuid.New(),
		BookingID: bookingID,
		Amount:    amount,
		Status:    StatusInitiated,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Complete moves INITIATED -> COMPLETED.
func (p *Payment) Complete(now time.Time) error {
	if p.Status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	p.Status = StatusCompleted
	p.UpdatedAt = now
	return nil
}

// Fail moves INITIATED -> FAILED.
func (p *Payment) Fail(now time.Time) error {
	if p.Status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	p.Status = StatusFailed
	p.UpdatedAt = now
	return nil
}

// Expiration marks a payment as still pending settlement. Its deletion is
// the atomic claim both the settlement task and the sweep race for:
// whichever side deletes the row wins, the other must no-op.
type Expiration struct {
	ID        uuid.UUID
	PaymentID uuid.UUID
	ExpiresAt time.Time
}

func NewExpiration(paymentID uuid.UUID, expiresAt time.Time) *Expiration {
	return &Expiration{
		ID:        uuid.New(),
		PaymentID: paymentID,
		ExpiresAt: expiresAt,
	}
}

// IsOverdue reports whether the deadline has strictly passed.
func (e *Expiration) IsOverdue(now time.Time) bool {
	return e.ExpiresAt.Before(now)
}
