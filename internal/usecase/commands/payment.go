package commands

import (
	"context"
	"log/slog"
	"time"

	"staybooker/internal/domain/booking"
	"staybooker/internal/domain/payment"
	"staybooker/internal/domain/unit"
	"staybooker/internal/infra"
	"staybooker/internal/pkg/clock"
	"staybooker/internal/pkg/config"
	"staybooker/internal/pkg/errs"
	"staybooker/internal/pkg/random"
	"staybooker/internal/scheduler"

	"github.com/google/uuid"
)

var ErrPaymentNotFound = errs.New("payment not found")

// PaymentCommands drives the payment state machine:
//
//	INITIATED --(settlement task wins claim)--> COMPLETED, booking CONFIRMED
//	INITIATED --(sweep wins claim)-----------> FAILED,    booking CANCELLED
//
// Both transitions race over the payment's expiration row. Deleting that
// row is the claim; the loser finds it gone and performs no mutation.
type PaymentCommands interface {
	InitiatePayment(ctx context.Context, b *booking.Booking, amount unit.Money) (*payment.Payment, error)
	ProcessPayment(ctx context.Context, paymentID uuid.UUID) error
	ExpireOverduePayments(ctx context.Context) (int, error)
}

type paymentCommandsImpl struct {
	paymentRepo    PaymentRepository
	expirationRepo ExpirationRepository
	bookingRepo    BookingRepository
	invalidator    AvailabilityInvalidator
	clock          clock.Clock
	rand           random.Source
	tasks          scheduler.TaskScheduler
	cfg            config.PaymentConfig
	logger         *slog.Logger
}

func NewPaymentCommands(
	paymentRepo PaymentRepository,
	expirationRepo ExpirationRepository,
	bookingRepo BookingRepository,
	invalidator AvailabilityInvalidator,
	clk clock.Clock,
	rand random.Source,
	tasks scheduler.TaskScheduler,
	cfg config.PaymentConfig,
	logger *slog.Logger,
) PaymentCommands {
	return &paymentCommandsImpl{
		paymentRepo:    paymentRepo,
		expirationRepo: expirationRepo,
		bookingRepo:    bookingRepo,
		invalidator:    invalidator,
		clock:          clk,
		rand:           rand,
		tasks:          tasks,
		cfg:            cfg,
		logger:         logger,
	}
}

// InitiatePayment creates the INITIATED payment and its expiration row,
// then draws the simulated gateway outcome: on the success branch a
// settlement task is scheduled after the processing delay, on the
// failure branch nothing is scheduled and the sweep will reap the
// payment once the deadline passes.
func (c *paymentCommandsImpl) InitiatePayment(ctx context.Context, b *booking.Booking, amount unit.Money) (*payment.Payment, error) {
	now := c.clock.Now()

	p := payment.NewPayment(b.ID, amount, now)
	if err := c.paymentRepo.Create(ctx, p); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	exp := payment.NewExpiration(p.ID, now.Add(c.cfg.ProcessingDelay))
	if err := c.expirationRepo.Create(ctx, exp); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if c.rand.Float64() < c.cfg.SuccessProbability {
		paymentID := p.ID
		c.tasks.Schedule(c.cfg.ProcessingDelay, func(taskCtx context.Context) {
			if err := c.ProcessPayment(taskCtx, paymentID); err != nil {
				c.logger.Error("settlement task failed",
					"payment_id", paymentID, "error", err.Error())
			}
		})
		c.logger.Info("payment initiated, settlement scheduled",
			"payment_id", p.ID, "booking_id", b.ID, "delay", c.cfg.ProcessingDelay)
	} else {
		c.logger.Warn("simulated payment failure, awaiting expiration",
			"payment_id", p.ID, "booking_id", b.ID)
	}

	return p, nil
}

// ProcessPayment settles the payment if it is still pending. Unknown ids
// surface ErrPaymentNotFound; a payment whose expiration row is already
// gone (settled earlier or reaped by the sweep) is left untouched.
func (c *paymentCommandsImpl) ProcessPayment(ctx context.Context, paymentID uuid.UUID) error {
	p, err := c.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrPaymentNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	now := c.clock.Now()
	if err := p.Complete(now); err != nil {
		// Already terminal, nothing to settle.
		return nil
	}

	claimed, err := c.expirationRepo.DeleteByPaymentID(ctx, p.ID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !claimed {
		// Lost the race against the sweep.
		c.logger.Info("settlement skipped, expiration already claimed", "payment_id", p.ID)
		return nil
	}

	if _, err := c.paymentRepo.UpdateStatusFrom(ctx, p.ID, payment.StatusInitiated, p.Status, p.UpdatedAt); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	confirmed, err := c.bookingRepo.UpdateStatusFrom(ctx, p.BookingID, booking.StatusPending, booking.StatusConfirmed, p.UpdatedAt)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if confirmed {
		if b, err := c.bookingRepo.FindByID(ctx, p.BookingID); err == nil {
			c.invalidator.Invalidate(b.Dates)
		}
	}

	c.logger.Info("payment completed", "payment_id", p.ID, "booking_id", p.BookingID)
	return nil
}

// ExpireOverduePayments reaps every payment whose expiration deadline has
// strictly passed: payment FAILED, booking CANCELLED, expiration row
// removed. A record that cannot be processed is logged and skipped, never
// fatal to the rest of the batch. Returns the number of reaped payments.
func (c *paymentCommandsImpl) ExpireOverduePayments(ctx context.Context) (int, error) {
	now := c.clock.Now()

	overdue, err := c.expirationRepo.FindAllBefore(ctx, now)
	if err != nil {
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	reaped := 0
	for _, exp := range overdue {
		if c.expireOne(ctx, exp, now) {
			reaped++
		}
	}

	if reaped > 0 {
		c.logger.Info("expiration sweep finished", "overdue", len(overdue), "reaped", reaped)
	}
	return reaped, nil
}

func (c *paymentCommandsImpl) expireOne(ctx context.Context, exp payment.Expiration, now time.Time) bool {
	p, err := c.paymentRepo.FindByID(ctx, exp.PaymentID)
	if err != nil {
		c.logger.Error("skipping expiration with unresolvable payment",
			"expiration_id", exp.ID, "payment_id", exp.PaymentID, "error", err.Error())
		return false
	}

	if err := p.Fail(now); err != nil {
		// A terminal payment should not still carry an expiration row;
		// drop it so the sweep stops revisiting the record.
		if _, delErr := c.expirationRepo.DeleteByPaymentID(ctx, exp.PaymentID); delErr != nil {
			c.logger.Error("failed to drop stale expiration",
				"expiration_id", exp.ID, "payment_id", exp.PaymentID, "error", delErr.Error())
		}
		return false
	}

	claimed, err := c.expirationRepo.DeleteByPaymentID(ctx, exp.PaymentID)
	if err != nil {
		c.logger.Error("failed to claim expiration",
			"expiration_id", exp.ID, "payment_id", exp.PaymentID, "error", err.Error())
		return false
	}
	if !claimed {
		// A settlement task got here first.
		return false
	}

	if _, err := c.paymentRepo.UpdateStatusFrom(ctx, p.ID, payment.StatusInitiated, p.Status, p.UpdatedAt); err != nil {
		c.logger.Error("failed to fail payment", "payment_id", p.ID, "error", err.Error())
		return false
	}

	cancelled, err := c.bookingRepo.UpdateStatusFrom(ctx, p.BookingID, booking.StatusPending, booking.StatusCancelled, p.UpdatedAt)
	if err != nil {
		c.logger.Error("failed to cancel booking", "booking_id", p.BookingID, "error", err.Error())
		return false
	}
	if cancelled {
		if b, err := c.bookingRepo.FindByID(ctx, p.BookingID); err == nil {
			c.invalidator.Invalidate(b.Dates)
		}
	}

	c.logger.Info("payment expired",
		"payment_id", p.ID, "booking_id", p.BookingID, "deadline", exp.ExpiresAt)
	return true
}
