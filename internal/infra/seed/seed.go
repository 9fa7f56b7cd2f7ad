// Package seed preloads demo data at startup: a batch of randomized
// units plus payment records derived from whatever bookings exist.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"staybooker/internal/domain/booking"
	"staybooker/internal/domain/payment"
	"staybooker/internal/domain/unit"
	"staybooker/internal/infra/repository"
	"staybooker/internal/pkg/clock"
	"staybooker/internal/pkg/config"
	"staybooker/internal/pkg/errs"
	"staybooker/internal/pkg/random"
	"staybooker/internal/usecase/commands"
)

const (
	maxRooms          = 5
	maxFloor          = 10
	minBaseCostUnits  = 50
	baseCostSpanUnits = 100
)

type Seeder struct {
	unitCommands   commands.UnitCommands
	unitRepo       *repository.UnitRepository
	bookingRepo    *repository.BookingRepository
	paymentRepo    *repository.PaymentRepository
	expirationRepo *repository.ExpirationRepository
	clock          clock.Clock
	rand           random.Source
	cfg            config.SeedConfig
	logger         *slog.Logger
}

func NewSeeder(
	unitCommands commands.UnitCommands,
	unitRepo *repository.UnitRepository,
	bookingRepo *repository.BookingRepository,
	paymentRepo *repository.PaymentRepository,
	expirationRepo *repository.ExpirationRepository,
	clk clock.Clock,
	rand random.Source,
	cfg config.SeedConfig,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		unitCommands:   unitCommands,
		unitRepo:       unitRepo,
		bookingRepo:    bookingRepo,
		paymentRepo:    paymentRepo,
		expirationRepo: expirationRepo,
		clock:          clk,
		rand:           rand,
		cfg:            cfg,
		logger:         logger,
	}
}

func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedUnits(ctx); err != nil {
		return err
	}
	if err := s.seedPayments(ctx); err != nil {
		return err
	}
	return nil
}

// seedUnits inserts the configured number of randomized units. A
// non-empty units table means a previous run already seeded, so the
// whole step is skipped.
func (s *Seeder) seedUnits(ctx context.Context) error {
	_, total, err := s.unitRepo.Search(ctx, unit.SearchCriteria{}, unit.Sort{By: "id", Ascending: true}, 0, 1)
	if err != nil {
		return errs.Wrap(err, "failed to check existing units")
	}
	if total > 0 {
		s.logger.Info("unit seeding skipped, units already present", "count", total)
		return nil
	}

	types := unit.AllTypes()
	for i := 0; i < s.cfg.UnitCount; i++ {
		baseCostCents := int64(math.Round((minBaseCostUnits + baseCostSpanUnits*s.rand.Float64()) * 100))
		params := commands.AddUnitParams{
			Rooms:       s.randInt(maxRooms) + 1,
			Type:        types[s.randInt(len(types))],
			Floor:       s.randInt(maxFloor) + 1,
			BaseCost:    unit.MustMoney(baseCostCents),
			Description: fmt.Sprintf("Auto-generated unit %d", i+1),
		}
		if _, err := s.unitCommands.AddUnit(ctx, params); err != nil {
			return errs.Wrap(err, "failed to seed unit")
		}
	}

	s.logger.Info("units seeded", "count", s.cfg.UnitCount)
	return nil
}

// seedPayments backfills one payment per booking that has none yet. The
// payment status mirrors the booking status; pending bookings also get
// an expiration record dated now so the next sweep will pick them up.
func (s *Seeder) seedPayments(ctx context.Context) error {
	bookings, err := s.bookingRepo.List(ctx)
	if err != nil {
		return errs.Wrap(err, "failed to list bookings")
	}
	if len(bookings) == 0 {
		return nil
	}

	payments, err := s.paymentRepo.List(ctx)
	if err != nil {
		return errs.Wrap(err, "failed to list payments")
	}
	covered := make(map[string]struct{}, len(payments))
	for i := range payments {
		covered[payments[i].BookingID.String()] = struct{}{}
	}

	now := s.clock.Now()
	seeded := 0
	for i := range bookings {
		b := &bookings[i]
		if _, ok := covered[b.ID.String()]; ok {
			continue
		}

		u, err := s.unitRepo.FindByID(ctx, b.UnitID)
		if err != nil {
			return errs.Wrap(err, "failed to resolve booked unit")
		}

		p := payment.NewPayment(b.ID, u.TotalCost, now)
		switch b.Status {
		case booking.StatusPending:
			// stays INITIATED
		case booking.StatusConfirmed:
			p.Status = payment.StatusCompleted
		case booking.StatusCancelled:
			p.Status = payment.StatusFailed
		}

		if err := s.paymentRepo.Create(ctx, p); err != nil {
			return errs.Wrap(err, "failed to seed payment")
		}
		if b.Status == booking.StatusPending {
			if err := s.expirationRepo.Create(ctx, payment.NewExpiration(p.ID, now)); err != nil {
				return errs.Wrap(err, "failed to seed payment expiration")
			}
		}
		seeded++
	}

	if seeded > 0 {
		s.logger.Info("payments seeded", "count", seeded)
	}
	return nil
}

func (s *Seeder) randInt(n int) int {
	v := int(s.rand.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}
