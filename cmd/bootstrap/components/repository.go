package components

import (
	"log/slog"

	"staybooker/internal/infra/cache"
	repo_impl "staybooker/internal/infra/repository"
	"staybooker/internal/usecase/commands"
	"staybooker/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		repo_impl.NewUnitRepository,
		repo_impl.NewBookingRepository,
		repo_impl.NewPaymentRepository,
		repo_impl.NewExpirationRepository,
		repo_impl.NewUserRepository,
		NewAvailabilityCache,

		// Port adapters: the same concrete repository backs the command
		// side and the read side.
		func(r *repo_impl.UnitRepository) commands.UnitRepository { return r },
		func(r *repo_impl.UnitRepository) queries.UnitViewRepo { return r },
		func(r *repo_impl.BookingRepository) commands.BookingRepository { return r },
		func(r *repo_impl.BookingRepository) queries.BookingViewRepo { return r },
		func(r *repo_impl.PaymentRepository) commands.PaymentRepository { return r },
		func(r *repo_impl.PaymentRepository) queries.PaymentViewRepo { return r },
		func(r *repo_impl.ExpirationRepository) commands.ExpirationRepository { return r },
		func(r *repo_impl.UserRepository) commands.UserRepository { return r },
		func(r *repo_impl.UserRepository) queries.UserViewRepo { return r },
		func(c *cache.AvailabilityCache) commands.AvailabilityInvalidator { return c },
		func(c *cache.AvailabilityCache) queries.AvailabilityReader { return c },
	),
)

func NewAvailabilityCache(unitRepo *repo_impl.UnitRepository, logger *slog.Logger) *cache.AvailabilityCache {
	return cache.NewAvailabilityCache(unitRepo.CountAvailable, logger)
}
