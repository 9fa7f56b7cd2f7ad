package components

import (
	"staybooker/internal/domain/unit"
	"staybooker/internal/pkg/clock"
	"staybooker/internal/pkg/config"
	"staybooker/internal/pkg/random"
	"staybooker/internal/usecase/commands"
	"staybooker/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	random.NewRealSource,
	fx.Annotate(
		unit.NewFixedMarkup,
		fx.As(new(unit.MarkupCalculator)),
	),
	func(cfg config.Config) config.PaymentConfig { return cfg.Payment },
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewUnitCommands,
		commands.NewBookingCommands,
		commands.NewPaymentCommands,
		func(pc commands.PaymentCommands) commands.PaymentInitiator { return pc },
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUnitQueries,
		queries.NewBookingQueries,
		queries.NewPaymentQueries,
		queries.NewUserQueries,
	),
)
