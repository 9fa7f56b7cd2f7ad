package components

import (
	"staybooker/internal/handler"
	"staybooker/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewUnitHandler,
		api.NewBookingHandler,
		api.NewPaymentHandler,
		api.NewUserHandler,
	),
	fx.Invoke(handler.NewRouter),
)
