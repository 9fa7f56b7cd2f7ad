package bootstrap

import (
	"context"
	"log/slog"

	"staybooker/internal/pkg/config"
	"staybooker/internal/scheduler"
	"staybooker/internal/usecase/commands"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		NewTaskScheduler,
	),
	fx.Invoke(
		StartSweeper,
	),
)

func NewTaskScheduler(lc fx.Lifecycle) scheduler.TaskScheduler {
	s := scheduler.NewTimerScheduler()
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			s.Stop()
			return nil
		},
	})
	return s
}

// StartSweeper runs the expiration sweep loop for the lifetime of the app.
func StartSweeper(lc fx.Lifecycle, paymentCommands commands.PaymentCommands, cfg config.Config, logger *slog.Logger) {
	sweepCtx, cancel := context.WithCancel(context.Background())
	sweeper := scheduler.NewSweeper(cfg.Payment.SweepInterval, paymentCommands.ExpireOverduePayments, logger)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go sweeper.Run(sweepCtx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
