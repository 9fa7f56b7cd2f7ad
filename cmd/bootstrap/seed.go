package bootstrap

import (
	"context"
	"log/slog"

	"staybooker/internal/infra/seed"
	"staybooker/internal/pkg/config"

	"go.uber.org/fx"
)

var SeedModule = fx.Module("seed",
	fx.Provide(
		seed.NewSeeder,
		func(cfg config.Config) config.SeedConfig { return cfg.Seed },
	),
	fx.Invoke(
		RunSeeder,
	),
)

func RunSeeder(lc fx.Lifecycle, seeder *seed.Seeder, cfg config.Config, logger *slog.Logger) {
	if !cfg.Seed.Enabled {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := seeder.Run(ctx); err != nil {
				logger.Error("data seeding failed", "error", err)
				return err
			}
			return nil
		},
	})
}
