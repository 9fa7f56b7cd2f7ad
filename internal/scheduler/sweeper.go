package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// SweepFunc reaps overdue work and reports how many records it handled.
type SweepFunc func(ctx context.Context) (int, error)

// Sweeper runs a SweepFunc on a fixed interval until its context is
// cancelled. Errors are logged and the loop keeps going.
type Sweeper struct {
	interval time.Duration
	sweep    SweepFunc
	logger   *slog.Logger
}

func NewSweeper(interval time.Duration, sweep SweepFunc, logger *slog.Logger) *Sweeper {
	return &Sweeper{interval: interval, sweep: sweep, logger: logger}
}

// Run blocks until ctx is cancelled. The first sweep happens after one
// full interval, not at startup.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("expiration sweeper started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("expiration sweeper stopped")
			return
		case <-ticker.C:
			reaped, err := s.sweep(ctx)
			if err != nil {
				s.logger.Error("expiration sweep failed", "error", err)
				continue
			}
			if reaped > 0 {
				s.logger.Info("expiration sweep completed", "reaped", reaped)
			}
		}
	}
}
