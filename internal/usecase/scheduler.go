package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsGenie/internal/ports"
)

// Scheduler wires the cron-like driver with the article snapshot refresh.
type Scheduler struct {
	driver    ports.Scheduler
	refresher ports.Refresher
	logger    *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring refreshes.
func NewScheduler(driver ports.Scheduler, refresher ports.Refresher, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{driver: driver, refresher: refresher, logger: logger}
}

// Start registers the refresh job with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.refresher == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := s.refresher.Refresh(ctx); err != nil {
			s.logger.ErrorContext(ctx, "scheduled refresh failed", "trigger", trigger, "error", err)
			return
		}
		s.logger.DebugContext(ctx, "scheduled refresh complete", "trigger", trigger)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
