package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"WardrobeScanner/internal/ports"
)

// Scheduler wires the interval driver with the import use case. Each run
// starts where the last successful one ended.
type Scheduler struct {
	driver   ports.Scheduler
	importer *Importer
	logger   *slog.Logger

	mu      sync.Mutex
	lastRun time.Time
}

// NewScheduler returns a helper to start/stop recurring imports.
func NewScheduler(driver ports.Scheduler, importer *Importer, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, importer: importer, logger: logger}
}

// Start registers the importer with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.importer == nil {
		return nil
	}

	job := func(trigger time.Time) {
		s.RunOnce(ctx, trigger)
	}

	return s.driver.Start(ctx, job)
}

// RunOnce imports everything between the last successful run and trigger.
func (s *Scheduler) RunOnce(ctx context.Context, trigger time.Time) {
	since := s.LastRun()

	result, err := s.importer.Run(ctx, ImportRequest{Since: since, Until: trigger})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("scheduled import failed", "error", err)
		}
		return
	}

	s.mu.Lock()
	s.lastRun = result.Until
	s.mu.Unlock()
}

// LastRun returns the end of the last successful import window.
func (s *Scheduler) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
