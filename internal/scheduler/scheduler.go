package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Task is the periodic work a Scheduler drives.
type Task func(ctx context.Context) error

// Scheduler runs a task once at start and then on every interval until its
// context ends.
type Scheduler struct {
	name     string
	interval time.Duration
	task     Task
	logger   *slog.Logger
}

func New(name string, interval time.Duration, task Task, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger.With("scheduler", name),
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler started", "interval", s.interval.String())
	s.Tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick(ctx)
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		}
	}
}

// Tick runs the task once and logs the outcome. Run ignores the returned
// error and keeps ticking.
func (s *Scheduler) Tick(ctx context.Context) error {
	start := time.Now()
	err := s.task(ctx)
	if err != nil {
		s.logger.Error("scheduled run failed", "error", err, "duration", time.Since(start).String())
		return err
	}
	s.logger.Debug("scheduled run finished", "duration", time.Since(start).String())
	return nil
}
