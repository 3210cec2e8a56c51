// Package reminder surfaces overdue tasks on a fixed schedule.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/domain"
)

// Source exposes the task set scanned for reminders.
type Source interface {
	Overdue(ctx context.Context) []*domain.Task
}

// Sink receives each batch of overdue tasks found by a scan.
type Sink func(tasks []*domain.Task)

// Config controls the scan schedule.
type Config struct {
	Interval time.Duration
}

// Service runs periodic overdue sweeps and hands the results to the
// sink. It never mutates tasks.
type Service struct {
	source Source
	sink   Sink
	logger *zap.Logger
	cron   *cron.Cron
	every  time.Duration
}

func New(source Source, sink Sink, logger *zap.Logger, cfg Config) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		source: source,
		sink:   sink,
		logger: logger,
		every:  cfg.Interval,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = s.cron.AddFunc(schedule, s.scan)

	return s
}

// Start launches the scheduler.
func (s *Service) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("overdue reminder started", zap.Duration("interval", s.every))
}

// Stop gracefully stops the scheduler.
func (s *Service) Stop(ctx context.Context) {
	if s == nil || s.cron == nil {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("overdue reminder stopped")
}

// Scan runs one overdue sweep immediately.
func (s *Service) Scan() {
	s.scan()
}

func (s *Service) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), s.every)
	defer cancel()

	overdue := s.source.Overdue(ctx)
	if len(overdue) == 0 {
		return
	}

	s.logger.Debug("overdue tasks found", zap.Int("count", len(overdue)))
	if s.sink != nil {
		s.sink(overdue)
	}
}
