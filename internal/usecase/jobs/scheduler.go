package jobs

import (
	"context"
	"log/slog"
	"time"

	"parking-orchestrator/internal/pkg/config"
	"parking-orchestrator/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = time.Minute

type Scheduler struct {
	cron     *cron.Cron
	janitor  *Janitor
	schedule string
	logger   *slog.Logger
}

func NewScheduler(janitor *Janitor, cfg config.JobsConfig, logger *slog.Logger) *Scheduler {
	cl := cronLogger{logger: logger.With("component", "cron")}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		janitor:  janitor,
		schedule: cfg.JanitorSchedule,
		logger:   logger,
	}
}

// Start registers the janitor and starts the cron loop in its own goroutine.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		if _, err := s.janitor.Sweep(ctx); err != nil {
			s.logger.Error("janitor sweep failed", "error", err.Error())
		}
	})
	if err != nil {
		return errs.Wrapf(err, "invalid janitor schedule %q", s.schedule)
	}
	s.cron.Start()
	s.logger.Info("scheduler started", "janitor_schedule", s.schedule)
	return nil
}

// Stop waits for a running sweep or for ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts slog to cron's logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err.Error())...)
}
