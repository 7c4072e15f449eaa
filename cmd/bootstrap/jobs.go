package bootstrap

import (
	"context"
	"log/slog"

	"parking-orchestrator/internal/pkg/config"
	"parking-orchestrator/internal/usecase/jobs"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Provide(
		jobs.NewJanitor,
		jobs.NewScheduler,
	),
)

// StartScheduler ties the janitor schedule to the app lifecycle.
func StartScheduler(lc fx.Lifecycle, s *jobs.Scheduler, cfg config.Config, logger *slog.Logger) {
	if !cfg.Jobs.Enabled {
		logger.Info("background jobs disabled")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return s.Start()
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
}
