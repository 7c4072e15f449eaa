package jobs

import (
	"context"
	"log/slog"
	"time"

	"parking-orchestrator/internal/pkg/clock"
	"parking-orchestrator/internal/pkg/config"
	"parking-orchestrator/internal/pkg/errs"
	"parking-orchestrator/internal/usecase/shared"
)

type SweepResult struct {
	ExpiredKeys    int64
	PrunedAttempts int64
	AttemptsCutoff time.Time
}

// Janitor removes idempotency keys past their TTL and journal rows older than the retention.
// Keys still in processing expire like any other; by then the in-flight window is long gone.
type Janitor struct {
	uow       shared.UnitOfWork
	clock     clock.Clock
	retention time.Duration
	logger    *slog.Logger
}

func NewJanitor(uow shared.UnitOfWork, clk clock.Clock, cfg config.JobsConfig, logger *slog.Logger) *Janitor {
	return &Janitor{
		uow:       uow,
		clock:     clk,
		retention: cfg.AttemptRetention,
		logger:    logger,
	}
}

func (j *Janitor) Sweep(ctx context.Context) (SweepResult, error) {
	now := j.clock.Now()
	var res SweepResult

	err := j.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Idempotency().DeleteExpired(ctx, now)
		if err != nil {
			return errs.Wrap(err, "delete expired idempotency keys")
		}
		res.ExpiredKeys = n
		return nil
	})
	if err != nil {
		return res, err
	}

	if j.retention > 0 {
		res.AttemptsCutoff = now.Add(-j.retention)
		err = j.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			n, err := tx.Attempts().DeleteFinishedBefore(ctx, res.AttemptsCutoff)
			if err != nil {
				return errs.Wrap(err, "prune booking attempts")
			}
			res.PrunedAttempts = n
			return nil
		})
		if err != nil {
			return res, err
		}
	}

	if res.ExpiredKeys > 0 || res.PrunedAttempts > 0 {
		j.logger.Info("janitor sweep",
			"expired_keys", res.ExpiredKeys,
			"pruned_attempts", res.PrunedAttempts)
	} else {
		j.logger.Debug("janitor sweep found nothing to remove")
	}
	return res, nil
}
