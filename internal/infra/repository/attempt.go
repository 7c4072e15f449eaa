package repository

import (
	"context"
	"log/slog"
	"time"

	"parking-orchestrator/internal/domain/booking"
	"parking-orchestrator/internal/infra"
	"parking-orchestrator/internal/infra/db"
	"parking-orchestrator/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	upsertBookingAttemptSQL = `
INSERT INTO booking_attempts (key, requester_id, resource_id, state, reason, reservation_id, steps, warnings, started_at, finished_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
ON CONFLICT (key, requester_id) DO UPDATE
SET resource_id = EXCLUDED.resource_id,
    state = EXCLUDED.state,
    reason = EXCLUDED.reason,
    reservation_id = EXCLUDED.reservation_id,
    steps = EXCLUDED.steps,
    warnings = EXCLUDED.warnings,
    finished_at = EXCLUDED.finished_at,
    updated_at = now()
WHERE booking_attempts.state NOT IN ('done', 'partially_reconciled')
   OR EXCLUDED.state IN ('done', 'partially_reconciled')`

	deleteFinishedBookingAttemptsSQL = `
DELETE FROM booking_attempts
WHERE finished_at IS NOT NULL AND finished_at < $1`
)

// AttemptRepository is the write side of the booking attempt journal.
// A row that reached done or partially_reconciled is only ever replaced by another
// succeeded snapshot; a later rejection under the same key leaves it untouched.
type AttemptRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewAttemptRepository(db db.DBTX, logger *slog.Logger) *AttemptRepository {
	return &AttemptRepository{
		db:     db,
		logger: logger,
	}
}

func (r *AttemptRepository) Record(ctx context.Context, snap booking.Snapshot) error {
	warnings := snap.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	finishedAt := pgtype.Timestamptz{}
	if snap.FinishedAt != nil {
		finishedAt = pgconv.TimeToPgtype(*snap.FinishedAt)
	}

	_, err := r.db.Exec(ctx, upsertBookingAttemptSQL,
		snap.Key,
		pgconv.UUIDToPgtype(snap.RequesterID),
		snap.ResourceID,
		snap.State.String(),
		pgconv.EmptyAsNull(snap.Reason),
		pgconv.Int64PtrToPgtype(snap.ReservationID),
		snap.Steps,
		warnings,
		pgconv.TimeToPgtype(snap.StartedAt),
		finishedAt,
	)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to record booking attempt", err)
	}
	return nil
}

func (r *AttemptRepository) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteFinishedBookingAttemptsSQL, pgconv.TimeToPgtype(cutoff))
	if err != nil {
		return 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to delete finished booking attempts", err)
	}
	return tag.RowsAffected(), nil
}
