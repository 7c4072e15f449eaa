package readstore

import (
	"context"
	"log/slog"

	"parking-orchestrator/internal/domain/booking"
	"parking-orchestrator/internal/infra"
	"parking-orchestrator/internal/infra/db"
	"parking-orchestrator/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const findBookingAttemptSQL = `
SELECT key, requester_id, resource_id, state, reason, reservation_id, steps, warnings, started_at, finished_at
FROM booking_attempts
WHERE key = $1 AND requester_id = $2`

type AttemptReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewAttemptReadStore(db db.DBTX, logger *slog.Logger) *AttemptReadStore {
	return &AttemptReadStore{
		db:     db,
		logger: logger,
	}
}

func (s *AttemptReadStore) FindByKey(ctx context.Context, key string, requesterID uuid.UUID) (*booking.Snapshot, error) {
	var (
		snap          booking.Snapshot
		requester     pgtype.UUID
		state         string
		reason        pgtype.Text
		reservationID pgtype.Int8
		startedAt     pgtype.Timestamptz
		finishedAt    pgtype.Timestamptz
	)

	err := s.db.QueryRow(ctx, findBookingAttemptSQL, key, pgconv.UUIDToPgtype(requesterID)).Scan(
		&snap.Key,
		&requester,
		&snap.ResourceID,
		&state,
		&reason,
		&reservationID,
		&snap.Steps,
		&snap.Warnings,
		&startedAt,
		&finishedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "booking attempt not found", err)
		}
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to find booking attempt", err)
	}

	snap.RequesterID = pgconv.UUIDFromPgtype(requester)
	snap.State = booking.State(state)
	if r := pgconv.StringPtrFromPgtype(reason); r != nil {
		snap.Reason = *r
	}
	snap.ReservationID = pgconv.Int64PtrFromPgtype(reservationID)
	snap.StartedAt = pgconv.TimeFromPgtype(startedAt)
	snap.FinishedAt = pgconv.TimePtrFromPgtype(finishedAt)

	return &snap, nil
}
