package repository

import (
	"context"
	"log/slog"
	"time"

	"parking-orchestrator/internal/infra"
	"parking-orchestrator/internal/infra/db"
	"parking-orchestrator/internal/pkg/pgconv"
	"parking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	// An expired key is free to be claimed again, so the conflict branch only fires past expiry.
	tryInsertIdempotencyKeySQL = `
INSERT INTO idempotency_keys (key, requester_id, resource_id, request_hash, status, created_at, updated_at, expires_at)
VALUES ($1, $2, $3, $4, 'processing', $5, $5, $6)
ON CONFLICT (key, requester_id) DO UPDATE
SET resource_id = EXCLUDED.resource_id,
    request_hash = EXCLUDED.request_hash,
    status = 'processing',
    reservation_id = NULL,
    created_at = EXCLUDED.created_at,
    updated_at = EXCLUDED.updated_at,
    expires_at = EXCLUDED.expires_at
WHERE idempotency_keys.expires_at <= EXCLUDED.created_at`

	getIdempotencyKeySQL = `
SELECT key, requester_id, resource_id, request_hash, status, reservation_id, created_at, updated_at, expires_at
FROM idempotency_keys
WHERE key = $1 AND requester_id = $2`

	completeIdempotencyKeySQL = `
UPDATE idempotency_keys
SET status = 'completed', reservation_id = $3, updated_at = $4
WHERE key = $1 AND requester_id = $2`

	claimStaleIdempotencyKeySQL = `
UPDATE idempotency_keys
SET updated_at = $5
WHERE key = $1 AND requester_id = $2
  AND status = 'processing'
  AND request_hash = $3
  AND updated_at < $4`

	releaseIdempotencyKeySQL = `
DELETE FROM idempotency_keys
WHERE key = $1 AND requester_id = $2 AND status = 'processing'`

	deleteExpiredIdempotencyKeysSQL = `DELETE FROM idempotency_keys WHERE expires_at <= $1`
)

type IdempotencyRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewIdempotencyRepository(db db.DBTX, logger *slog.Logger) *IdempotencyRepository {
	return &IdempotencyRepository{
		db:     db,
		logger: logger,
	}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, rec shared.IdempotencyRecord) (bool, error) {
	tag, err := r.db.Exec(ctx, tryInsertIdempotencyKeySQL,
		rec.Key,
		pgconv.UUIDToPgtype(rec.RequesterID),
		rec.ResourceID,
		rec.RequestHash,
		pgconv.TimeToPgtype(rec.CreatedAt),
		pgconv.TimeToPgtype(rec.ExpiresAt),
	)
	if err != nil {
		return false, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to try insert idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key string, requesterID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var (
		rec           shared.IdempotencyRecord
		requester     pgtype.UUID
		status        string
		reservationID pgtype.Int8
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
		expiresAt     pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, getIdempotencyKeySQL, key, pgconv.UUIDToPgtype(requesterID)).Scan(
		&rec.Key,
		&requester,
		&rec.ResourceID,
		&rec.RequestHash,
		&status,
		&reservationID,
		&createdAt,
		&updatedAt,
		&expiresAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "idempotency key not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to get idempotency key", err)
	}

	rec.RequesterID = pgconv.UUIDFromPgtype(requester)
	rec.Status = shared.IdempotencyStatus(status)
	rec.ReservationID = pgconv.Int64PtrFromPgtype(reservationID)
	rec.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	rec.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	rec.ExpiresAt = pgconv.TimeFromPgtype(expiresAt)

	return &rec, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, key string, requesterID uuid.UUID, reservationID int64, now time.Time) error {
	tag, err := r.db.Exec(ctx, completeIdempotencyKeySQL,
		key,
		pgconv.UUIDToPgtype(requesterID),
		reservationID,
		pgconv.TimeToPgtype(now),
	)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to complete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "idempotency key to complete not found", nil)
	}
	return nil
}

func (r *IdempotencyRepository) ClaimStale(ctx context.Context, key string, requesterID uuid.UUID, requestHash string, staleBefore, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, claimStaleIdempotencyKeySQL,
		key,
		pgconv.UUIDToPgtype(requesterID),
		requestHash,
		pgconv.TimeToPgtype(staleBefore),
		pgconv.TimeToPgtype(now),
	)
	if err != nil {
		return false, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to claim stale idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Release(ctx context.Context, key string, requesterID uuid.UUID) error {
	_, err := r.db.Exec(ctx, releaseIdempotencyKeySQL, key, pgconv.UUIDToPgtype(requesterID))
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to release idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteExpiredIdempotencyKeysSQL, pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
