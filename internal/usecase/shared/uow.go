package shared

import (
	"context"
	"time"

	"parking-orchestrator/internal/domain/booking"
	"parking-orchestrator/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
}

type Tx interface {
	Idempotency() IdempotencyRepository
	Attempts() AttemptJournal
	DB() db.DBTX
}

type IdempotencyStatus string

const (
	IdempotencyProcessing IdempotencyStatus = "processing"
	IdempotencyCompleted  IdempotencyStatus = "completed"
)

// IdempotencyRecord guards one reservation submission. Keys are scoped per requester.
type IdempotencyRecord struct {
	Key           string
	RequesterID   uuid.UUID
	ResourceID    string
	RequestHash   string
	Status        IdempotencyStatus
	ReservationID *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ExpiresAt     time.Time
}

type IdempotencyRepository interface {
	// TryInsert claims the key. It reports false when the key already exists.
	TryInsert(ctx context.Context, rec IdempotencyRecord) (bool, error)
	Get(ctx context.Context, key string, requesterID uuid.UUID) (*IdempotencyRecord, error)
	Complete(ctx context.Context, key string, requesterID uuid.UUID, reservationID int64, now time.Time) error
	// ClaimStale takes over a processing record last touched before staleBefore.
	ClaimStale(ctx context.Context, key string, requesterID uuid.UUID, requestHash string, staleBefore, now time.Time) (bool, error)
	Release(ctx context.Context, key string, requesterID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type AttemptJournal interface {
	// Record upserts the attempt by (key, requester).
	Record(ctx context.Context, snap booking.Snapshot) error
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type AttemptReadStore interface {
	FindByKey(ctx context.Context, key string, requesterID uuid.UUID) (*booking.Snapshot, error)
}
