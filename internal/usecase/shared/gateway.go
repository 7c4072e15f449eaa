package shared

import (
	"context"
	"time"

	"parking-orchestrator/internal/domain/loyalty"
	"parking-orchestrator/internal/domain/parking"
	"parking-orchestrator/internal/domain/reservation"

	"github.com/google/uuid"
)

// Ports onto the external backend. Implementations classify failures with the
// errs classes: validation, conflict, network, not found, unknown.

type ParkingGateway interface {
	GetParking(ctx context.Context, name string) (*parking.Resource, error)
	ListParkings(ctx context.Context) ([]*parking.Resource, error)
	UpdateCapacity(ctx context.Context, name string, newCurrent int) (*parking.Resource, error)
	// IncrementCapacity runs the backend's atomic increment. Only valid when SupportsAtomicIncrement.
	IncrementCapacity(ctx context.Context, name string) (*parking.Resource, error)
	SupportsAtomicIncrement() bool
}

type CreateReservationRequest struct {
	ResourceID  string
	RequesterID uuid.UUID
	Start       time.Time
	End         time.Time
	Status      reservation.Status
	Price       reservation.Money
}

type ReservationFilter struct {
	ResourceID  string
	RequesterID uuid.UUID
}

type ReservationGateway interface {
	CreateReservation(ctx context.Context, req CreateReservationRequest, idempotencyKey string) (*reservation.Reservation, error)
	ListReservations(ctx context.Context, filter ReservationFilter) ([]*reservation.Reservation, error)
}

// AccountGateway acts on the loyalty account of the caller whose token is in ctx.
type AccountGateway interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*loyalty.Account, error)
	CreateAccount(ctx context.Context, id uuid.UUID) (*loyalty.Account, error)
	UpdateAccount(ctx context.Context, acc *loyalty.Account) (*loyalty.Account, error)
	IsAdmin(ctx context.Context, id uuid.UUID) (bool, error)
	CountCustomers(ctx context.Context) (int, error)
}

type RevenueEntry struct {
	Date      time.Time
	ParkingID string
	Amount    reservation.Money
}

type RevenueGateway interface {
	// ListRevenues returns entries whose date falls in [from, to], compared by calendar day.
	ListRevenues(ctx context.Context, parkingID string, from, to time.Time) ([]RevenueEntry, error)
}

// ReconciliationEvent asks an operator or batch job to repair a partially reconciled booking.
type ReconciliationEvent struct {
	IdempotencyKey string    `json:"idempotency_key"`
	ResourceID     string    `json:"resource_id"`
	RequesterID    uuid.UUID `json:"requester_id"`
	ReservationID  int64     `json:"reservation_id"`
	FailedSteps    []string  `json:"failed_steps"`
	Warnings       []string  `json:"warnings"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type ReconciliationPublisher interface {
	PublishReconciliationRequired(ctx context.Context, ev ReconciliationEvent) error
}
