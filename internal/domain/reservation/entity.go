package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTimeSlot = errors.New("start time must be before end time")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrInvalidAmount   = errors.New("invalid money amount")
	ErrInvalidStatus   = errors.New("invalid reservation status")
	ErrMissingResource = errors.New("reservation resource is required")
)

// Reservation is a booking record owned by the backend. The id is assigned on creation.
type Reservation struct {
	id          int64
	resourceID  string
	requesterID uuid.UUID
	start       time.Time
	checkout    *time.Time
	status      Status
	price       Money
}

func Reconstruct(
	id int64,
	resourceID string,
	requesterID uuid.UUID,
	start time.Time,
	checkout *time.Time,
	status Status,
	price Money,
) (*Reservation, error) {
	if resourceID == "" {
		return nil, ErrMissingResource
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return &Reservation{
		id:          id,
		resourceID:  resourceID,
		requesterID: requesterID,
		start:       start,
		checkout:    checkout,
		status:      status,
		price:       price,
	}, nil
}

func (r *Reservation) ID() int64              { return r.id }
func (r *Reservation) ResourceID() string     { return r.resourceID }
func (r *Reservation) RequesterID() uuid.UUID { return r.requesterID }
func (r *Reservation) Start() time.Time       { return r.start }
func (r *Reservation) Checkout() *time.Time   { return r.checkout }
func (r *Reservation) Status() Status         { return r.status }
func (r *Reservation) Price() Money           { return r.price }

func (r *Reservation) IsActive() bool {
	return r.status.IsActive()
}

// Matches reports whether r is the booking identified by (resource, requester, start).
// Start times are compared to the second since the backend does not keep fractions.
func (r *Reservation) Matches(resourceID string, requesterID uuid.UUID, start time.Time) bool {
	return r.resourceID == resourceID &&
		r.requesterID == requesterID &&
		r.start.Truncate(time.Second).Equal(start.Truncate(time.Second))
}
