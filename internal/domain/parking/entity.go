package parking

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyName        = errors.New("parking name is required")
	ErrInvalidCapacity  = errors.New("capacity must satisfy 0 <= current <= maximum")
	ErrNegativePrice    = errors.New("price per hour cannot be negative")
	ErrCapacityExceeded = errors.New("parking is full")
)

// Resource is a parking lot. Name is its identifier in the backend.
type Resource struct {
	name              string
	location          string
	ownerID           uuid.UUID
	current           int
	maximum           int
	pricePerHourCents int64
	schedule          Schedule
}

type Params struct {
	Name              string
	Location          string
	OwnerID           uuid.UUID
	Current           int
	Maximum           int
	PricePerHourCents int64
	Schedule          Schedule
}

func NewResource(p Params) (*Resource, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if p.Current < 0 || p.Maximum < 0 || p.Current > p.Maximum {
		return nil, ErrInvalidCapacity
	}
	if p.PricePerHourCents < 0 {
		return nil, ErrNegativePrice
	}

	return &Resource{
		name:              name,
		location:          p.Location,
		ownerID:           p.OwnerID,
		current:           p.Current,
		maximum:           p.Maximum,
		pricePerHourCents: p.PricePerHourCents,
		schedule:          p.Schedule,
	}, nil
}

func (r *Resource) Name() string              { return r.name }
func (r *Resource) Location() string          { return r.location }
func (r *Resource) OwnerID() uuid.UUID        { return r.ownerID }
func (r *Resource) Current() int              { return r.current }
func (r *Resource) Maximum() int              { return r.maximum }
func (r *Resource) PricePerHourCents() int64  { return r.pricePerHourCents }
func (r *Resource) Schedule() Schedule        { return r.schedule }
func (r *Resource) Remaining() int            { return r.maximum - r.current }
func (r *Resource) IsFull() bool              { return r.Remaining() <= 0 }
func (r *Resource) OwnedBy(id uuid.UUID) bool { return id != uuid.Nil && r.ownerID == id }

// NextOccupancy is the occupancy after one more car arrives.
func (r *Resource) NextOccupancy() (int, error) {
	if r.IsFull() {
		return r.current, ErrCapacityExceeded
	}
	return r.current + 1, nil
}
