package loyalty

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNegativePoints = errors.New("loyalty points cannot be negative")
	ErrNegativeDelta  = errors.New("points credit cannot be negative")
	ErrPointsOverflow = errors.New("loyalty points overflow")
)

// Account is the requester's loyalty record. Balance is the backend's stored-value
// field and is carried through updates untouched.
type Account struct {
	id          uuid.UUID
	plateNumber *int
	points      int
	balance     float64
}

func NewAccount(id uuid.UUID, plateNumber *int, points int, balance float64) (*Account, error) {
	if points < 0 {
		return nil, ErrNegativePoints
	}
	return &Account{
		id:          id,
		plateNumber: plateNumber,
		points:      points,
		balance:     balance,
	}, nil
}

func (a *Account) ID() uuid.UUID     { return a.id }
func (a *Account) PlateNumber() *int { return a.plateNumber }
func (a *Account) Points() int       { return a.points }
func (a *Account) Balance() float64  { return a.balance }

// Credit returns the account with delta points added. Points never go down here.
func (a *Account) Credit(delta int) (*Account, error) {
	if delta < 0 {
		return nil, ErrNegativeDelta
	}
	next := a.points + delta
	if next < a.points {
		return nil, ErrPointsOverflow
	}
	credited := *a
	credited.points = next
	return &credited, nil
}
