package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("invalid booking attempt transition")
	ErrEmptyKey          = errors.New("idempotency key is required")
)

// Attempt is one run of the booking workflow.
type Attempt struct {
	key           string
	resourceID    string
	requesterID   uuid.UUID
	state         State
	reason        string
	reservationID *int64
	reservation   StepOutcome
	capacity      StepOutcome
	loyalty       StepOutcome
	warnings      []string
	startedAt     time.Time
	finishedAt    *time.Time
}

func NewAttempt(key, resourceID string, requesterID uuid.UUID, startedAt time.Time) (*Attempt, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	return &Attempt{
		key:         key,
		resourceID:  resourceID,
		requesterID: requesterID,
		state:       StateEvaluating,
		reservation: Pending(),
		capacity:    Pending(),
		loyalty:     Pending(),
		startedAt:   startedAt,
	}, nil
}

func (a *Attempt) Key() string              { return a.key }
func (a *Attempt) ResourceID() string       { return a.resourceID }
func (a *Attempt) RequesterID() uuid.UUID   { return a.requesterID }
func (a *Attempt) State() State             { return a.state }
func (a *Attempt) Reason() string           { return a.reason }
func (a *Attempt) ReservationID() *int64    { return a.reservationID }
func (a *Attempt) Reservation() StepOutcome { return a.reservation }
func (a *Attempt) Capacity() StepOutcome    { return a.capacity }
func (a *Attempt) Loyalty() StepOutcome     { return a.loyalty }
func (a *Attempt) StartedAt() time.Time     { return a.startedAt }
func (a *Attempt) FinishedAt() *time.Time   { return a.finishedAt }

func (a *Attempt) Warnings() []string {
	out := make([]string, len(a.warnings))
	copy(out, a.warnings)
	return out
}

func (a *Attempt) AddWarning(msg string) {
	a.warnings = append(a.warnings, msg)
}

func (a *Attempt) transition(from []State, to State) error {
	for _, s := range from {
		if a.state == s {
			a.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.state, to)
}

func (a *Attempt) BeginSubmitting() error {
	return a.transition([]State{StateEvaluating}, StateSubmitting)
}

// Reject ends the attempt before any reservation exists.
func (a *Attempt) Reject(reason string, outcome StepOutcome, now time.Time) error {
	if err := a.transition([]State{StateEvaluating, StateSubmitting}, StateRejected); err != nil {
		return err
	}
	a.reason = reason
	a.reservation = outcome
	a.capacity = Skipped("attempt rejected")
	a.loyalty = Skipped("attempt rejected")
	a.finishedAt = &now
	return nil
}

func (a *Attempt) MarkReserved(reservationID int64, outcome StepOutcome) error {
	if err := a.transition([]State{StateSubmitting}, StateReserved); err != nil {
		return err
	}
	id := reservationID
	a.reservationID = &id
	a.reservation = outcome
	return nil
}

func (a *Attempt) BeginReconciling() error {
	return a.transition([]State{StateReserved}, StateReconciling)
}

func (a *Attempt) RecordCapacity(o StepOutcome) error {
	if a.state != StateReconciling {
		return fmt.Errorf("%w: capacity recorded in %s", ErrInvalidTransition, a.state)
	}
	a.capacity = o
	return nil
}

func (a *Attempt) RecordLoyalty(o StepOutcome) error {
	if a.state != StateReconciling {
		return fmt.Errorf("%w: loyalty recorded in %s", ErrInvalidTransition, a.state)
	}
	a.loyalty = o
	return nil
}

// Finish settles a reconciling attempt: Done when every side effect settled,
// PartiallyReconciled with a warning per failed step otherwise.
func (a *Attempt) Finish(now time.Time) error {
	if a.state != StateReconciling {
		return fmt.Errorf("%w: %s -> finished", ErrInvalidTransition, a.state)
	}

	steps := []struct {
		step    Step
		outcome StepOutcome
	}{
		{StepCapacity, a.capacity},
		{StepLoyalty, a.loyalty},
	}
	next := StateDone
	for _, s := range steps {
		if s.outcome.Settled() {
			continue
		}
		next = StatePartiallyReconciled
		msg := fmt.Sprintf("%s update did not complete", s.step)
		if s.outcome.Error != "" {
			msg += ": " + s.outcome.Error
		}
		a.warnings = append(a.warnings, msg)
	}

	a.state = next
	a.finishedAt = &now
	return nil
}

// Snapshot is the persisted form of an attempt.
type Snapshot struct {
	Key           string
	ResourceID    string
	RequesterID   uuid.UUID
	State         State
	Reason        string
	ReservationID *int64
	Steps         map[Step]StepOutcome
	Warnings      []string
	StartedAt     time.Time
	FinishedAt    *time.Time
}

func (a *Attempt) Snapshot() Snapshot {
	return Snapshot{
		Key:           a.key,
		ResourceID:    a.resourceID,
		RequesterID:   a.requesterID,
		State:         a.state,
		Reason:        a.reason,
		ReservationID: a.reservationID,
		Steps: map[Step]StepOutcome{
			StepReservation: a.reservation,
			StepCapacity:    a.capacity,
			StepLoyalty:     a.loyalty,
		},
		Warnings:   a.Warnings(),
		StartedAt:  a.startedAt,
		FinishedAt: a.finishedAt,
	}
}

func Restore(s Snapshot) (*Attempt, error) {
	if s.Key == "" {
		return nil, ErrEmptyKey
	}
	if !s.State.IsValid() {
		return nil, fmt.Errorf("%w: unknown state %q", ErrInvalidTransition, s.State)
	}
	step := func(k Step) StepOutcome {
		if o, ok := s.Steps[k]; ok {
			return o
		}
		return Pending()
	}
	return &Attempt{
		key:           s.Key,
		resourceID:    s.ResourceID,
		requesterID:   s.RequesterID,
		state:         s.State,
		reason:        s.Reason,
		reservationID: s.ReservationID,
		reservation:   step(StepReservation),
		capacity:      step(StepCapacity),
		loyalty:       step(StepLoyalty),
		warnings:      append([]string(nil), s.Warnings...),
		startedAt:     s.StartedAt,
		finishedAt:    s.FinishedAt,
	}, nil
}
