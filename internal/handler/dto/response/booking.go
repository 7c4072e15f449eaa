package response

import (
	"time"

	"parking-orchestrator/internal/domain/parking"
	"parking-orchestrator/internal/domain/reservation"
	"parking-orchestrator/internal/usecase/commands"
	"parking-orchestrator/internal/usecase/queries"

	"github.com/google/uuid"
)

type StepResponse struct {
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
	Error      string `json:"error,omitempty"`
	ErrorClass string `json:"error_class,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

type AttemptResponse struct {
	Key           string                  `json:"idempotency_key"`
	ResourceID    string                  `json:"parking_name"`
	RequesterID   uuid.UUID               `json:"requester_id"`
	State         string                  `json:"state"`
	Reason        string                  `json:"reason,omitempty"`
	ReservationID *int64                  `json:"reservation_id,omitempty"`
	Steps         map[string]StepResponse `json:"steps"`
	Warnings      []string                `json:"warnings"`
	StartedAt     time.Time               `json:"started_at"`
	FinishedAt    *time.Time              `json:"finished_at,omitempty"`
}

type BookingResponse struct {
	IdempotencyKey string               `json:"idempotency_key"`
	Status         string               `json:"status"`
	Replayed       bool                 `json:"replayed"`
	Reservation    *ReservationResponse `json:"reservation,omitempty"`
	Parking        *BookedParking       `json:"parking,omitempty"`
	Warnings       []string             `json:"warnings"`
	Attempt        *AttemptResponse     `json:"attempt"`
}

// BookedParking is the lot as refreshed after reconciliation.
type BookedParking struct {
	Name            string `json:"name"`
	CurrentCapacity int    `json:"current_capacity"`
	MaximumCapacity int    `json:"maximum_capacity"`
	Remaining       int    `json:"remaining"`
}

func FromAttemptView(v *queries.AttemptView) *AttemptResponse {
	steps := make(map[string]StepResponse, len(v.Steps))
	for name, s := range v.Steps {
		steps[name] = StepResponse(s)
	}
	return &AttemptResponse{
		Key:           v.Key,
		ResourceID:    v.ResourceID,
		RequesterID:   v.RequesterID,
		State:         v.State,
		Reason:        v.Reason,
		ReservationID: v.ReservationID,
		Steps:         steps,
		Warnings:      v.Warnings,
		StartedAt:     v.StartedAt,
		FinishedAt:    v.FinishedAt,
	}
}

func FromBookingResult(r *commands.BookingResult) *BookingResponse {
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return &BookingResponse{
		IdempotencyKey: r.Attempt.Key,
		Status:         r.Status.String(),
		Replayed:       r.Replayed,
		Reservation:    fromReservation(r.Reservation),
		Parking:        fromBookedParking(r.Resource),
		Warnings:       warnings,
		Attempt:        FromAttemptView(queries.ToAttemptView(r.Attempt)),
	}
}

func fromReservation(rsv *reservation.Reservation) *ReservationResponse {
	if rsv == nil {
		return nil
	}
	return &ReservationResponse{
		ID:          rsv.ID(),
		ResourceID:  rsv.ResourceID(),
		RequesterID: rsv.RequesterID(),
		Start:       rsv.Start(),
		Checkout:    rsv.Checkout(),
		Status:      string(rsv.Status()),
		Price:       rsv.Price().String(),
	}
}

func fromBookedParking(lot *parking.Resource) *BookedParking {
	if lot == nil {
		return nil
	}
	return &BookedParking{
		Name:            lot.Name(),
		CurrentCapacity: lot.Current(),
		MaximumCapacity: lot.Maximum(),
		Remaining:       lot.Remaining(),
	}
}
