package request

import (
	"strings"
	"time"

	"parking-orchestrator/internal/domain/reservation"
	"parking-orchestrator/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ParkingName string `json:"parking_name" binding:"required,max=100"`
	// StartTime defaults to now. Without an Idempotency-Key, retries are only
	// deduplicated when it is set.
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	// Price overrides the lot's hourly rate, in currency units.
	Price *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
}

// ToParams fills the slot from now and the default duration when the caller leaves it open.
func (r CreateBookingRequest) ToParams(requesterID uuid.UUID, idempotencyKey string, now time.Time, defaultDuration time.Duration) (commands.AttemptParams, error) {
	start := now
	if r.StartTime != nil {
		start = *r.StartTime
	}
	end := start.Add(defaultDuration)
	if r.EndTime != nil {
		end = *r.EndTime
	}

	params := commands.AttemptParams{
		ResourceID:     strings.TrimSpace(r.ParkingName),
		RequesterID:    requesterID,
		Start:          start,
		End:            end,
		IdempotencyKey: idempotencyKey,
	}
	if r.Price != nil {
		price, err := reservation.MoneyFromDecimal(*r.Price)
		if err != nil {
			return commands.AttemptParams{}, err
		}
		params.Price = &price
	}
	return params, nil
}
