package backend

import (
	"context"
	"net/http"
	"net/url"

	"parking-orchestrator/internal/domain/reservation"
	"parking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

const idempotencyKeyHeader = "Idempotency-Key"

// CreateReservation sends a single create request. The key is forwarded so that a
// backend honouring it can deduplicate retries on its side too.
func (c *Client) CreateReservation(ctx context.Context, req shared.CreateReservationRequest, idempotencyKey string) (*reservation.Reservation, error) {
	const op = "createReservation"

	checkout := c.formatTimestamp(req.End)
	body := ReservationCreate{
		ParkingID:    req.ResourceID,
		PeopleUUID:   req.RequesterID.String(),
		Time:         c.formatTimestamp(req.Start),
		Status:       req.Status.String(),
		CheckoutTime: &checkout,
		Price:        req.Price.Decimal(),
	}

	header := http.Header{}
	if idempotencyKey != "" {
		header.Set(idempotencyKeyHeader, idempotencyKey)
	}

	var dto ReservationRead
	if _, err := c.do(ctx, call{op: op, method: http.MethodPost, path: []string{"reservations"}, body: body, header: header}, &dto); err != nil {
		return nil, err
	}
	return c.toReservation(op, dto)
}

func (c *Client) ListReservations(ctx context.Context, filter shared.ReservationFilter) ([]*reservation.Reservation, error) {
	const op = "listReservations"

	query := url.Values{}
	if filter.ResourceID != "" {
		query.Set("parking_id", filter.ResourceID)
	}
	if filter.RequesterID != uuid.Nil {
		query.Set("people_uuid", filter.RequesterID.String())
	}

	var dtos []ReservationRead
	if _, err := c.do(ctx, call{op: op, method: http.MethodGet, path: []string{"reservations"}, query: query}, &dtos); err != nil {
		return nil, err
	}

	out := make([]*reservation.Reservation, 0, len(dtos))
	for _, dto := range dtos {
		r, err := c.toReservation(op, dto)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
