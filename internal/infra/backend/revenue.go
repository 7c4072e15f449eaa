package backend

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"parking-orchestrator/internal/domain/reservation"
	"parking-orchestrator/internal/usecase/shared"
)

func (c *Client) ListRevenues(ctx context.Context, parkingID string, from, to time.Time) ([]shared.RevenueEntry, error) {
	const op = "listRevenues"

	query := url.Values{}
	if parkingID != "" {
		query.Set("parking_id", parkingID)
	}
	if !from.IsZero() {
		query.Set("start", from.In(c.loc).Format(dateLayout))
	}
	if !to.IsZero() {
		query.Set("end", to.In(c.loc).Format(dateLayout))
	}

	var dtos []RevenueRead
	if _, err := c.do(ctx, call{op: op, method: http.MethodGet, path: []string{"revenues"}, query: query}, &dtos); err != nil {
		return nil, err
	}

	out := make([]shared.RevenueEntry, 0, len(dtos))
	for _, dto := range dtos {
		if err := c.check(op, dto); err != nil {
			return nil, err
		}
		date, err := c.parseDate(dto.Date)
		if err != nil {
			return nil, schemaError(op, err)
		}
		amount, err := reservation.MoneyFromDecimal(dto.Revenue)
		if err != nil {
			return nil, schemaError(op, err)
		}
		out = append(out, shared.RevenueEntry{Date: date, ParkingID: dto.ParkingID, Amount: amount})
	}
	return out, nil
}
