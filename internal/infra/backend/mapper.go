package backend

import (
	"fmt"
	"time"

	"parking-orchestrator/internal/domain/loyalty"
	"parking-orchestrator/internal/domain/parking"
	"parking-orchestrator/internal/domain/reservation"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Layouts the backend has been seen to emit for timestamps. Zone-less values are
// read in the backend's configured location.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

func (c *Client) parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, c.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (c *Client) formatTimestamp(t time.Time) string {
	return t.In(c.loc).Format(time.RFC3339)
}

func (c *Client) parseDate(s string) (time.Time, error) {
	if len(s) >= len(dateLayout) {
		if t, err := time.ParseInLocation(dateLayout, s[:len(dateLayout)], c.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func (c *Client) toResource(op string, dto ParkingRead) (*parking.Resource, error) {
	if err := c.check(op, dto); err != nil {
		return nil, err
	}
	price, err := reservation.MoneyFromDecimal(dto.PricePerHour)
	if err != nil {
		return nil, schemaError(op, err)
	}
	var owner uuid.UUID
	if dto.OwnerUUID != "" {
		if owner, err = uuid.Parse(dto.OwnerUUID); err != nil {
			return nil, schemaError(op, err)
		}
	}
	r, err := parking.NewResource(parking.Params{
		Name:              dto.Name,
		Location:          dto.Location,
		OwnerID:           owner,
		Current:           dto.CurrentCapacity,
		Maximum:           dto.MaximumCapacity,
		PricePerHourCents: price.Cents(),
		Schedule:          parking.ParseSchedule(dto.OpenTime, dto.CloseTime),
	})
	if err != nil {
		return nil, schemaError(op, err)
	}
	return r, nil
}

func (c *Client) toReservation(op string, dto ReservationRead) (*reservation.Reservation, error) {
	if err := c.check(op, dto); err != nil {
		return nil, err
	}
	requester, err := uuid.Parse(dto.PeopleUUID)
	if err != nil {
		return nil, schemaError(op, err)
	}
	start, err := c.parseTimestamp(dto.Time)
	if err != nil {
		return nil, schemaError(op, err)
	}
	var checkout *time.Time
	if dto.CheckoutTime != nil && *dto.CheckoutTime != "" {
		t, err := c.parseTimestamp(*dto.CheckoutTime)
		if err != nil {
			return nil, schemaError(op, err)
		}
		checkout = &t
	}
	status, err := reservation.ParseStatus(dto.Status)
	if err != nil {
		return nil, schemaError(op, err)
	}
	price, err := reservation.MoneyFromDecimal(dto.Price)
	if err != nil {
		return nil, schemaError(op, err)
	}

	res, err := reservation.Reconstruct(dto.ID, dto.ParkingID, requester, start, checkout, status, price)
	if err != nil {
		return nil, schemaError(op, err)
	}
	return res, nil
}

func (c *Client) toAccount(op string, dto PeopleRead) (*loyalty.Account, error) {
	if err := c.check(op, dto); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(dto.UUID)
	if err != nil {
		return nil, schemaError(op, err)
	}
	acc, err := loyalty.NewAccount(id, dto.PlateNumber, dto.LoyaltyPoints, dto.Balance)
	if err != nil {
		return nil, schemaError(op, err)
	}
	return acc, nil
}
