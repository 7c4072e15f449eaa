package queries

import (
	"context"
	"time"

	"parking-orchestrator/internal/domain/parking"
	"parking-orchestrator/internal/domain/reservation"
	"parking-orchestrator/internal/pkg/clock"
	"parking-orchestrator/internal/pkg/errs"
	"parking-orchestrator/internal/usecase/shared"
)

type ParkingQueries interface {
	List(ctx context.Context) ([]*ParkingView, error)
	Get(ctx context.Context, name string) (*ParkingView, error)
}

type parkingQueriesImpl struct {
	parkings shared.ParkingGateway
	clock    clock.Clock
	loc      *time.Location
}

func NewParkingQueries(parkings shared.ParkingGateway, clk clock.Clock, loc *time.Location) ParkingQueries {
	if loc == nil {
		loc = time.UTC
	}
	return &parkingQueriesImpl{parkings: parkings, clock: clk, loc: loc}
}

func (q *parkingQueriesImpl) List(ctx context.Context) ([]*ParkingView, error) {
	lots, err := q.parkings.ListParkings(ctx)
	if err != nil {
		return nil, err
	}
	now := q.clock.Now().In(q.loc)
	views := make([]*ParkingView, 0, len(lots))
	for _, lot := range lots {
		views = append(views, toParkingView(lot, now))
	}
	return views, nil
}

func (q *parkingQueriesImpl) Get(ctx context.Context, name string) (*ParkingView, error) {
	lot, err := q.parkings.GetParking(ctx, name)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, errs.Mark(err, ErrParkingNotFound)
		}
		return nil, err
	}
	return toParkingView(lot, q.clock.Now().In(q.loc)), nil
}

func toParkingView(lot *parking.Resource, now time.Time) *ParkingView {
	availability := parking.IsBookable(lot, now)
	state := "open"
	if !availability.OK {
		state = availability.Reason.String()
	}

	price := ""
	if m, err := reservation.NewMoney(lot.PricePerHourCents()); err == nil {
		price = m.String()
	}

	return &ParkingView{
		Name:              lot.Name(),
		Location:          lot.Location(),
		OwnerID:           lot.OwnerID(),
		CurrentCapacity:   lot.Current(),
		MaximumCapacity:   lot.Maximum(),
		Remaining:         lot.Remaining(),
		PricePerHourCents: lot.PricePerHourCents(),
		PricePerHour:      price,
		OpenTime:          lot.Schedule().DisplayOpen(),
		CloseTime:         lot.Schedule().DisplayClose(),
		Availability:      state,
		Bookable:          availability.OK,
	}
}
