package queries

import (
	"context"
	"sort"
	"time"

	"parking-orchestrator/internal/domain/reservation"
	"parking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReservationFilters struct {
	// ResourceID narrows the list to one lot when set.
	ResourceID string
	ActiveOnly bool
}

type ReservationQueries interface {
	ListMine(ctx context.Context, requesterID uuid.UUID, filters ReservationFilters, cursor *Cursor, limit int) ([]*ReservationListItem, *Cursor, error)
}

type reservationQueriesImpl struct {
	reservations shared.ReservationGateway
}

func NewReservationQueries(reservations shared.ReservationGateway) ReservationQueries {
	return &reservationQueriesImpl{reservations: reservations}
}

// ListMine pages the requester's reservations, newest start first. The backend returns the
// whole list; paging happens here over (start, id).
func (q *reservationQueriesImpl) ListMine(ctx context.Context, requesterID uuid.UUID, filters ReservationFilters, cursor *Cursor, limit int) ([]*ReservationListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	var (
		afterStart time.Time
		afterID    int64
		paged      = cursor != nil && cursor.After != ""
	)
	if paged {
		var err error
		afterStart, afterID, err = DecodeAfterCursor(cursor.After)
		if err != nil {
			return nil, nil, ErrInvalidCursor
		}
	}

	list, err := q.reservations.ListReservations(ctx, shared.ReservationFilter{
		ResourceID:  filters.ResourceID,
		RequesterID: requesterID,
	})
	if err != nil {
		return nil, nil, err
	}

	rows := make([]*reservation.Reservation, 0, len(list))
	for _, r := range list {
		if r.RequesterID() != requesterID {
			continue
		}
		if filters.ActiveOnly && !r.IsActive() {
			continue
		}
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		return newerFirst(rows[i].Start(), rows[i].ID(), rows[j].Start(), rows[j].ID())
	})

	items := make([]*ReservationListItem, 0, limit+1)
	for _, r := range rows {
		if paged && !newerFirst(afterStart, afterID, r.Start(), r.ID()) {
			continue
		}
		items = append(items, toReservationListItem(r))
		if len(items) > limit {
			break
		}
	}

	var next *Cursor
	if len(items) > limit {
		last := items[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.Start, last.ID)}
		items = items[:limit]
	}
	return items, next, nil
}

// newerFirst orders by start descending, then id descending. Starts compare to the second.
func newerFirst(aStart time.Time, aID int64, bStart time.Time, bID int64) bool {
	as, bs := aStart.Unix(), bStart.Unix()
	if as != bs {
		return as > bs
	}
	return aID > bID
}

func toReservationListItem(r *reservation.Reservation) *ReservationListItem {
	return &ReservationListItem{
		ID:          r.ID(),
		ResourceID:  r.ResourceID(),
		RequesterID: r.RequesterID(),
		Start:       r.Start(),
		Checkout:    r.Checkout(),
		Status:      r.Status().String(),
		PriceCents:  r.Price().Cents(),
		Price:       r.Price().String(),
	}
}
