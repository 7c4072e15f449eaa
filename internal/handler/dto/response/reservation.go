package response

import (
	"time"

	"parking-orchestrator/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID          int64      `json:"id"`
	ResourceID  string     `json:"parking_name"`
	RequesterID uuid.UUID  `json:"requester_id"`
	Start       time.Time  `json:"start_time"`
	Checkout    *time.Time `json:"checkout,omitempty"`
	Status      string     `json:"status"`
	Price       string     `json:"price"`
}

type ReservationListResponse struct {
	Items      []*ReservationResponse `json:"items"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

func FromReservationList(items []*queries.ReservationListItem, next *queries.Cursor) (*ReservationListResponse, error) {
	res := &ReservationListResponse{Items: make([]*ReservationResponse, 0, len(items))}
	if err := copier.Copy(&res.Items, items); err != nil {
		return nil, err
	}
	if next != nil {
		res.NextCursor = next.After
	}
	return res, nil
}
