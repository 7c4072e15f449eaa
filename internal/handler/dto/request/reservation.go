package request

import (
	"strings"

	"parking-orchestrator/internal/usecase/queries"
)

type ListReservationsQuery struct {
	Parking string `form:"parking" binding:"omitempty,max=100"`
	Active  bool   `form:"active"`
	After   string `form:"after"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

func (q ListReservationsQuery) Filters() queries.ReservationFilters {
	return queries.ReservationFilters{
		ResourceID: strings.TrimSpace(q.Parking),
		ActiveOnly: q.Active,
	}
}

func (q ListReservationsQuery) Cursor() *queries.Cursor {
	if q.After == "" {
		return nil
	}
	return &queries.Cursor{After: q.After}
}
