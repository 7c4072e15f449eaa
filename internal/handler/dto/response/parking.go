package response

import (
	"parking-orchestrator/internal/usecase/queries"

	"github.com/google/uuid"
)

type ParkingResponse struct {
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	OwnerID         uuid.UUID `json:"owner_id"`
	CurrentCapacity int       `json:"current_capacity"`
	MaximumCapacity int       `json:"maximum_capacity"`
	Remaining       int       `json:"remaining"`
	PricePerHour    string    `json:"price_per_hour"`
	OpenTime        string    `json:"open_time"`
	CloseTime       string    `json:"close_time"`
	Availability    string    `json:"availability"`
	Bookable        bool      `json:"bookable"`
}

func FromParkingView(v *queries.ParkingView) (*ParkingResponse, error) {
	return copyInto[ParkingResponse](v)
}

func FromParkingList(views []*queries.ParkingView) ([]*ParkingResponse, error) {
	res := make([]*ParkingResponse, len(views))
	for i, v := range views {
		r, err := FromParkingView(v)
		if err != nil {
			return nil, err
		}
		res[i] = r
	}
	return res, nil
}
