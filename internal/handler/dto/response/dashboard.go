package response

import (
	"parking-orchestrator/internal/usecase/queries"
)

type OccupancyResponse struct {
	Hour         int `json:"hour"`
	Reservations int `json:"reservations"`
}

type DashboardResponse struct {
	ParkingName        string              `json:"parking_name"`
	CurrentCapacity    int                 `json:"current_capacity"`
	MaximumCapacity    int                 `json:"maximum_capacity"`
	ActiveReservations int                 `json:"active_reservations"`
	TodayRevenue       string              `json:"today_revenue"`
	TotalCustomers     int                 `json:"total_customers"`
	Occupancy          []OccupancyResponse `json:"occupancy"`
	Date               string              `json:"date"`
}

func FromDashboardView(v *queries.DashboardView) (*DashboardResponse, error) {
	return copyInto[DashboardResponse](v)
}

type RevenuePointResponse struct {
	Date   string `json:"date"`
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

type RevenueReportResponse struct {
	ParkingName string                 `json:"parking_name"`
	Date        string                 `json:"date"`
	Daily       string                 `json:"daily"`
	Weekly      string                 `json:"weekly"`
	Monthly     string                 `json:"monthly"`
	Chart       []RevenuePointResponse `json:"chart"`
}

func FromRevenueReport(r *queries.RevenueReport) (*RevenueReportResponse, error) {
	res, err := copyInto[RevenueReportResponse](r)
	if err != nil {
		return nil, err
	}
	if res.Chart == nil {
		res.Chart = []RevenuePointResponse{}
	}
	return res, nil
}
