package queries

import (
	"time"

	"github.com/google/uuid"
)

// ParkingView is a lot together with its availability at the time of the read.
type ParkingView struct {
	Name              string    `json:"name"`
	Location          string    `json:"location"`
	OwnerID           uuid.UUID `json:"owner_id"`
	CurrentCapacity   int       `json:"current_capacity"`
	MaximumCapacity   int       `json:"maximum_capacity"`
	Remaining         int       `json:"remaining"`
	PricePerHourCents int64     `json:"price_per_hour_cents"`
	PricePerHour      string    `json:"price_per_hour"`
	OpenTime          string    `json:"open_time"`
	CloseTime         string    `json:"close_time"`
	// Availability is "open", "full" or "closed".
	Availability string `json:"availability"`
	Bookable     bool   `json:"bookable"`
}

type ReservationListItem struct {
	ID          int64      `json:"id"`
	ResourceID  string     `json:"resource_id"`
	RequesterID uuid.UUID  `json:"requester_id"`
	Start       time.Time  `json:"start"`
	Checkout    *time.Time `json:"checkout,omitempty"`
	Status      string     `json:"status"`
	PriceCents  int64      `json:"price_cents"`
	Price       string     `json:"price"`
}

type LoyaltyView struct {
	AccountID   uuid.UUID `json:"account_id"`
	Points      int       `json:"points"`
	PlateNumber *int      `json:"plate_number,omitempty"`
	Balance     float64   `json:"balance"`
	// Created is set when the account did not exist and was opened by this read.
	Created bool `json:"created"`
}

type OccupancySlot struct {
	Hour         int `json:"hour"`
	Reservations int `json:"reservations"`
}

type DashboardView struct {
	ParkingName        string          `json:"parking_name"`
	CurrentCapacity    int             `json:"current_capacity"`
	MaximumCapacity    int             `json:"maximum_capacity"`
	ActiveReservations int             `json:"active_reservations"`
	TodayRevenueCents  int64           `json:"today_revenue_cents"`
	TodayRevenue       string          `json:"today_revenue"`
	TotalCustomers     int             `json:"total_customers"`
	Occupancy          []OccupancySlot `json:"occupancy"`
	Date               string          `json:"date"`
}

type RevenuePoint struct {
	Date        string `json:"date"`
	Label       string `json:"label"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
}

// RevenueReport sums the lot's revenue entries over today, the last 7 days and the last
// 30 days. Chart holds the 5 most recent entries of the 30-day window, oldest first.
type RevenueReport struct {
	ParkingName  string         `json:"parking_name"`
	Date         string         `json:"date"`
	DailyCents   int64          `json:"daily_cents"`
	WeeklyCents  int64          `json:"weekly_cents"`
	MonthlyCents int64          `json:"monthly_cents"`
	Daily        string         `json:"daily"`
	Weekly       string         `json:"weekly"`
	Monthly      string         `json:"monthly"`
	Chart        []RevenuePoint `json:"chart"`
}

type StepView struct {
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
	Error      string `json:"error,omitempty"`
	ErrorClass string `json:"error_class,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// AttemptView is a journaled booking attempt.
type AttemptView struct {
	Key           string              `json:"key"`
	ResourceID    string              `json:"resource_id"`
	RequesterID   uuid.UUID           `json:"requester_id"`
	State         string              `json:"state"`
	Reason        string              `json:"reason,omitempty"`
	ReservationID *int64              `json:"reservation_id,omitempty"`
	Steps         map[string]StepView `json:"steps"`
	Warnings      []string            `json:"warnings"`
	StartedAt     time.Time           `json:"started_at"`
	FinishedAt    *time.Time          `json:"finished_at,omitempty"`
}
