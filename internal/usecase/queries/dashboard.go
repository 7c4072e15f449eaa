package queries

import (
	"context"
	"sort"
	"time"

	"parking-orchestrator/internal/domain/parking"
	"parking-orchestrator/internal/domain/reservation"
	"parking-orchestrator/internal/pkg/clock"
	"parking-orchestrator/internal/pkg/errs"
	"parking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

// OccupancyHours are the chart slots of the dashboard. A reservation counts toward a slot
// only when it starts within that exact hour.
var OccupancyHours = []int{6, 8, 10, 12, 14, 16, 18, 20}

// Revenue report windows, in calendar days back from today inclusive of both ends.
const (
	weekWindowDays  = 7
	monthWindowDays = 30
	chartEntries    = 5
)

type DashboardQueries interface {
	Get(ctx context.Context, adminID uuid.UUID) (*DashboardView, error)
	// Revenue reports today's, the last week's and the last month's takings of the admin's lot.
	Revenue(ctx context.Context, adminID uuid.UUID) (*RevenueReport, error)
}

type dashboardQueriesImpl struct {
	parkings     shared.ParkingGateway
	reservations shared.ReservationGateway
	accounts     shared.AccountGateway
	revenues     shared.RevenueGateway
	clock        clock.Clock
	loc          *time.Location
}

func NewDashboardQueries(
	parkings shared.ParkingGateway,
	reservations shared.ReservationGateway,
	accounts shared.AccountGateway,
	revenues shared.RevenueGateway,
	clk clock.Clock,
	loc *time.Location,
) DashboardQueries {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardQueriesImpl{
		parkings:     parkings,
		reservations: reservations,
		accounts:     accounts,
		revenues:     revenues,
		clock:        clk,
		loc:          loc,
	}
}

func (q *dashboardQueriesImpl) Get(ctx context.Context, adminID uuid.UUID) (*DashboardView, error) {
	lot, err := q.adminLot(ctx, adminID)
	if err != nil {
		return nil, err
	}

	today := q.clock.Now().In(q.loc)
	view := &DashboardView{
		ParkingName:     lot.Name(),
		CurrentCapacity: lot.Current(),
		MaximumCapacity: lot.Maximum(),
		Date:            today.Format(time.DateOnly),
	}

	list, err := q.reservations.ListReservations(ctx, shared.ReservationFilter{ResourceID: lot.Name()})
	if err != nil {
		return nil, err
	}
	var todays []*reservation.Reservation
	for _, r := range list {
		if r.ResourceID() != lot.Name() {
			continue
		}
		if r.IsActive() {
			view.ActiveReservations++
		}
		if sameDay(r.Start().In(q.loc), today) {
			todays = append(todays, r)
		}
	}
	view.Occupancy = occupancyByHour(todays, q.loc)

	entries, err := q.revenues.ListRevenues(ctx, lot.Name(), today, today)
	if err != nil {
		return nil, err
	}
	var cents int64
	for _, e := range entries {
		cents += e.Amount.Cents()
	}
	view.TodayRevenueCents = cents
	view.TodayRevenue = formatCents(cents)

	customers, err := q.accounts.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}
	view.TotalCustomers = customers

	return view, nil
}

func (q *dashboardQueriesImpl) Revenue(ctx context.Context, adminID uuid.UUID) (*RevenueReport, error) {
	lot, err := q.adminLot(ctx, adminID)
	if err != nil {
		return nil, err
	}

	today := startOfDay(q.clock.Now().In(q.loc))
	weekStart := today.AddDate(0, 0, -weekWindowDays)
	monthStart := today.AddDate(0, 0, -monthWindowDays)

	// One read covers every window; the shorter ones are cut from it by day.
	entries, err := q.revenues.ListRevenues(ctx, lot.Name(), monthStart, today)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })

	var daily, weekly, monthly int64
	for _, e := range entries {
		day := startOfDay(e.Date.In(q.loc))
		if day.Before(monthStart) || day.After(today) {
			continue
		}
		monthly += e.Amount.Cents()
		if !day.Before(weekStart) {
			weekly += e.Amount.Cents()
		}
		if day.Equal(today) {
			daily += e.Amount.Cents()
		}
	}

	report := &RevenueReport{
		ParkingName:  lot.Name(),
		Date:         today.Format(time.DateOnly),
		DailyCents:   daily,
		WeeklyCents:  weekly,
		MonthlyCents: monthly,
		Daily:        formatCents(daily),
		Weekly:       formatCents(weekly),
		Monthly:      formatCents(monthly),
		Chart:        []RevenuePoint{},
	}
	for _, e := range entries[max(0, len(entries)-chartEntries):] {
		report.Chart = append(report.Chart, RevenuePoint{
			Date:        e.Date.In(q.loc).Format(time.DateOnly),
			Label:       e.Date.In(q.loc).Format("Jan 2"),
			AmountCents: e.Amount.Cents(),
			Amount:      e.Amount.String(),
		})
	}
	return report, nil
}

// adminLot resolves the lot an administrator's reports are about.
func (q *dashboardQueriesImpl) adminLot(ctx context.Context, adminID uuid.UUID) (*parking.Resource, error) {
	admin, err := q.accounts.IsAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, ErrAdminOnly
	}

	lots, err := q.parkings.ListParkings(ctx)
	if err != nil {
		return nil, err
	}
	lot := pickLot(lots, adminID)
	if lot == nil {
		return nil, errs.Mark(errs.New("dashboard has no parking to show"), ErrNoParkings, errs.ErrNotFound)
	}
	return lot, nil
}

// pickLot prefers the lot the admin owns and falls back to the first one listed.
func pickLot(lots []*parking.Resource, adminID uuid.UUID) *parking.Resource {
	for _, lot := range lots {
		if lot.OwnedBy(adminID) {
			return lot
		}
	}
	if len(lots) > 0 {
		return lots[0]
	}
	return nil
}

func occupancyByHour(reservations []*reservation.Reservation, loc *time.Location) []OccupancySlot {
	buckets := make(map[int]int)
	for _, r := range reservations {
		buckets[r.Start().In(loc).Hour()]++
	}
	slots := make([]OccupancySlot, 0, len(OccupancyHours))
	for _, h := range OccupancyHours {
		slots = append(slots, OccupancySlot{Hour: h, Reservations: buckets[h]})
	}
	return slots
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func formatCents(cents int64) string {
	m, err := reservation.NewMoney(cents)
	if err != nil {
		return ""
	}
	return m.String()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
