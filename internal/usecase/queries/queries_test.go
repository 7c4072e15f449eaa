//go:build unit

package queries_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"parking-orchestrator/internal/domain/booking"
	"parking-orchestrator/internal/domain/loyalty"
	"parking-orchestrator/internal/domain/parking"
	"parking-orchestrator/internal/domain/reservation"
	sharedmock "parking-orchestrator/internal/mock/shared"
	"parking-orchestrator/internal/pkg/clock"
	"parking-orchestrator/internal/pkg/errs"
	"parking-orchestrator/internal/usecase/queries"
	"parking-orchestrator/internal/usecase/shared"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// assertMarked checks err against a sentinel attached with errs.Mark, which errors.Is does not see.
func assertMarked(t *testing.T, err, target error) {
	t.Helper()
	assert.Truef(t, errs.Is(err, target), "expected %v to be marked with %v", err, target)
}

var (
	now     = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	adminID = uuid.MustParse("0b6a3c52-8f1e-4d2a-b7c9-3e5f1a2d4c68")
	userID  = uuid.MustParse("6f1c2a9e-4b7d-4c1e-9a3f-0d8e2b5c7a41")
)

func lot(t *testing.T, name string, owner uuid.UUID, current, maximum int) *parking.Resource {
	t.Helper()
	r, err := parking.NewResource(parking.Params{
		Name:              name,
		OwnerID:           owner,
		Current:           current,
		Maximum:           maximum,
		PricePerHourCents: 500,
		Schedule:          parking.ParseSchedule("08:00:00", "22:00:00"),
	})
	require.NoError(t, err)
	return r
}

func booked(t *testing.T, id int64, resource string, requester uuid.UUID, start time.Time, status reservation.Status) *reservation.Reservation {
	t.Helper()
	price, err := reservation.NewMoney(1000)
	require.NoError(t, err)
	r, err := reservation.Reconstruct(id, resource, requester, start, nil, status, price)
	require.NoError(t, err)
	return r
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func money(t *testing.T, cents int64) reservation.Money {
	t.Helper()
	m, err := reservation.NewMoney(cents)
	require.NoError(t, err)
	return m
}

func TestParkingQueries(t *testing.T) {
	ctrl := gomock.NewController(t)
	parkings := sharedmock.NewMockParkingGateway(ctrl)
	q := queries.NewParkingQueries(parkings, clock.NewMockClock(now), time.UTC)

	t.Run("list evaluates availability", func(t *testing.T) {
		parkings.EXPECT().ListParkings(gomock.Any()).Return([]*parking.Resource{
			lot(t, "Central", adminID, 10, 50),
			lot(t, "North", adminID, 20, 20),
		}, nil)

		views, err := q.List(context.Background())
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "open", views[0].Availability)
		assert.True(t, views[0].Bookable)
		assert.Equal(t, 40, views[0].Remaining)
		assert.Equal(t, "5.00", views[0].PricePerHour)
		assert.Equal(t, "full", views[1].Availability)
		assert.False(t, views[1].Bookable)
	})

	t.Run("unknown lot", func(t *testing.T) {
		parkings.EXPECT().GetParking(gomock.Any(), "Nowhere").Return(nil, errs.Mark(errs.New("404"), errs.ErrNotFound))

		_, err := q.Get(context.Background(), "Nowhere")
		assertMarked(t, err, queries.ErrParkingNotFound)
	})
}

func TestReservationQueries_ListMine(t *testing.T) {
	ctrl := gomock.NewController(t)
	reservations := sharedmock.NewMockReservationGateway(ctrl)
	q := queries.NewReservationQueries(reservations)

	all := []*reservation.Reservation{
		booked(t, 1, "Central", userID, now.Add(-48*time.Hour), reservation.StatusCompleted),
		booked(t, 2, "Central", userID, now, reservation.StatusConfirmed),
		booked(t, 3, "North", userID, now.Add(-24*time.Hour), reservation.StatusCancelled),
		booked(t, 4, "Central", adminID, now, reservation.StatusConfirmed),
	}
	reservations.EXPECT().ListReservations(gomock.Any(), shared.ReservationFilter{RequesterID: userID}).Return(all, nil).Times(2)

	first, next, err := q.ListMine(context.Background(), userID, queries.ReservationFilters{}, nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, int64(2), first[0].ID)
	assert.Equal(t, int64(3), first[1].ID)
	require.NotNil(t, next)

	rest, next, err := q.ListMine(context.Background(), userID, queries.ReservationFilters{}, next, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, int64(1), rest[0].ID)
	assert.Nil(t, next)

	_, _, err = q.ListMine(context.Background(), userID, queries.ReservationFilters{}, &queries.Cursor{After: "garbage"}, 2)
	assertMarked(t, err, queries.ErrInvalidCursor)
}

func TestLoyaltyQueries_GetOrCreate(t *testing.T) {
	notFound := errs.Mark(errs.New("no people row"), errs.ErrNotFound)

	t.Run("existing account", func(t *testing.T) {
		accounts := sharedmock.NewMockAccountGateway(gomock.NewController(t))
		acc, _ := loyalty.NewAccount(userID, nil, 120, 0)
		accounts.EXPECT().GetAccount(gomock.Any(), userID).Return(acc, nil)

		view, err := queries.NewLoyaltyQueries(accounts, discard()).GetOrCreate(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, 120, view.Points)
		assert.False(t, view.Created)
	})

	t.Run("customer without account gets one", func(t *testing.T) {
		accounts := sharedmock.NewMockAccountGateway(gomock.NewController(t))
		acc, _ := loyalty.NewAccount(userID, nil, 0, 0)
		accounts.EXPECT().GetAccount(gomock.Any(), userID).Return(nil, notFound)
		accounts.EXPECT().IsAdmin(gomock.Any(), userID).Return(false, nil)
		accounts.EXPECT().CreateAccount(gomock.Any(), userID).Return(acc, nil)

		view, err := queries.NewLoyaltyQueries(accounts, discard()).GetOrCreate(context.Background(), userID)
		require.NoError(t, err)
		assert.True(t, view.Created)
		assert.Equal(t, 0, view.Points)
	})

	t.Run("administrator has none", func(t *testing.T) {
		accounts := sharedmock.NewMockAccountGateway(gomock.NewController(t))
		accounts.EXPECT().GetAccount(gomock.Any(), adminID).Return(nil, notFound)
		accounts.EXPECT().IsAdmin(gomock.Any(), adminID).Return(true, nil)

		_, err := queries.NewLoyaltyQueries(accounts, discard()).GetOrCreate(context.Background(), adminID)
		assertMarked(t, err, queries.ErrNoLoyaltyAccount)
		assert.Equal(t, errs.ClassNotFound, errs.Classify(err))
	})

	t.Run("lost creation race reads again", func(t *testing.T) {
		accounts := sharedmock.NewMockAccountGateway(gomock.NewController(t))
		acc, _ := loyalty.NewAccount(userID, nil, 5, 0)
		gomock.InOrder(
			accounts.EXPECT().GetAccount(gomock.Any(), userID).Return(nil, notFound),
			accounts.EXPECT().IsAdmin(gomock.Any(), userID).Return(false, nil),
			accounts.EXPECT().CreateAccount(gomock.Any(), userID).Return(nil, errs.Mark(errs.New("duplicate"), errs.ErrConflict)),
			accounts.EXPECT().GetAccount(gomock.Any(), userID).Return(acc, nil),
		)

		view, err := queries.NewLoyaltyQueries(accounts, discard()).GetOrCreate(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, 5, view.Points)
	})
}

func TestDashboardQueries_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	parkings := sharedmock.NewMockParkingGateway(ctrl)
	reservations := sharedmock.NewMockReservationGateway(ctrl)
	accounts := sharedmock.NewMockAccountGateway(ctrl)
	revenues := sharedmock.NewMockRevenueGateway(ctrl)
	q := queries.NewDashboardQueries(parkings, reservations, accounts, revenues, clock.NewMockClock(now), time.UTC)

	day := func(h, m int) time.Time { return time.Date(2025, 3, 14, h, m, 0, 0, time.UTC) }

	t.Run("summarises the admin's lot", func(t *testing.T) {
		accounts.EXPECT().IsAdmin(gomock.Any(), adminID).Return(true, nil)
		parkings.EXPECT().ListParkings(gomock.Any()).Return([]*parking.Resource{
			lot(t, "North", uuid.New(), 3, 20),
			lot(t, "Central", adminID, 11, 50),
		}, nil)
		reservations.EXPECT().ListReservations(gomock.Any(), shared.ReservationFilter{ResourceID: "Central"}).Return([]*reservation.Reservation{
			booked(t, 1, "Central", userID, day(8, 0), reservation.StatusConfirmed),
			booked(t, 2, "Central", userID, day(8, 45), reservation.StatusPending),
			booked(t, 3, "Central", userID, day(9, 0), reservation.StatusCompleted),
			booked(t, 4, "Central", userID, day(20, 0), reservation.StatusCancelled),
			booked(t, 5, "Central", userID, day(8, 0).Add(-24*time.Hour), reservation.StatusConfirmed),
		}, nil)
		revenues.EXPECT().ListRevenues(gomock.Any(), "Central", gomock.Any(), gomock.Any()).Return([]shared.RevenueEntry{
			{ParkingID: "Central", Amount: money(t, 1000)},
			{ParkingID: "Central", Amount: money(t, 250)},
		}, nil)
		accounts.EXPECT().CountCustomers(gomock.Any()).Return(230, nil)

		view, err := q.Get(context.Background(), adminID)
		require.NoError(t, err)

		want := &queries.DashboardView{
			ParkingName:        "Central",
			CurrentCapacity:    11,
			MaximumCapacity:    50,
			ActiveReservations: 3,
			TodayRevenueCents:  1250,
			TodayRevenue:       "12.50",
			TotalCustomers:     230,
			Date:               "2025-03-14",
			Occupancy: []queries.OccupancySlot{
				{Hour: 6}, {Hour: 8, Reservations: 2}, {Hour: 10}, {Hour: 12},
				{Hour: 14}, {Hour: 16}, {Hour: 18}, {Hour: 20, Reservations: 1},
			},
		}
		if diff := cmp.Diff(want, view); diff != "" {
			t.Errorf("dashboard mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("customers are refused", func(t *testing.T) {
		accounts.EXPECT().IsAdmin(gomock.Any(), userID).Return(false, nil)

		_, err := q.Get(context.Background(), userID)
		assertMarked(t, err, queries.ErrAdminOnly)
	})

	t.Run("no lots at all", func(t *testing.T) {
		accounts.EXPECT().IsAdmin(gomock.Any(), adminID).Return(true, nil)
		parkings.EXPECT().ListParkings(gomock.Any()).Return(nil, nil)

		_, err := q.Get(context.Background(), adminID)
		assertMarked(t, err, queries.ErrNoParkings)
	})
}

func TestDashboardQueries_Revenue(t *testing.T) {
	ctrl := gomock.NewController(t)
	parkings := sharedmock.NewMockParkingGateway(ctrl)
	reservations := sharedmock.NewMockReservationGateway(ctrl)
	accounts := sharedmock.NewMockAccountGateway(ctrl)
	revenues := sharedmock.NewMockRevenueGateway(ctrl)
	q := queries.NewDashboardQueries(parkings, reservations, accounts, revenues, clock.NewMockClock(now), time.UTC)

	date := func(month time.Month, d int) time.Time { return time.Date(2025, month, d, 0, 0, 0, 0, time.UTC) }
	entry := func(at time.Time, cents int64) shared.RevenueEntry {
		return shared.RevenueEntry{Date: at, ParkingID: "Central", Amount: money(t, cents)}
	}

	t.Run("sums today, 7 and 30 days and charts the last 5 entries", func(t *testing.T) {
		accounts.EXPECT().IsAdmin(gomock.Any(), adminID).Return(true, nil)
		parkings.EXPECT().ListParkings(gomock.Any()).Return([]*parking.Resource{lot(t, "Central", adminID, 11, 50)}, nil)
		revenues.EXPECT().ListRevenues(gomock.Any(), "Central", date(time.February, 12), date(time.March, 14)).Return([]shared.RevenueEntry{
			entry(date(time.March, 14), 1000),
			entry(date(time.March, 1), 2000),
			entry(date(time.March, 14), 250),
			entry(date(time.March, 7), 300),
			entry(date(time.February, 12), 100),
			entry(date(time.March, 10), 500),
		}, nil)

		report, err := q.Revenue(context.Background(), adminID)
		require.NoError(t, err)

		want := &queries.RevenueReport{
			ParkingName:  "Central",
			Date:         "2025-03-14",
			DailyCents:   1250,
			WeeklyCents:  2050,
			MonthlyCents: 4150,
			Daily:        "12.50",
			Weekly:       "20.50",
			Monthly:      "41.50",
			Chart: []queries.RevenuePoint{
				{Date: "2025-03-01", Label: "Mar 1", AmountCents: 2000, Amount: "20.00"},
				{Date: "2025-03-07", Label: "Mar 7", AmountCents: 300, Amount: "3.00"},
				{Date: "2025-03-10", Label: "Mar 10", AmountCents: 500, Amount: "5.00"},
				{Date: "2025-03-14", Label: "Mar 14", AmountCents: 1000, Amount: "10.00"},
				{Date: "2025-03-14", Label: "Mar 14", AmountCents: 250, Amount: "2.50"},
			},
		}
		if diff := cmp.Diff(want, report); diff != "" {
			t.Errorf("revenue report mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no entries yields zeros and an empty chart", func(t *testing.T) {
		accounts.EXPECT().IsAdmin(gomock.Any(), adminID).Return(true, nil)
		parkings.EXPECT().ListParkings(gomock.Any()).Return([]*parking.Resource{lot(t, "Central", adminID, 11, 50)}, nil)
		revenues.EXPECT().ListRevenues(gomock.Any(), "Central", gomock.Any(), gomock.Any()).Return(nil, nil)

		report, err := q.Revenue(context.Background(), adminID)
		require.NoError(t, err)
		assert.Zero(t, report.MonthlyCents)
		assert.Equal(t, "0.00", report.Daily)
		assert.Empty(t, report.Chart)
		assert.NotNil(t, report.Chart)
	})

	t.Run("customers are refused", func(t *testing.T) {
		accounts.EXPECT().IsAdmin(gomock.Any(), userID).Return(false, nil)

		_, err := q.Revenue(context.Background(), userID)
		assertMarked(t, err, queries.ErrAdminOnly)
	})

	t.Run("backend failure is passed on", func(t *testing.T) {
		accounts.EXPECT().IsAdmin(gomock.Any(), adminID).Return(true, nil)
		parkings.EXPECT().ListParkings(gomock.Any()).Return([]*parking.Resource{lot(t, "Central", adminID, 11, 50)}, nil)
		revenues.EXPECT().ListRevenues(gomock.Any(), "Central", gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(errs.New("timeout"), errs.ErrNetwork))

		_, err := q.Revenue(context.Background(), adminID)
		assertMarked(t, err, errs.ErrNetwork)
	})
}

func TestAttemptQueries_GetByKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := sharedmock.NewMockAttemptReadStore(ctrl)
	q := queries.NewAttemptQueries(store)

	id := int64(42)
	store.EXPECT().FindByKey(gomock.Any(), "key-1", userID).Return(&booking.Snapshot{
		Key:           "key-1",
		ResourceID:    "Central",
		RequesterID:   userID,
		State:         booking.StatePartiallyReconciled,
		ReservationID: &id,
		Steps: map[booking.Step]booking.StepOutcome{
			booking.StepLoyalty: booking.Failed(3, "network", errs.New("timeout")),
		},
		Warnings:  []string{"loyalty update did not complete: timeout"},
		StartedAt: now,
	}, nil)
	store.EXPECT().FindByKey(gomock.Any(), "missing", userID).Return(nil, errs.Mark(errs.New("none"), errs.ErrNotFound))

	view, err := q.GetByKey(context.Background(), "key-1", userID)
	require.NoError(t, err)
	assert.Equal(t, "partially_reconciled", view.State)
	assert.Equal(t, "failed", view.Steps["loyalty"].Status)
	assert.Equal(t, 3, view.Steps["loyalty"].Attempts)

	_, err = q.GetByKey(context.Background(), "missing", userID)
	assertMarked(t, err, queries.ErrAttemptNotFound)
}
