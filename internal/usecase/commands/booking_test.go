//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"parking-orchestrator/internal/domain/booking"
	"parking-orchestrator/internal/domain/loyalty"
	"parking-orchestrator/internal/domain/parking"
	"parking-orchestrator/internal/domain/reservation"
	sharedmock "parking-orchestrator/internal/mock/shared"
	"parking-orchestrator/internal/pkg/clock"
	"parking-orchestrator/internal/pkg/errs"
	"parking-orchestrator/internal/usecase/commands"
	"parking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type orchestratorFixture struct {
	store        *memoryStore
	parkings     *sharedmock.MockParkingGateway
	reservations *sharedmock.MockReservationGateway
	accounts     *sharedmock.MockAccountGateway
	publisher    *sharedmock.MockReconciliationPublisher
	clock        *clock.MockClock
	orchestrator commands.BookingCommands
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &orchestratorFixture{
		store:        newMemoryStore(),
		parkings:     sharedmock.NewMockParkingGateway(ctrl),
		reservations: sharedmock.NewMockReservationGateway(ctrl),
		accounts:     sharedmock.NewMockAccountGateway(ctrl),
		publisher:    sharedmock.NewMockReconciliationPublisher(ctrl),
		clock:        clock.NewMockClock(testNow),
	}
	f.parkings.EXPECT().SupportsAtomicIncrement().Return(false).AnyTimes()

	cfg := testBookingConfig()
	logger := discardLogger()
	f.orchestrator = commands.NewBookingOrchestrator(
		f.parkings,
		commands.NewReservationSubmitter(f.store, f.reservations, f.clock, cfg, logger),
		commands.NewCapacityUpdater(f.parkings, cfg, logger),
		commands.NewLoyaltyUpdater(f.accounts, cfg, logger),
		f.store,
		f.store,
		f.publisher,
		reservation.NewHourlyPriceCalculator(),
		loyalty.NewPointsPolicy(10),
		f.clock,
		time.UTC,
		cfg,
		logger,
	)
	return f
}

func twoHourBooking(key string) commands.AttemptParams {
	return commands.AttemptParams{
		ResourceID:     "Central",
		RequesterID:    requesterID,
		Start:          testNow,
		End:            testNow.Add(2 * time.Hour),
		IdempotencyKey: key,
	}
}

// expectHappyBackend scripts a lot at 10/50 taking one reservation of $10.00.
func (f *orchestratorFixture) expectHappyBackend(t *testing.T) {
	t.Helper()
	f.expectBackend(t, 10)
}

// expectBackend scripts a lot at current/50 taking one reservation of $10.00.
func (f *orchestratorFixture) expectBackend(t *testing.T, current int) {
	t.Helper()
	created := newReservation(t, 42, testNow, reservation.StatusConfirmed, 1000)

	gomock.InOrder(
		// evaluation, capacity compare-and-set, listing refresh
		f.parkings.EXPECT().GetParking(gomock.Any(), "Central").Return(newLot(t, current, 50), nil),
		f.parkings.EXPECT().GetParking(gomock.Any(), "Central").Return(newLot(t, current, 50), nil),
		f.parkings.EXPECT().UpdateCapacity(gomock.Any(), "Central", current+1).Return(newLot(t, current+1, 50), nil),
		f.parkings.EXPECT().GetParking(gomock.Any(), "Central").Return(newLot(t, current+1, 50), nil),
	)
	f.reservations.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), gomock.Any()).Return(created, nil).Times(1)
	f.accounts.EXPECT().GetAccount(gomock.Any(), requesterID).Return(newAccount(t, 0), nil).Times(1)
	f.accounts.EXPECT().UpdateAccount(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, acc *loyalty.Account) (*loyalty.Account, error) {
			return acc, nil
		}).Times(1)
}

func TestBookingOrchestrator_HappyPath(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectHappyBackend(t)

	res := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))

	require.NoError(t, res.Err)
	assert.Equal(t, booking.StateDone, res.Status)
	assert.True(t, res.Succeeded())
	assert.Equal(t, int64(1000), res.Reservation.Price().Cents())
	assert.Equal(t, "10.00", res.Reservation.Price().String())
	assert.Equal(t, 11, res.Resource.Current())
	assert.Empty(t, res.Warnings)

	assert.Equal(t, booking.StepSucceeded, res.Attempt.Steps[booking.StepCapacity].Status)
	assert.Equal(t, booking.StepSucceeded, res.Attempt.Steps[booking.StepLoyalty].Status)
	assert.Contains(t, res.Attempt.Steps[booking.StepLoyalty].Detail, "+100 points")

	snap, ok := f.store.snapshot("key-1")
	require.True(t, ok)
	assert.Equal(t, booking.StateDone, snap.State)
	require.NotNil(t, snap.ReservationID)
	assert.Equal(t, int64(42), *snap.ReservationID)
}

func TestBookingOrchestrator_SameKeyCreatesExactlyOneReservation(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectHappyBackend(t)

	first := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))
	require.NoError(t, first.Err)

	// Second call: replay by listing, then a listing read for display.
	f.reservations.EXPECT().ListReservations(gomock.Any(), gomock.Any()).Return([]*reservation.Reservation{first.Reservation}, nil).Times(1)
	f.parkings.EXPECT().GetParking(gomock.Any(), "Central").Return(newLot(t, 11, 50), nil).Times(1)

	second := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))
	require.NoError(t, second.Err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Reservation.ID(), second.Reservation.ID())
	assert.Equal(t, booking.StateDone, second.Status)
	assert.Equal(t, 1, f.store.recorded)
}

func TestBookingOrchestrator_RetryAfterLotFillsReplays(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectBackend(t, 49)

	first := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))
	require.NoError(t, first.Err)
	require.Equal(t, booking.StateDone, first.Status)
	assert.Equal(t, 50, first.Resource.Current())

	// The booking itself filled the lot; the retry must not be evaluated against it.
	f.reservations.EXPECT().ListReservations(gomock.Any(), shared.ReservationFilter{ResourceID: "Central", RequesterID: requesterID}).
		Return([]*reservation.Reservation{first.Reservation}, nil).Times(1)
	f.parkings.EXPECT().GetParking(gomock.Any(), "Central").Return(newLot(t, 50, 50), nil).Times(1)

	second := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))

	require.NoError(t, second.Err)
	assert.True(t, second.Replayed)
	assert.Equal(t, booking.StateDone, second.Status)
	assert.Empty(t, second.Reason)
	assert.Equal(t, int64(42), second.Reservation.ID())
	assert.Equal(t, 50, second.Resource.Current())

	snap, ok := f.store.snapshot("key-1")
	require.True(t, ok)
	assert.Equal(t, booking.StateDone, snap.State)
	require.NotNil(t, snap.ReservationID)
	assert.Equal(t, int64(42), *snap.ReservationID)
}

func TestBookingOrchestrator_RetryAfterLotClosesReplays(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectHappyBackend(t)

	first := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))
	require.NoError(t, first.Err)

	f.clock.Set(time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC))
	f.reservations.EXPECT().ListReservations(gomock.Any(), gomock.Any()).Return([]*reservation.Reservation{first.Reservation}, nil).Times(1)
	f.parkings.EXPECT().GetParking(gomock.Any(), "Central").Return(newLot(t, 11, 50), nil).Times(1)

	second := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))

	require.NoError(t, second.Err)
	assert.True(t, second.Replayed)
	assert.Equal(t, booking.StateDone, second.Status)
	assert.Equal(t, first.Reservation.ID(), second.Reservation.ID())

	snap, ok := f.store.snapshot("key-1")
	require.True(t, ok)
	assert.Equal(t, booking.StateDone, snap.State)
}

func TestBookingOrchestrator_ReplayWithoutListingStillAnswers(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectHappyBackend(t)

	first := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))
	require.NoError(t, first.Err)

	f.reservations.EXPECT().ListReservations(gomock.Any(), gomock.Any()).Return([]*reservation.Reservation{first.Reservation}, nil).Times(1)
	f.parkings.EXPECT().GetParking(gomock.Any(), "Central").Return(nil, networkErr("timeout")).Times(1)

	second := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))

	require.NoError(t, second.Err)
	assert.True(t, second.Replayed)
	assert.Nil(t, second.Resource)
}

func TestBookingOrchestrator_CompletedKeyWithOtherStartIsReused(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectHappyBackend(t)

	first := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))
	require.NoError(t, first.Err)

	f.reservations.EXPECT().ListReservations(gomock.Any(), gomock.Any()).Return([]*reservation.Reservation{first.Reservation}, nil).Times(1)

	p := twoHourBooking("key-1")
	p.Start = p.Start.Add(time.Hour)
	p.End = p.End.Add(time.Hour)
	res := f.orchestrator.AttemptBooking(context.Background(), p)

	assert.Equal(t, booking.StateRejected, res.Status)
	assertMarked(t, res.Err, commands.ErrIdempotencyKeyReused)
	assert.Equal(t, errs.ClassConflict, errs.Classify(res.Err))

	snap, ok := f.store.snapshot("key-1")
	require.True(t, ok)
	assert.Equal(t, booking.StateDone, snap.State)
}

func TestBookingOrchestrator_RejectionKeepsSucceededJournal(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectBackend(t, 49)

	first := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))
	require.NoError(t, first.Err)

	// The idempotency key has expired, so the retry is evaluated and the lot is full.
	f.clock.Set(testNow.Add(25 * time.Hour))
	f.parkings.EXPECT().GetParking(gomock.Any(), "Central").Return(newLot(t, 50, 50), nil).Times(1)

	second := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))

	assert.Equal(t, booking.StateRejected, second.Status)
	assert.Equal(t, "full", second.Reason)
	assertMarked(t, second.Err, commands.ErrResourceUnavailable)

	snap, ok := f.store.snapshot("key-1")
	require.True(t, ok)
	assert.Equal(t, booking.StateDone, snap.State)
	assert.Empty(t, snap.Reason)
	require.NotNil(t, snap.ReservationID)
	assert.Equal(t, int64(42), *snap.ReservationID)
}

func TestBookingOrchestrator_DerivesKeyWhenMissing(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectHappyBackend(t)

	res := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking(""))
	require.NoError(t, res.Err)

	want := commands.DeriveIdempotencyKey("Central", requesterID, testNow, testNow.Add(2*time.Hour))
	assert.Equal(t, want, res.Attempt.Key)
	_, err := uuid.Parse(res.Attempt.Key)
	assert.NoError(t, err)
}

func TestBookingOrchestrator_LoyaltyFailureIsPartiallyReconciled(t *testing.T) {
	f := newOrchestratorFixture(t)
	created := newReservation(t, 42, testNow, reservation.StatusConfirmed, 1000)

	gomock.InOrder(
		f.parkings.EXPECT().GetParking(gomock.Any(), "Central").Return(newLot(t, 10, 50), nil),
		f.parkings.EXPECT().GetParking(gomock.Any(), "Central").Return(newLot(t, 10, 50), nil),
		f.parkings.EXPECT().UpdateCapacity(gomock.Any(), "Central", 11).Return(newLot(t, 11, 50), nil),
		f.parkings.EXPECT().GetParking(gomock.Any(), "Central").Return(newLot(t, 11, 50), nil),
	)
	f.reservations.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), gomock.Any()).Return(created, nil).Times(1)
	f.accounts.EXPECT().GetAccount(gomock.Any(), requesterID).Return(nil, networkErr("timeout")).Times(3)
	f.publisher.EXPECT().PublishReconciliationRequired(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev shared.ReconciliationEvent) error {
			assert.Equal(t, "key-1", ev.IdempotencyKey)
			assert.Equal(t, int64(42), ev.ReservationID)
			assert.Equal(t, []string{"loyalty"}, ev.FailedSteps)
			return nil
		}).Times(1)

	res := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))

	require.NoError(t, res.Err)
	assert.Equal(t, booking.StatePartiallyReconciled, res.Status)
	assert.True(t, res.Succeeded())
	assert.Equal(t, int64(42), res.Reservation.ID())
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "loyalty")
	assert.Equal(t, 3, res.Attempt.Steps[booking.StepLoyalty].Attempts)
}

func TestBookingOrchestrator_FullLotMakesNoWrites(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.parkings.EXPECT().GetParking(gomock.Any(), "Central").Return(newLot(t, 50, 50), nil).Times(1)

	res := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))

	assert.Equal(t, booking.StateRejected, res.Status)
	assert.Equal(t, "full", res.Reason)
	assertMarked(t, res.Err, commands.ErrResourceUnavailable)
	assert.Equal(t, errs.ClassConflict, errs.Classify(res.Err))
	assert.Nil(t, res.Reservation)
	assert.Equal(t, 50, res.Resource.Current())

	_, claimed := f.store.record("key-1")
	assert.False(t, claimed)
	snap, ok := f.store.snapshot("key-1")
	require.True(t, ok)
	assert.Equal(t, booking.StateRejected, snap.State)
}

func TestBookingOrchestrator_ClosedLot(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.clock.Set(time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC))
	f.parkings.EXPECT().GetParking(gomock.Any(), "Central").Return(newLot(t, 10, 50), nil).Times(1)

	res := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))

	assert.Equal(t, booking.StateRejected, res.Status)
	assert.Equal(t, "closed", res.Reason)
	assertMarked(t, res.Err, commands.ErrResourceUnavailable)
	assert.Contains(t, res.Err.Error(), "08:00")
}

func TestBookingOrchestrator_RejectsBeforeAnyCall(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *commands.AttemptParams)
		reason string
	}{
		{name: "end before start", mutate: func(p *commands.AttemptParams) { p.End = p.Start.Add(-time.Hour) }, reason: "invalid time slot"},
		{name: "no requester", mutate: func(p *commands.AttemptParams) { p.RequesterID = uuid.Nil }, reason: "invalid request"},
		{name: "no resource", mutate: func(p *commands.AttemptParams) { p.ResourceID = "" }, reason: "invalid request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrchestratorFixture(t)
			p := twoHourBooking("key-1")
			tt.mutate(&p)

			res := f.orchestrator.AttemptBooking(context.Background(), p)
			assert.Equal(t, booking.StateRejected, res.Status)
			assert.Equal(t, tt.reason, res.Reason)
			assertMarked(t, res.Err, commands.ErrInvalidBooking)
			assert.Equal(t, errs.ClassValidation, errs.Classify(res.Err))
		})
	}
}

func TestBookingOrchestrator_UnknownLot(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.parkings.EXPECT().GetParking(gomock.Any(), "Central").Return(nil, notFoundErr("no such parking")).Times(1)

	res := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))
	assert.Equal(t, booking.StateRejected, res.Status)
	assertMarked(t, res.Err, commands.ErrResourceNotFound)
	assert.Equal(t, errs.ClassNotFound, errs.Classify(res.Err))
}

func TestBookingOrchestrator_CancelledBeforeSubmission(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	f.parkings.EXPECT().GetParking(gomock.Any(), "Central").
		DoAndReturn(func(context.Context, string) (*parking.Resource, error) {
			cancel()
			return newLot(t, 10, 50), nil
		}).Times(1)

	res := f.orchestrator.AttemptBooking(ctx, twoHourBooking("key-1"))
	assert.Equal(t, booking.StateRejected, res.Status)
	assert.Equal(t, "cancelled", res.Reason)
	assertMarked(t, res.Err, context.Canceled)
}

func TestBookingOrchestrator_SubmissionRejectedByBackend(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.parkings.EXPECT().GetParking(gomock.Any(), "Central").Return(newLot(t, 10, 50), nil).Times(1)
	f.reservations.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, conflictErr("slot taken")).Times(1)

	res := f.orchestrator.AttemptBooking(context.Background(), twoHourBooking("key-1"))
	assert.Equal(t, booking.StateRejected, res.Status)
	assertMarked(t, res.Err, commands.ErrResourceUnavailable)
	assert.Equal(t, booking.StepFailed, res.Attempt.Steps[booking.StepReservation].Status)
	assert.Equal(t, "conflict", res.Attempt.Steps[booking.StepReservation].ErrorClass)
}

func TestBookingOrchestrator_CallerPriceWins(t *testing.T) {
	f := newOrchestratorFixture(t)
	price := mustMoney(t, 750)

	f.parkings.EXPECT().GetParking(gomock.Any(), "Central").Return(newLot(t, 10, 50), nil).Times(3)
	f.parkings.EXPECT().UpdateCapacity(gomock.Any(), "Central", 11).Return(newLot(t, 11, 50), nil).Times(1)
	f.reservations.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req shared.CreateReservationRequest, _ string) (*reservation.Reservation, error) {
			assert.Equal(t, int64(750), req.Price.Cents())
			return newReservation(t, 5, testNow, reservation.StatusConfirmed, 750), nil
		}).Times(1)
	f.accounts.EXPECT().GetAccount(gomock.Any(), requesterID).Return(nil, notFoundErr("no people row")).Times(1)
	f.accounts.EXPECT().IsAdmin(gomock.Any(), requesterID).Return(true, nil).Times(1)

	p := twoHourBooking("key-1")
	p.Price = &price
	res := f.orchestrator.AttemptBooking(context.Background(), p)

	require.NoError(t, res.Err)
	assert.Equal(t, booking.StateDone, res.Status)
	assert.Equal(t, booking.StepNoOp, res.Attempt.Steps[booking.StepLoyalty].Status)
}

func TestDeriveIdempotencyKey_Stable(t *testing.T) {
	a := commands.DeriveIdempotencyKey("Central", requesterID, testNow, testNow.Add(time.Hour))
	b := commands.DeriveIdempotencyKey("Central", requesterID, testNow.In(time.FixedZone("X", 3600)), testNow.Add(time.Hour))
	c := commands.DeriveIdempotencyKey("Central", requesterID, testNow, testNow.Add(2*time.Hour))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
