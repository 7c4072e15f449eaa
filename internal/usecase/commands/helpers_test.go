//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"parking-orchestrator/internal/domain/booking"
	"parking-orchestrator/internal/domain/loyalty"
	"parking-orchestrator/internal/domain/parking"
	"parking-orchestrator/internal/domain/reservation"
	"parking-orchestrator/internal/infra/db"
	"parking-orchestrator/internal/pkg/config"
	"parking-orchestrator/internal/pkg/errs"
	"parking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	// 10:00 on a weekday in the lot's zone.
	testNow     = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	requesterID = uuid.MustParse("6f1c2a9e-4b7d-4c1e-9a3f-0d8e2b5c7a41")
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBookingConfig() config.BookingConfig {
	return config.NewTestConfig().Booking
}

func networkErr(msg string) error {
	return errs.Mark(errs.New(msg), errs.ErrNetwork)
}

func conflictErr(msg string) error {
	return errs.Mark(errs.New(msg), errs.ErrConflict)
}

func validationErr(msg string) error {
	return errs.Mark(errs.New(msg), errs.ErrValidation)
}

func notFoundErr(msg string) error {
	return errs.Mark(errs.New(msg), errs.ErrNotFound)
}

// assertMarked checks err against a sentinel attached with errs.Mark, which errors.Is does not see.
func assertMarked(t *testing.T, err, target error) {
	t.Helper()
	assert.Truef(t, errs.Is(err, target), "expected %v to be marked with %v", err, target)
}

func newLot(t *testing.T, current, maximum int) *parking.Resource {
	t.Helper()
	open, err := parking.NewTimeOfDay(8, 0, 0)
	require.NoError(t, err)
	closeAt, err := parking.NewTimeOfDay(22, 0, 0)
	require.NoError(t, err)

	r, err := parking.NewResource(parking.Params{
		Name:              "Central",
		Location:          "1 Main St",
		OwnerID:           uuid.MustParse("0b6a3c52-8f1e-4d2a-b7c9-3e5f1a2d4c68"),
		Current:           current,
		Maximum:           maximum,
		PricePerHourCents: 500,
		Schedule:          parking.NewSchedule(open, closeAt),
	})
	require.NoError(t, err)
	return r
}

func newReservation(t *testing.T, id int64, start time.Time, status reservation.Status, cents int64) *reservation.Reservation {
	t.Helper()
	price, err := reservation.NewMoney(cents)
	require.NoError(t, err)
	end := start.Add(2 * time.Hour)
	r, err := reservation.Reconstruct(id, "Central", requesterID, start, &end, status, price)
	require.NoError(t, err)
	return r
}

func newAccount(t *testing.T, points int) *loyalty.Account {
	t.Helper()
	acc, err := loyalty.NewAccount(requesterID, nil, points, 0)
	require.NoError(t, err)
	return acc
}

func mustSlot(t *testing.T, start time.Time, d time.Duration) reservation.TimeSlot {
	t.Helper()
	slot, err := reservation.NewTimeSlot(start, start.Add(d))
	require.NoError(t, err)
	return slot
}

func mustMoney(t *testing.T, cents int64) reservation.Money {
	t.Helper()
	m, err := reservation.NewMoney(cents)
	require.NoError(t, err)
	return m
}

// memoryStore is an in-memory idempotency table and attempt journal behind a UnitOfWork.
type memoryStore struct {
	mu        sync.Mutex
	keys      map[string]shared.IdempotencyRecord
	attempts  map[string]booking.Snapshot
	recorded  int
	withinErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		keys:     map[string]shared.IdempotencyRecord{},
		attempts: map[string]booking.Snapshot{},
	}
}

func storeKey(key string, requester uuid.UUID) string {
	return requester.String() + "/" + key
}

func (s *memoryStore) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if s.withinErr != nil {
		return s.withinErr
	}
	return fn(ctx, memoryTx{s})
}

func (s *memoryStore) WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

func (s *memoryStore) record(key string) (shared.IdempotencyRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.keys[storeKey(key, requesterID)]
	return rec, ok
}

func (s *memoryStore) snapshot(key string) (booking.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.attempts[storeKey(key, requesterID)]
	return snap, ok
}

func (s *memoryStore) FindByKey(_ context.Context, key string, requester uuid.UUID) (*booking.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.attempts[storeKey(key, requester)]
	if !ok {
		return nil, notFoundErr("booking attempt not found")
	}
	return &snap, nil
}

type memoryTx struct{ s *memoryStore }

func (t memoryTx) Idempotency() shared.IdempotencyRepository { return memoryKeys(t) }
func (t memoryTx) Attempts() shared.AttemptJournal           { return memoryJournal(t) }
func (t memoryTx) DB() db.DBTX                               { return nil }

type memoryKeys struct{ s *memoryStore }

func (k memoryKeys) TryInsert(_ context.Context, rec shared.IdempotencyRecord) (bool, error) {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()
	id := storeKey(rec.Key, rec.RequesterID)
	if _, ok := k.s.keys[id]; ok {
		return false, nil
	}
	k.s.keys[id] = rec
	return true, nil
}

func (k memoryKeys) Get(_ context.Context, key string, requester uuid.UUID) (*shared.IdempotencyRecord, error) {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()
	rec, ok := k.s.keys[storeKey(key, requester)]
	if !ok {
		return nil, notFoundErr("idempotency key not found")
	}
	return &rec, nil
}

func (k memoryKeys) Complete(_ context.Context, key string, requester uuid.UUID, reservationID int64, now time.Time) error {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()
	id := storeKey(key, requester)
	rec, ok := k.s.keys[id]
	if !ok {
		return notFoundErr("idempotency key not found")
	}
	rec.Status = shared.IdempotencyCompleted
	rec.ReservationID = &reservationID
	rec.UpdatedAt = now
	k.s.keys[id] = rec
	return nil
}

func (k memoryKeys) ClaimStale(_ context.Context, key string, requester uuid.UUID, requestHash string, staleBefore, now time.Time) (bool, error) {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()
	id := storeKey(key, requester)
	rec, ok := k.s.keys[id]
	if !ok || rec.Status != shared.IdempotencyProcessing || rec.RequestHash != requestHash || !rec.UpdatedAt.Before(staleBefore) {
		return false, nil
	}
	rec.UpdatedAt = now
	k.s.keys[id] = rec
	return true, nil
}

func (k memoryKeys) Release(_ context.Context, key string, requester uuid.UUID) error {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()
	delete(k.s.keys, storeKey(key, requester))
	return nil
}

func (k memoryKeys) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()
	var n int64
	for id, rec := range k.s.keys {
		if rec.ExpiresAt.Before(now) {
			delete(k.s.keys, id)
			n++
		}
	}
	return n, nil
}

type memoryJournal struct{ s *memoryStore }

func (j memoryJournal) Record(_ context.Context, snap booking.Snapshot) error {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()
	j.s.recorded++
	id := storeKey(snap.Key, snap.RequesterID)
	if prev, ok := j.s.attempts[id]; ok && prev.State.Succeeded() && !snap.State.Succeeded() {
		return nil
	}
	j.s.attempts[id] = snap
	return nil
}

func (j memoryJournal) DeleteFinishedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()
	var n int64
	for id, snap := range j.s.attempts {
		if snap.FinishedAt != nil && snap.FinishedAt.Before(cutoff) {
			delete(j.s.attempts, id)
			n++
		}
	}
	return n, nil
}
