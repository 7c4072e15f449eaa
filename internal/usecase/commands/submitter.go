package commands

import (
	"context"
	"encoding/hex"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"parking-orchestrator/internal/domain/reservation"
	"parking-orchestrator/internal/pkg/clock"
	"parking-orchestrator/internal/pkg/config"
	"parking-orchestrator/internal/pkg/errs"
	"parking-orchestrator/internal/pkg/retry"
	"parking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

type SubmitParams struct {
	ResourceID     string
	RequesterID    uuid.UUID
	Slot           reservation.TimeSlot
	Price          reservation.Money
	IdempotencyKey string
}

type SubmitResult struct {
	Reservation *reservation.Reservation
	Attempts    int
	// Replayed: the key was already completed and the stored reservation is returned.
	Replayed bool
	// Adopted: a matching reservation was found by re-query instead of being created.
	Adopted bool
}

// ReservationSubmitter creates at most one reservation per (requester, idempotency key).
// The key is claimed in Postgres before the backend is called and completed with the
// backend's reservation id afterwards.
type ReservationSubmitter struct {
	uow          shared.UnitOfWork
	reservations shared.ReservationGateway
	clock        clock.Clock
	policy       retry.Policy
	keyTTL       time.Duration
	inFlight     time.Duration
	logger       *slog.Logger
}

func NewReservationSubmitter(
	uow shared.UnitOfWork,
	reservations shared.ReservationGateway,
	clk clock.Clock,
	cfg config.BookingConfig,
	logger *slog.Logger,
) *ReservationSubmitter {
	return &ReservationSubmitter{
		uow:          uow,
		reservations: reservations,
		clock:        clk,
		policy: retry.Policy{
			MaxAttempts: cfg.SubmitMaxAttempts,
			BaseDelay:   cfg.RetryBaseDelay,
			MaxDelay:    cfg.RetryMaxDelay,
		},
		keyTTL:   cfg.IdempotencyKeyTTL,
		inFlight: cfg.InFlightWindow,
		logger:   logger,
	}
}

// Submit returns a non-nil result carrying the attempt count even when it fails.
func (s *ReservationSubmitter) Submit(ctx context.Context, p SubmitParams) (*SubmitResult, error) {
	if p.IdempotencyKey == "" || p.ResourceID == "" || p.RequesterID == uuid.Nil {
		return &SubmitResult{}, classify(errs.New("resource, requester and idempotency key are required"), ErrInvalidBooking, errs.ErrValidation)
	}
	hash := Fingerprint(p)

	prior, err := s.claim(ctx, p, hash)
	if err != nil {
		return &SubmitResult{}, err
	}
	if prior != nil {
		return prior, nil
	}
	return s.send(ctx, p)
}

// Completed looks the key up without claiming it. It returns the stored reservation when
// the key already produced one and nil when the key is unknown, expired or still in flight.
// The lot is not consulted, so a retry is answered the same way after the lot fills or closes.
func (s *ReservationSubmitter) Completed(ctx context.Context, p AttemptParams, key string) (*SubmitResult, error) {
	var rec *shared.IdempotencyRecord
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		rec, err = tx.Idempotency().Get(ctx, key, p.RequesterID)
		return err
	})
	if errs.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, ErrIdempotencyStore, nil)
	}
	if rec.Status != shared.IdempotencyCompleted || !rec.ExpiresAt.After(s.clock.Now()) {
		return nil, nil
	}

	reused := func() error {
		return classify(errs.Newf("idempotency key %q", key), ErrIdempotencyKeyReused, errs.ErrConflict)
	}
	if rec.ResourceID != p.ResourceID {
		return nil, reused()
	}
	res, err := s.replay(ctx, SubmitParams{ResourceID: p.ResourceID, RequesterID: p.RequesterID, IdempotencyKey: key}, rec)
	if err != nil {
		return nil, err
	}
	if !res.Reservation.Matches(p.ResourceID, p.RequesterID, p.Start) {
		return nil, reused()
	}
	if p.Price != nil && p.Price.Cents() != res.Reservation.Price().Cents() {
		return nil, reused()
	}
	return res, nil
}

// claim takes the key for this call. A non-nil result means the work was already done.
func (s *ReservationSubmitter) claim(ctx context.Context, p SubmitParams, hash string) (*SubmitResult, error) {
	now := s.clock.Now()
	var existing *shared.IdempotencyRecord

	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing = nil
		claimed, err := tx.Idempotency().TryInsert(ctx, shared.IdempotencyRecord{
			Key:         p.IdempotencyKey,
			RequesterID: p.RequesterID,
			ResourceID:  p.ResourceID,
			RequestHash: hash,
			Status:      shared.IdempotencyProcessing,
			CreatedAt:   now,
			UpdatedAt:   now,
			ExpiresAt:   now.Add(s.keyTTL),
		})
		if err != nil || claimed {
			return err
		}
		existing, err = tx.Idempotency().Get(ctx, p.IdempotencyKey, p.RequesterID)
		return err
	})
	if err != nil {
		return nil, classify(err, ErrIdempotencyStore, nil)
	}
	if existing == nil {
		return nil, nil
	}

	if existing.RequestHash != hash {
		return nil, classify(errs.Newf("idempotency key %q", p.IdempotencyKey), ErrIdempotencyKeyReused, errs.ErrConflict)
	}

	switch existing.Status {
	case shared.IdempotencyCompleted:
		return s.replay(ctx, p, existing)
	case shared.IdempotencyProcessing:
		return s.resume(ctx, p, hash, now)
	default:
		return nil, classify(errs.Newf("idempotency key in unknown status %q", existing.Status), ErrIdempotencyStore, nil)
	}
}

func (s *ReservationSubmitter) replay(ctx context.Context, p SubmitParams, rec *shared.IdempotencyRecord) (*SubmitResult, error) {
	if rec.ReservationID == nil {
		return nil, classify(errs.New("completed key without reservation id"), ErrReplayUnavailable, nil)
	}
	list, err := s.reservations.ListReservations(ctx, shared.ReservationFilter{ResourceID: p.ResourceID, RequesterID: p.RequesterID})
	if err != nil {
		return nil, err
	}
	for _, r := range list {
		if r.ID() == *rec.ReservationID {
			s.logger.Info("reservation replayed", "idempotency_key", p.IdempotencyKey, "reservation_id", r.ID())
			return &SubmitResult{Reservation: r, Replayed: true}, nil
		}
	}
	return nil, classify(errs.Newf("reservation %d is no longer listed", *rec.ReservationID), ErrReplayUnavailable, errs.ErrNotFound)
}

// resume handles a key left in processing by an earlier call with identical arguments.
// If that call reached the backend the reservation is adopted; otherwise the key is
// taken over once the earlier call has been silent for the in-flight window.
func (s *ReservationSubmitter) resume(ctx context.Context, p SubmitParams, hash string, now time.Time) (*SubmitResult, error) {
	match, err := s.findExisting(ctx, p)
	if err != nil {
		return nil, err
	}
	if match != nil {
		s.complete(ctx, p, match.ID())
		s.logger.Info("reservation adopted from earlier submission", "idempotency_key", p.IdempotencyKey, "reservation_id", match.ID())
		return &SubmitResult{Reservation: match, Adopted: true}, nil
	}

	var claimed bool
	err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		claimed, err = tx.Idempotency().ClaimStale(ctx, p.IdempotencyKey, p.RequesterID, hash, now.Add(-s.inFlight), now)
		return err
	})
	if err != nil {
		return nil, classify(err, ErrIdempotencyStore, nil)
	}
	if !claimed {
		return nil, classify(errs.Newf("idempotency key %q", p.IdempotencyKey), ErrSubmissionInProgress, errs.ErrConflict)
	}
	return nil, nil
}

func (s *ReservationSubmitter) send(ctx context.Context, p SubmitParams) (*SubmitResult, error) {
	var (
		created *reservation.Reservation
		adopted bool
	)

	attempts, err := retry.Do(ctx, s.policy, errs.IsRetryable, func(ctx context.Context, attempt int) error {
		if attempt > 0 {
			match, err := s.findExisting(ctx, p)
			if err != nil {
				return err
			}
			if match != nil {
				created, adopted = match, true
				return nil
			}
		}

		res, err := s.reservations.CreateReservation(ctx, shared.CreateReservationRequest{
			ResourceID:  p.ResourceID,
			RequesterID: p.RequesterID,
			Start:       p.Slot.Start(),
			End:         p.Slot.End(),
			Status:      reservation.StatusConfirmed,
			Price:       p.Price,
		}, p.IdempotencyKey)
		if err != nil {
			s.logger.Warn("create reservation failed",
				"idempotency_key", p.IdempotencyKey,
				"attempt", attempt+1,
				"class", string(errs.Classify(err)),
				"error", err.Error())
			return err
		}
		created = res
		return nil
	})
	if err != nil {
		return &SubmitResult{Attempts: attempts}, s.fail(ctx, p, err)
	}

	s.complete(ctx, p, created.ID())
	return &SubmitResult{Reservation: created, Attempts: attempts, Adopted: adopted}, nil
}

// fail frees the key when the backend definitely created nothing, so a corrected
// request may reuse it. Ambiguous failures keep the key in processing.
func (s *ReservationSubmitter) fail(ctx context.Context, p SubmitParams, err error) error {
	class := errs.Classify(err)
	if class != errs.ClassValidation && class != errs.ClassConflict {
		return err
	}

	releaseErr := s.uow.Within(context.WithoutCancel(ctx), func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Release(ctx, p.IdempotencyKey, p.RequesterID)
	})
	if releaseErr != nil {
		s.logger.Warn("failed to release idempotency key", "idempotency_key", p.IdempotencyKey, "error", releaseErr.Error())
	}

	if class == errs.ClassConflict {
		return classify(err, ErrResourceUnavailable, nil)
	}
	return classify(err, ErrInvalidBooking, nil)
}

// complete runs even if the caller has gone away: the reservation exists either way.
func (s *ReservationSubmitter) complete(ctx context.Context, p SubmitParams, reservationID int64) {
	err := s.uow.Within(context.WithoutCancel(ctx), func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Complete(ctx, p.IdempotencyKey, p.RequesterID, reservationID, s.clock.Now())
	})
	if err != nil {
		s.logger.Error("failed to complete idempotency key",
			"idempotency_key", p.IdempotencyKey,
			"reservation_id", reservationID,
			"error", err.Error())
	}
}

// findExisting looks for an active reservation with the same (resource, requester, start).
func (s *ReservationSubmitter) findExisting(ctx context.Context, p SubmitParams) (*reservation.Reservation, error) {
	list, err := s.reservations.ListReservations(ctx, shared.ReservationFilter{ResourceID: p.ResourceID, RequesterID: p.RequesterID})
	if err != nil {
		return nil, err
	}
	for _, r := range list {
		if r.IsActive() && r.Matches(p.ResourceID, p.RequesterID, p.Slot.Start()) {
			return r, nil
		}
	}
	return nil, nil
}

// Fingerprint is the BLAKE2b-256 digest of the canonical submission.
func Fingerprint(p SubmitParams) string {
	canonical := strings.Join([]string{
		p.ResourceID,
		p.RequesterID.String(),
		p.Slot.Start().UTC().Format(time.RFC3339Nano),
		p.Slot.End().UTC().Format(time.RFC3339Nano),
		strconv.FormatInt(p.Price.Cents(), 10),
	}, "\x1f")
	sum := blake2b.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
