package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"parking-orchestrator/internal/domain/booking"
	"parking-orchestrator/internal/domain/loyalty"
	"parking-orchestrator/internal/domain/parking"
	"parking-orchestrator/internal/domain/reservation"
	"parking-orchestrator/internal/pkg/clock"
	"parking-orchestrator/internal/pkg/config"
	"parking-orchestrator/internal/pkg/errs"
	"parking-orchestrator/internal/pkg/retry"
	"parking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

// Namespace of idempotency keys derived from the booking arguments.
var bookingKeyNamespace = uuid.MustParse("5b8f2a7e-3c1d-4e9a-8f60-2d7c9b1e4a53")

type AttemptParams struct {
	ResourceID  string
	RequesterID uuid.UUID
	Start       time.Time
	End         time.Time
	// Price is computed from the lot's hourly rate when nil.
	Price *reservation.Money
	// IdempotencyKey is derived from the other fields when empty.
	IdempotencyKey string
}

type BookingResult struct {
	Status      booking.State
	Reservation *reservation.Reservation
	Resource    *parking.Resource
	Attempt     booking.Snapshot
	Warnings    []string
	Reason      string
	Err         error
	Replayed    bool
}

// Succeeded reports whether a reservation stands, reconciled fully or not.
func (r *BookingResult) Succeeded() bool {
	return r.Status.Succeeded()
}

type BookingCommands interface {
	AttemptBooking(ctx context.Context, p AttemptParams) *BookingResult
}

type bookingOrchestrator struct {
	parkings  shared.ParkingGateway
	submitter *ReservationSubmitter
	capacity  *CapacityUpdater
	loyalty   *LoyaltyUpdater
	uow       shared.UnitOfWork
	journal   shared.AttemptReadStore
	publisher shared.ReconciliationPublisher
	pricing   reservation.PriceCalculator
	points    loyalty.PointsPolicy
	clock     clock.Clock
	loc       *time.Location
	fetch     retry.Policy
	logger    *slog.Logger
}

func NewBookingOrchestrator(
	parkings shared.ParkingGateway,
	submitter *ReservationSubmitter,
	capacity *CapacityUpdater,
	loyaltyUpdater *LoyaltyUpdater,
	uow shared.UnitOfWork,
	journal shared.AttemptReadStore,
	publisher shared.ReconciliationPublisher,
	pricing reservation.PriceCalculator,
	points loyalty.PointsPolicy,
	clk clock.Clock,
	loc *time.Location,
	cfg config.BookingConfig,
	logger *slog.Logger,
) BookingCommands {
	if loc == nil {
		loc = time.UTC
	}
	return &bookingOrchestrator{
		parkings:  parkings,
		submitter: submitter,
		capacity:  capacity,
		loyalty:   loyaltyUpdater,
		uow:       uow,
		journal:   journal,
		publisher: publisher,
		pricing:   pricing,
		points:    points,
		clock:     clk,
		loc:       loc,
		fetch: retry.Policy{
			MaxAttempts: cfg.SubmitMaxAttempts,
			BaseDelay:   cfg.RetryBaseDelay,
			MaxDelay:    cfg.RetryMaxDelay,
		},
		logger: logger,
	}
}

// DeriveIdempotencyKey names a booking by its arguments so that a client repeating the
// same request without a key still lands on the same reservation.
func DeriveIdempotencyKey(resourceID string, requesterID uuid.UUID, start, end time.Time) string {
	name := strings.Join([]string{
		resourceID,
		requesterID.String(),
		start.UTC().Format(time.RFC3339),
		end.UTC().Format(time.RFC3339),
	}, "|")
	return uuid.NewSHA1(bookingKeyNamespace, []byte(name)).String()
}

func (o *bookingOrchestrator) AttemptBooking(ctx context.Context, p AttemptParams) *BookingResult {
	key := p.IdempotencyKey
	if key == "" {
		key = DeriveIdempotencyKey(p.ResourceID, p.RequesterID, p.Start, p.End)
	}
	attempt, err := booking.NewAttempt(key, p.ResourceID, p.RequesterID, o.clock.Now())
	if err != nil {
		return &BookingResult{Status: booking.StateRejected, Reason: "invalid request", Err: classify(err, ErrInvalidBooking, errs.ErrValidation)}
	}
	log := o.logger.With("idempotency_key", key, "resource_id", p.ResourceID, "requester_id", p.RequesterID.String())

	// Evaluating
	if p.ResourceID == "" || p.RequesterID == uuid.Nil {
		err := classify(errs.New("resource and requester are required"), ErrInvalidBooking, errs.ErrValidation)
		return o.reject(ctx, attempt, "invalid request", booking.Skipped("invalid request"), err, nil, log)
	}
	slot, err := reservation.NewTimeSlot(p.Start, p.End)
	if err != nil {
		err = classify(err, ErrInvalidBooking, errs.ErrValidation)
		return o.reject(ctx, attempt, "invalid time slot", booking.Skipped("invalid time slot"), err, nil, log)
	}

	// A key that already produced a reservation is answered before the lot is evaluated,
	// so a retry after the lot filled up or closed still gets the original booking.
	prior, err := o.submitter.Completed(ctx, p, key)
	if err != nil {
		return o.reject(ctx, attempt, "idempotency check failed", booking.Skipped("idempotency check failed"), err, nil, log)
	}
	if prior != nil {
		if err := attempt.BeginSubmitting(); err != nil {
			return o.internalFailure(attempt, err, log)
		}
		return o.replayed(ctx, attempt, prior, o.listing(ctx, p.ResourceID, log), log)
	}

	resource, err := o.fetchResource(ctx, p.ResourceID)
	if err != nil {
		return o.reject(ctx, attempt, "resource lookup failed", booking.Skipped("resource lookup failed"), err, nil, log)
	}

	availability := parking.IsBookable(resource, o.clock.Now().In(o.loc))
	if !availability.OK {
		reason := availability.Reason.String()
		msg := "resource " + reason
		if availability.Reason == parking.ReasonClosed {
			msg = fmt.Sprintf("resource closed, open %s to %s", availability.Opens, availability.Closes)
		}
		err := classify(errs.New(msg), ErrResourceUnavailable, errs.ErrConflict)
		return o.reject(ctx, attempt, reason, booking.Skipped(msg), err, resource, log)
	}

	price, err := o.price(p, resource, slot)
	if err != nil {
		err = classify(err, ErrInvalidBooking, errs.ErrValidation)
		return o.reject(ctx, attempt, "invalid price", booking.Skipped("invalid price"), err, resource, log)
	}

	// Submitting. The caller may still cancel up to here.
	if err := ctx.Err(); err != nil {
		return o.reject(ctx, attempt, "cancelled", booking.Skipped("cancelled before submission"), errs.Wrap(err, "booking cancelled"), resource, log)
	}
	if err := attempt.BeginSubmitting(); err != nil {
		return o.internalFailure(attempt, err, log)
	}

	sub, err := o.submitter.Submit(ctx, SubmitParams{
		ResourceID:     p.ResourceID,
		RequesterID:    p.RequesterID,
		Slot:           slot,
		Price:          price,
		IdempotencyKey: key,
	})
	if err != nil {
		outcome := booking.Failed(sub.Attempts, string(errs.Classify(err)), err)
		return o.reject(ctx, attempt, "submission failed", outcome, err, resource, log)
	}

	if sub.Replayed {
		return o.replayed(ctx, attempt, sub, resource, log)
	}

	detail := "created"
	if sub.Adopted {
		detail = "adopted existing reservation"
	}
	if err := attempt.MarkReserved(sub.Reservation.ID(), booking.Succeeded(sub.Attempts, detail)); err != nil {
		return o.internalFailure(attempt, err, log)
	}
	log.Info("reservation created", "reservation_id", sub.Reservation.ID(), "attempts", sub.Attempts, "adopted", sub.Adopted)

	// Reconciling. The reservation stands, so the caller going away no longer stops us.
	rctx := context.WithoutCancel(ctx)
	if err := attempt.BeginReconciling(); err != nil {
		return o.internalFailure(attempt, err, log)
	}

	capacityOutcome, refreshed := o.reconcileCapacity(rctx, resource)
	if refreshed != nil {
		resource = refreshed
	}
	_ = attempt.RecordCapacity(capacityOutcome)
	_ = attempt.RecordLoyalty(o.reconcileLoyalty(rctx, p.RequesterID, sub.Reservation.Price()))

	if latest := o.listing(rctx, p.ResourceID, log); latest != nil {
		resource = latest
	}

	if err := attempt.Finish(o.clock.Now()); err != nil {
		return o.internalFailure(attempt, err, log)
	}

	snap := attempt.Snapshot()
	o.record(rctx, snap, log)
	if snap.State == booking.StatePartiallyReconciled {
		o.publish(rctx, snap, log)
		log.Warn("booking partially reconciled", "reservation_id", sub.Reservation.ID(), "warnings", snap.Warnings)
	} else {
		log.Info("booking done", "reservation_id", sub.Reservation.ID())
	}

	return &BookingResult{
		Status:      snap.State,
		Reservation: sub.Reservation,
		Resource:    resource,
		Attempt:     snap,
		Warnings:    snap.Warnings,
	}
}

func (o *bookingOrchestrator) fetchResource(ctx context.Context, resourceID string) (*parking.Resource, error) {
	var resource *parking.Resource
	_, err := retry.Do(ctx, o.fetch, errs.IsRetryable, func(ctx context.Context, _ int) error {
		r, err := o.parkings.GetParking(ctx, resourceID)
		if err != nil {
			return err
		}
		resource = r
		return nil
	})
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, classify(err, ErrResourceNotFound, nil)
		}
		return nil, err
	}
	return resource, nil
}

// listing is a best-effort read of the lot for display; nil when the backend fails.
func (o *bookingOrchestrator) listing(ctx context.Context, resourceID string, log *slog.Logger) *parking.Resource {
	latest, err := o.parkings.GetParking(ctx, resourceID)
	if err != nil {
		log.Warn("listing refresh failed", "error", err.Error())
		return nil
	}
	return latest
}

func (o *bookingOrchestrator) price(p AttemptParams, resource *parking.Resource, slot reservation.TimeSlot) (reservation.Money, error) {
	if p.Price != nil {
		return *p.Price, nil
	}
	return o.pricing.CalculatePrice(resource.PricePerHourCents(), slot)
}

func (o *bookingOrchestrator) reconcileCapacity(ctx context.Context, resource *parking.Resource) (booking.StepOutcome, *parking.Resource) {
	next, err := resource.NextOccupancy()
	if err != nil {
		err = classify(err, ErrCapacityFull, errs.ErrConflict)
		return booking.Failed(0, string(errs.Classify(err)), err), nil
	}

	out, err := o.capacity.IncrementCapacity(ctx, resource.Name(), resource.Current(), next)
	if err != nil {
		return booking.Failed(out.Attempts, string(errs.Classify(err)), err), out.Resource
	}

	detail := fmt.Sprintf("current_capacity=%d", next)
	if out.Resource != nil {
		detail = fmt.Sprintf("current_capacity=%d", out.Resource.Current())
	}
	if out.AlreadyApplied {
		detail += " (applied by an earlier attempt)"
	}
	return booking.Succeeded(out.Attempts, detail), out.Resource
}

func (o *bookingOrchestrator) reconcileLoyalty(ctx context.Context, requesterID uuid.UUID, price reservation.Money) booking.StepOutcome {
	delta := o.points.PointsFor(price.Cents())
	if delta == 0 {
		return booking.Skipped("no points for this price")
	}

	out, err := o.loyalty.CreditPoints(ctx, requesterID, delta)
	if err != nil {
		return booking.Failed(out.Attempts, string(errs.Classify(err)), err)
	}
	if out.NoOp {
		return booking.NoOp(out.Attempts, "administrator has no loyalty account")
	}

	detail := fmt.Sprintf("+%d points, balance %d", delta, out.NewBalance)
	if out.AlreadyApplied {
		detail += " (applied by an earlier attempt)"
	}
	return booking.Succeeded(out.Attempts, detail)
}

// replayed answers a completed key with the journaled outcome of the original attempt.
// Side effects belong to that attempt and are not repeated.
func (o *bookingOrchestrator) replayed(ctx context.Context, attempt *booking.Attempt, sub *SubmitResult, resource *parking.Resource, log *slog.Logger) *BookingResult {
	log.Info("booking replayed", "reservation_id", sub.Reservation.ID())

	if o.journal != nil {
		original, err := o.journal.FindByKey(ctx, attempt.Key(), attempt.RequesterID())
		if err == nil && original.State.IsTerminal() {
			return &BookingResult{
				Status:      original.State,
				Reservation: sub.Reservation,
				Resource:    resource,
				Attempt:     *original,
				Warnings:    original.Warnings,
				Replayed:    true,
			}
		}
		if err != nil && !errs.Is(err, errs.ErrNotFound) {
			log.Warn("attempt journal lookup failed", "error", err.Error())
		}
	}

	_ = attempt.MarkReserved(sub.Reservation.ID(), booking.Succeeded(0, "replayed"))
	_ = attempt.BeginReconciling()
	_ = attempt.RecordCapacity(booking.Skipped("replayed"))
	_ = attempt.RecordLoyalty(booking.Skipped("replayed"))
	_ = attempt.Finish(o.clock.Now())

	snap := attempt.Snapshot()
	o.record(context.WithoutCancel(ctx), snap, log)
	return &BookingResult{
		Status:      snap.State,
		Reservation: sub.Reservation,
		Resource:    resource,
		Attempt:     snap,
		Warnings:    snap.Warnings,
		Replayed:    true,
	}
}

func (o *bookingOrchestrator) reject(
	ctx context.Context,
	attempt *booking.Attempt,
	reason string,
	outcome booking.StepOutcome,
	cause error,
	resource *parking.Resource,
	log *slog.Logger,
) *BookingResult {
	if err := attempt.Reject(reason, outcome, o.clock.Now()); err != nil {
		return o.internalFailure(attempt, err, log)
	}
	snap := attempt.Snapshot()

	log.Info("booking rejected", "reason", reason, "class", string(errs.Classify(cause)), "error", cause.Error())

	// The key belongs to another attempt; its journal row is not ours to overwrite.
	if !errs.Is(cause, ErrSubmissionInProgress) && !errs.Is(cause, ErrIdempotencyKeyReused) && !errs.Is(cause, ErrReplayUnavailable) {
		o.record(context.WithoutCancel(ctx), snap, log)
	}

	return &BookingResult{
		Status:   booking.StateRejected,
		Resource: resource,
		Attempt:  snap,
		Reason:   reason,
		Err:      cause,
	}
}

func (o *bookingOrchestrator) internalFailure(attempt *booking.Attempt, err error, log *slog.Logger) *BookingResult {
	log.Error("booking state machine violated", "state", attempt.State().String(), "error", err.Error())
	return &BookingResult{
		Status:  failureStatus(attempt),
		Attempt: attempt.Snapshot(),
		Reason:  "internal error",
		Err:     errs.Mark(errs.Wrap(err, "booking state machine"), errs.ErrUnknown),
	}
}

// failureStatus is the terminal status reported when the attempt cannot move on:
// rejected until a reservation exists, partially reconciled after.
func failureStatus(attempt *booking.Attempt) booking.State {
	if attempt.ReservationID() == nil {
		return booking.StateRejected
	}
	return booking.StatePartiallyReconciled
}

// record and publish never change the result of the attempt.
func (o *bookingOrchestrator) record(ctx context.Context, snap booking.Snapshot, log *slog.Logger) {
	err := o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Attempts().Record(ctx, snap)
	})
	if err != nil {
		log.Error("failed to journal booking attempt", "state", snap.State.String(), "error", err.Error())
	}
}

func (o *bookingOrchestrator) publish(ctx context.Context, snap booking.Snapshot, log *slog.Logger) {
	ev := shared.ReconciliationEvent{
		IdempotencyKey: snap.Key,
		ResourceID:     snap.ResourceID,
		RequesterID:    snap.RequesterID,
		Warnings:       snap.Warnings,
		OccurredAt:     o.clock.Now(),
	}
	if snap.ReservationID != nil {
		ev.ReservationID = *snap.ReservationID
	}
	for _, step := range []booking.Step{booking.StepCapacity, booking.StepLoyalty} {
		if !snap.Steps[step].Settled() {
			ev.FailedSteps = append(ev.FailedSteps, string(step))
		}
	}

	if err := o.publisher.PublishReconciliationRequired(ctx, ev); err != nil {
		log.Error("failed to publish reconciliation event", "error", err.Error())
	}
}
