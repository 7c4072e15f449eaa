package commands

import (
	"context"
	"log/slog"

	"parking-orchestrator/internal/domain/parking"
	"parking-orchestrator/internal/pkg/config"
	"parking-orchestrator/internal/pkg/errs"
	"parking-orchestrator/internal/pkg/retry"
	"parking-orchestrator/internal/usecase/shared"
)

type CapacityOutcome struct {
	Resource *parking.Resource
	Attempts int
	// Atomic: the backend's single-statement increment was used.
	Atomic bool
	// AlreadyApplied: a retry found the value an earlier attempt wrote.
	AlreadyApplied bool
}

// CapacityUpdater adds one car to a lot after a reservation was created.
//
// With an atomic backend function the increment is a single statement. Without one it is
// compare-and-set from the client: re-read, skip on drift, write. The window between that
// read and the write is unguarded; a concurrent booking landing in it is overwritten.
type CapacityUpdater struct {
	parkings shared.ParkingGateway
	policy   retry.Policy
	logger   *slog.Logger
}

func NewCapacityUpdater(parkings shared.ParkingGateway, cfg config.BookingConfig, logger *slog.Logger) *CapacityUpdater {
	return &CapacityUpdater{
		parkings: parkings,
		policy: retry.Policy{
			MaxAttempts: cfg.ReconcileMaxAttempts,
			BaseDelay:   cfg.RetryBaseDelay,
			MaxDelay:    cfg.RetryMaxDelay,
		},
		logger: logger,
	}
}

// IncrementCapacity moves resourceID from expectedCurrent to newValue. The outcome is
// non-nil even on error.
func (u *CapacityUpdater) IncrementCapacity(ctx context.Context, resourceID string, expectedCurrent, newValue int) (*CapacityOutcome, error) {
	out := &CapacityOutcome{Atomic: u.parkings.SupportsAtomicIncrement()}

	attempts, err := retry.Do(ctx, u.policy, errs.IsRetryable, func(ctx context.Context, attempt int) error {
		if out.Atomic {
			return u.incrementAtomic(ctx, resourceID, newValue, attempt, out)
		}
		return u.compareAndSet(ctx, resourceID, expectedCurrent, newValue, attempt, out)
	})
	out.Attempts = attempts

	if err != nil {
		u.logger.Warn("capacity update failed",
			"resource_id", resourceID,
			"expected_current", expectedCurrent,
			"new_value", newValue,
			"attempts", attempts,
			"error", err.Error())
		if errs.Is(err, errs.ErrNotFound) {
			return out, classify(err, ErrResourceNotFound, nil)
		}
		return out, err
	}
	return out, nil
}

func (u *CapacityUpdater) incrementAtomic(ctx context.Context, resourceID string, newValue, attempt int, out *CapacityOutcome) error {
	if attempt > 0 {
		applied, err := u.appliedEarlier(ctx, resourceID, newValue, out)
		if err != nil || applied {
			return err
		}
	}
	updated, err := u.parkings.IncrementCapacity(ctx, resourceID)
	if err != nil {
		return err
	}
	out.Resource = updated
	return nil
}

func (u *CapacityUpdater) compareAndSet(ctx context.Context, resourceID string, expectedCurrent, newValue, attempt int, out *CapacityOutcome) error {
	current, err := u.parkings.GetParking(ctx, resourceID)
	if err != nil {
		return err
	}
	out.Resource = current

	if attempt > 0 && current.Current() == newValue {
		out.AlreadyApplied = true
		return nil
	}
	if current.Current() != expectedCurrent {
		return classify(
			errs.Newf("expected current_capacity %d, found %d", expectedCurrent, current.Current()),
			ErrCapacityDrift, errs.ErrConflict)
	}
	if newValue > current.Maximum() {
		return classify(
			errs.Newf("current_capacity %d would exceed maximum %d", newValue, current.Maximum()),
			ErrCapacityFull, errs.ErrConflict)
	}

	updated, err := u.parkings.UpdateCapacity(ctx, resourceID, newValue)
	if err != nil {
		return err
	}
	out.Resource = updated
	return nil
}

// appliedEarlier guesses whether a failed attempt reached the backend. A concurrent
// booking producing the same value is indistinguishable from our own write.
func (u *CapacityUpdater) appliedEarlier(ctx context.Context, resourceID string, newValue int, out *CapacityOutcome) (bool, error) {
	current, err := u.parkings.GetParking(ctx, resourceID)
	if err != nil {
		return false, err
	}
	if current.Current() == newValue {
		out.Resource = current
		out.AlreadyApplied = true
		return true, nil
	}
	return false, nil
}
