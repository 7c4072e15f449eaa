package commands

import "parking-orchestrator/internal/pkg/errs"

var (
	ErrInvalidBooking       = errs.New("invalid booking request")
	ErrResourceNotFound     = errs.New("resource not found")
	ErrResourceUnavailable  = errs.New("resource unavailable, please retry search")
	ErrIdempotencyKeyReused = errs.New("idempotency key reused with different arguments")
	ErrSubmissionInProgress = errs.New("submission with this idempotency key is in progress")
	ErrIdempotencyStore     = errs.New("idempotency store unavailable")
	ErrReplayUnavailable    = errs.New("completed reservation could not be replayed")
	ErrCapacityDrift        = errs.New("capacity changed since evaluation")
	ErrCapacityFull         = errs.New("resource is at maximum capacity")
	ErrAccountNotFound      = errs.New("loyalty account not found")
)

// classify marks err with a use-case sentinel and, when given, the error class it belongs to.
func classify(err, sentinel, class error) error {
	if class == nil {
		return errs.Mark(err, sentinel)
	}
	return errs.Mark(err, sentinel, class)
}
