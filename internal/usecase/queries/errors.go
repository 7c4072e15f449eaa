package queries

import "parking-orchestrator/internal/pkg/errs"

var (
	ErrParkingNotFound  = errs.New("parking not found")
	ErrNoParkings       = errs.New("no parkings found")
	ErrNoLoyaltyAccount = errs.New("no loyalty account")
	ErrAdminOnly        = errs.New("administrator access required")
	ErrAttemptNotFound  = errs.New("booking attempt not found")
	ErrInvalidCursor    = errs.New("invalid cursor")
)
