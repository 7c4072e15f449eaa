package api

import (
	"context"
	"net/http"

	"parking-orchestrator/internal/handler/httperr"
	"parking-orchestrator/internal/pkg/errs"
	"parking-orchestrator/internal/usecase/commands"
	"parking-orchestrator/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const MsgResourceUnavailable = "Resource unavailable, please retry search"

// respondError maps use-case sentinels first, then the error class, to a public response.
func respondError(c *gin.Context, err error, detail any) {
	status, msg := statusFor(err)
	code := string(errs.Classify(err))
	httperr.AbortWithCode(c, status, err, code, msg, detail)
}

func statusFor(err error) (int, string) {
	switch {
	case errs.Is(err, commands.ErrResourceUnavailable):
		return http.StatusConflict, MsgResourceUnavailable
	case errs.Is(err, commands.ErrSubmissionInProgress):
		return http.StatusConflict, "Booking with this idempotency key is in progress"
	case errs.Is(err, commands.ErrIdempotencyKeyReused):
		return http.StatusUnprocessableEntity, "Idempotency key was used with a different request"
	case errs.Is(err, commands.ErrInvalidBooking):
		return http.StatusBadRequest, "Invalid request"
	case errs.Is(err, commands.ErrResourceNotFound), errs.Is(err, queries.ErrParkingNotFound):
		return http.StatusNotFound, "Parking not found"
	case errs.Is(err, commands.ErrReplayUnavailable):
		return http.StatusNotFound, "Reservation for this idempotency key is no longer available"
	case errs.Is(err, commands.ErrIdempotencyStore):
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	case errs.Is(err, queries.ErrNoLoyaltyAccount):
		return http.StatusNotFound, "no loyalty account"
	case errs.Is(err, queries.ErrNoParkings):
		return http.StatusNotFound, "No parkings found"
	case errs.Is(err, queries.ErrAttemptNotFound):
		return http.StatusNotFound, "Booking attempt not found"
	case errs.Is(err, queries.ErrAdminOnly):
		return http.StatusForbidden, "Administrator access required"
	case errs.Is(err, queries.ErrInvalidCursor):
		return http.StatusBadRequest, "Invalid cursor"
	case errs.Is(err, context.Canceled), errs.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, "Request cancelled"
	}

	switch errs.Classify(err) {
	case errs.ClassValidation:
		return http.StatusBadRequest, "Invalid request"
	case errs.ClassConflict:
		return http.StatusConflict, "Conflict"
	case errs.ClassNotFound:
		return http.StatusNotFound, "Not found"
	case errs.ClassNetwork:
		return http.StatusServiceUnavailable, "Backend unavailable, please retry"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}
