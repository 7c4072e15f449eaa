package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"parking-orchestrator/internal/pkg/errs"
)

type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindConflict   Kind = "CONFLICT"
	KindNetwork    Kind = "NETWORK"
	KindNotFound   Kind = "NOT_FOUND"
	KindUnknown    Kind = "UNKNOWN"
)

// Error is a failed backend call. Status is zero when no response arrived.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("backend %s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status=%d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindValidation:
		return target == errs.ErrValidation
	case KindConflict:
		return target == errs.ErrConflict
	case KindNetwork:
		return target == errs.ErrNetwork
	case KindNotFound:
		return target == errs.ErrNotFound
	case KindUnknown:
		return target == errs.ErrUnknown
	default:
		return false
	}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests, status >= 500:
		return KindNetwork
	default:
		return KindUnknown
	}
}

func statusError(op string, status int, message string) *Error {
	return &Error{Kind: kindForStatus(status), Op: op, Status: status, Message: message}
}

// transportError classifies a failure that produced no response. A cancelled caller
// is not a network fault and is reported as unknown so that nothing retries it.
func transportError(ctx context.Context, op string, err error) *Error {
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return &Error{Kind: KindUnknown, Op: op, Message: "request cancelled", err: err}
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return &Error{Kind: KindNetwork, Op: op, Message: "request failed", err: err}
	}
	return &Error{Kind: KindNetwork, Op: op, Message: "transport failure", err: err}
}

func schemaError(op string, err error) *Error {
	return &Error{Kind: KindUnknown, Op: op, Message: "unexpected response shape", err: err}
}
