package errs

import "errors"

// Error classes shared by every layer. Remote and repository errors resolve to
// exactly one of them; use-case sentinels are marked with the class they belong to.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict error")
	ErrNetwork    = errors.New("network error")
	ErrNotFound   = errors.New("not found error")
	ErrUnknown    = errors.New("unknown error")
)

type Class string

const (
	ClassValidation Class = "validation"
	ClassConflict   Class = "conflict"
	ClassNetwork    Class = "network"
	ClassNotFound   Class = "not_found"
	ClassUnknown    Class = "unknown"
)

// Classify resolves err to its error class. Anything unmarked is unknown.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ""
	case Is(err, ErrValidation):
		return ClassValidation
	case Is(err, ErrConflict):
		return ClassConflict
	case Is(err, ErrNetwork):
		return ClassNetwork
	case Is(err, ErrNotFound):
		return ClassNotFound
	default:
		return ClassUnknown
	}
}

func IsRetryable(err error) bool {
	return Classify(err) == ClassNetwork
}
