package counter

import (
	"errors"
	"net/http"

	tally "github.com/tallylabs/tally"
)

var (
	ErrUnauthorized       = errors.New("unauthorized: only the authority can perform this action")
	ErrOverflow           = errors.New("arithmetic overflow")
	ErrUnderflow          = errors.New("arithmetic underflow")
	ErrNotFound           = errors.New("counter not found")
	ErrAlreadyInitialized = errors.New("counter already initialized")
)

// ErrorStatus maps the counter error taxonomy onto HTTP status codes. A zero
// return means the error is not one of ours.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyInitialized):
		return http.StatusConflict
	case errors.Is(err, ErrOverflow), errors.Is(err, ErrUnderflow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, tally.RevisionConflict):
		return http.StatusConflict
	}

	return 0
}
