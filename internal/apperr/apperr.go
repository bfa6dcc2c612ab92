package apperr

import (
	"errors"
	"net/http"
)

// Sentinels for the stable error taxonomy surfaced to callers.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrPermissionDenied  = errors.New("permission-denied")
	ErrResourceExhausted = errors.New("resource-exhausted")
	ErrInvalidArgument   = errors.New("invalid-argument")
	ErrNotFound          = errors.New("not-found")
	ErrInternal          = errors.New("internal")
)

// Code returns the machine-readable code for err. Unknown errors map to
// "internal" so persistence failures never leak implementation detail.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrPermissionDenied):
		return "permission-denied"
	case errors.Is(err, ErrResourceExhausted):
		return "resource-exhausted"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid-argument"
	case errors.Is(err, ErrNotFound):
		return "not-found"
	default:
		return "internal"
	}
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrResourceExhausted):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
