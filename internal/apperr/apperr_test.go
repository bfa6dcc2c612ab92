package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeAndStatusSurviveWrapping(t *testing.T) {
	cases := []struct {
		sentinel error
		code     string
		status   int
	}{
		{ErrUnauthenticated, "unauthenticated", http.StatusUnauthorized},
		{ErrPermissionDenied, "permission-denied", http.StatusForbidden},
		{ErrResourceExhausted, "resource-exhausted", http.StatusTooManyRequests},
		{ErrInvalidArgument, "invalid-argument", http.StatusBadRequest},
		{ErrNotFound, "not-found", http.StatusNotFound},
		{ErrInternal, "internal", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", tc.sentinel))
			if got := Code(wrapped); got != tc.code {
				t.Fatalf("Code = %q, want %q", got, tc.code)
			}
			if got := HTTPStatus(wrapped); got != tc.status {
				t.Fatalf("HTTPStatus = %d, want %d", got, tc.status)
			}
		})
	}

	t.Run("unknown errors collapse to internal", func(t *testing.T) {
		err := errors.New("database exploded")
		if Code(err) != "internal" || HTTPStatus(err) != http.StatusInternalServerError {
			t.Fatalf("unknown error mapped to %q/%d", Code(err), HTTPStatus(err))
		}
	})
}
