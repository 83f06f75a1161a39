// Package apperr defines the domain error taxonomy shared by the store,
// services, and the HTTP layer.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConstraint is returned on a uniqueness or foreign-key violation.
	ErrConstraint = errors.New("constraint violation")
	// ErrValidation is returned for malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is returned when the caller's scope does not allow the operation.
	ErrUnauthorized = errors.New("unauthorized")
)

// HTTPStatus maps a domain error to an HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConstraint):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
