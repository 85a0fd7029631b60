package handlers

import (
	"errors"
	"net/http"

	"github.com/Jayasawar1325/backend-series/internal/application"
)

// statusOf maps the service error taxonomy onto HTTP statuses. Unknown
// errors are internal by definition.
func statusOf(err error) int {
	switch {
	case errors.Is(err, application.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
