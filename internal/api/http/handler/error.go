package handler

import (
	"errors"
	"net/http"

	"github.com/dtroode/taskdeck-server/internal/model"
)

// errorStatus maps the error taxonomy to an HTTP status. Anything unknown is a
// persistence-level failure: logged by the caller, surfaced as a generic 422.
func errorStatus(err error) int {
	var vErr *model.ValidationError
	var aErr *model.AuthorizationError

	switch {
	case errors.As(err, &aErr):
		return http.StatusForbidden
	case errors.As(err, &vErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrBadCredentials), errors.Is(err, model.ErrSessionExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusUnprocessableEntity
	}
}
