package api

import (
	"errors"
	"net/http"

	"github.com/murmurhq/murmur-api/internal/api/shared"
	"github.com/murmurhq/murmur-api/internal/service/auth"
	"github.com/murmurhq/murmur-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrMessageNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrUsernameExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "Internal Server Error"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	// Not found errors
	case errors.Is(err, store.ErrMessageNotFound):
		return "Message not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	// Conflict errors
	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid Input"

	default:
		return "Internal Server Error"
	}
}

// HandleAPIError maps an error to its status code and safe message and
// writes the response. When defaultMsg is non-empty it overrides the mapped
// message for errors that fall through to the internal-server-error bucket.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
