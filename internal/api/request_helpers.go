package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/murmurhq/murmur-api/internal/api/shared"
	"github.com/murmurhq/murmur-api/internal/domain"
)

// getUserIDFromContext extracts the authenticated user's ID from the request
// context. The user ID is placed there by the authentication middleware.
func getUserIDFromContext(r *http.Request) (int64, bool) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}

// getPathID extracts a positive int64 from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, fmt.Errorf("%w: missing %s", domain.ErrInvalidMessageID, paramName)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidMessageID, pathParam)
	}

	return id, nil
}
