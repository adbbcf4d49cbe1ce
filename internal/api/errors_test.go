package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/murmurhq/murmur-api/internal/api"
	"github.com/murmurhq/murmur-api/internal/service/auth"
	"github.com/murmurhq/murmur-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"message not found", store.ErrMessageNotFound, http.StatusNotFound},
		{"wrapped message not found", fmt.Errorf("like failed: %w", store.ErrMessageNotFound), http.StatusNotFound},
		{"username exists", store.ErrUsernameExists, http.StatusConflict},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"nil error", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, api.MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"message not found", store.ErrMessageNotFound, "Message not found"},
		{"wrapped message not found", fmt.Errorf("get: %w", store.ErrMessageNotFound), "Message not found"},
		{"username exists", store.ErrUsernameExists, "Username already exists"},
		{"expired token", auth.ErrExpiredToken, "Token expired"},
		{"unknown error leaks nothing", errors.New("pg: secret dsn"), "Internal Server Error"},
		{"nil error", nil, "Internal Server Error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, api.GetSafeErrorMessage(tt.err))
		})
	}
}
