package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murmurhq/murmur-api/internal/api/middleware"
	"github.com/murmurhq/murmur-api/internal/api/shared"
	"github.com/murmurhq/murmur-api/internal/mocks"
	"github.com/murmurhq/murmur-api/internal/service/auth"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		authHeader string
		jwtService *mocks.MockJWTService
		wantStatus int
		wantError  string
		wantUserID int64
	}{
		{
			name:       "valid token",
			authHeader: "Bearer valid-token",
			jwtService: &mocks.MockJWTService{
				Claims: &auth.Claims{UserID: 42, Username: "alice"},
			},
			wantStatus: http.StatusOK,
			wantUserID: 42,
		},
		{
			name:       "missing header",
			authHeader: "",
			jwtService: &mocks.MockJWTService{},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Authorization header required",
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			jwtService: &mocks.MockJWTService{},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid authorization format",
		},
		{
			name:       "missing token after scheme",
			authHeader: "Bearer",
			jwtService: &mocks.MockJWTService{},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid authorization format",
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			jwtService: &mocks.MockJWTService{ValidateErr: auth.ErrInvalidToken},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid token",
		},
		{
			name:       "expired token",
			authHeader: "Bearer old-token",
			jwtService: &mocks.MockJWTService{ValidateErr: auth.ErrExpiredToken},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Token expired",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotUserID int64
			var handlerCalled bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				gotUserID, _ = shared.GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			authMiddleware := middleware.NewAuthMiddleware(tt.jwtService)
			handler := authMiddleware.Authenticate(next)

			req := httptest.NewRequest(http.MethodGet, "/v1/messages", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)

			if tt.wantError != "" {
				assert.False(t, handlerCalled, "handler must not run on auth failure")

				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, tt.wantError, body["error"])
				return
			}

			assert.True(t, handlerCalled)
			assert.Equal(t, tt.wantUserID, gotUserID)
		})
	}
}
