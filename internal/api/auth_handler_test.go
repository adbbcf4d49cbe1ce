package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murmurhq/murmur-api/internal/api"
	"github.com/murmurhq/murmur-api/internal/domain"
	"github.com/murmurhq/murmur-api/internal/mocks"
	"github.com/murmurhq/murmur-api/internal/store"
)

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, payload string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestSignUp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		payload     string
		userStore   *mocks.MockUserStore
		wantStatus  int
		wantError   string
		wantMessage string
	}{
		{
			name:    "successful signup",
			payload: `{"username":"alice","password":"correct-horse"}`,
			userStore: &mocks.MockUserStore{
				User: &domain.User{ID: 42},
			},
			wantStatus:  http.StatusOK,
			wantMessage: "User Created",
		},
		{
			name:       "malformed JSON",
			payload:    `{"username":`,
			userStore:  &mocks.MockUserStore{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid Input",
		},
		{
			name:       "username too short",
			payload:    `{"username":"al","password":"correct-horse"}`,
			userStore:  &mocks.MockUserStore{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid Input",
		},
		{
			name:       "password too short",
			payload:    `{"username":"alice","password":"short"}`,
			userStore:  &mocks.MockUserStore{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid Input",
		},
		{
			name:       "password too long",
			payload:    `{"username":"alice","password":"123456789012345678901234567"}`,
			userStore:  &mocks.MockUserStore{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid Input",
		},
		{
			name:       "missing fields",
			payload:    `{}`,
			userStore:  &mocks.MockUserStore{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid Input",
		},
		{
			name:    "duplicate username",
			payload: `{"username":"alice","password":"correct-horse"}`,
			userStore: &mocks.MockUserStore{
				Err: store.ErrUsernameExists,
			},
			wantStatus: http.StatusConflict,
			wantError:  "Username already exists",
		},
		{
			name:    "store failure",
			payload: `{"username":"alice","password":"correct-horse"}`,
			userStore: &mocks.MockUserStore{
				Err: errors.New("connection refused"),
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := api.NewAuthHandler(
				tt.userStore,
				&mocks.MockJWTService{Token: "test-token"},
				&mocks.MockPasswordHasher{},
				&mocks.MockPasswordVerifier{},
			)

			rr := postJSON(t, handler.SignUp, "/auth/signup", tt.payload)

			assert.Equal(t, tt.wantStatus, rr.Code)
			body := decodeBody(t, rr)

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				return
			}

			assert.Equal(t, true, body["success"])
			assert.Equal(t, float64(42), body["id"])
			assert.Equal(t, tt.wantMessage, body["message"])
		})
	}
}

func TestSignUpHashesPasswordBeforeStoring(t *testing.T) {
	t.Parallel()

	var storedHash string
	userStore := &mocks.MockUserStore{
		CreateFn: func(ctx context.Context, user *domain.User) error {
			storedHash = user.HashedPassword
			user.ID = 1
			return nil
		},
	}

	handler := api.NewAuthHandler(
		userStore,
		&mocks.MockJWTService{},
		&mocks.MockPasswordHasher{Hashed: "bcrypt-hash"},
		&mocks.MockPasswordVerifier{},
	)

	rr := postJSON(t, handler.SignUp, "/auth/signup", `{"username":"alice","password":"correct-horse"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "bcrypt-hash", storedHash)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	validUser := &domain.User{
		ID:             42,
		Username:       "alice",
		HashedPassword: "bcrypt-hash",
	}

	tests := []struct {
		name       string
		payload    string
		userStore  *mocks.MockUserStore
		verifier   *mocks.MockPasswordVerifier
		wantStatus int
		wantError  string
	}{
		{
			name:       "successful login",
			payload:    `{"username":"alice","password":"correct-horse"}`,
			userStore:  &mocks.MockUserStore{User: validUser},
			verifier:   &mocks.MockPasswordVerifier{},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed JSON",
			payload:    `{"username"`,
			userStore:  &mocks.MockUserStore{},
			verifier:   &mocks.MockPasswordVerifier{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid Input",
		},
		{
			name:       "unknown username",
			payload:    `{"username":"nobody","password":"correct-horse"}`,
			userStore:  &mocks.MockUserStore{Err: store.ErrUserNotFound},
			verifier:   &mocks.MockPasswordVerifier{},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid username or password",
		},
		{
			name:       "wrong password",
			payload:    `{"username":"alice","password":"wrong-password"}`,
			userStore:  &mocks.MockUserStore{User: validUser},
			verifier:   &mocks.MockPasswordVerifier{Err: errors.New("mismatch")},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid username or password",
		},
		{
			name:       "store failure",
			payload:    `{"username":"alice","password":"correct-horse"}`,
			userStore:  &mocks.MockUserStore{Err: errors.New("connection refused")},
			verifier:   &mocks.MockPasswordVerifier{},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := api.NewAuthHandler(
				tt.userStore,
				&mocks.MockJWTService{Token: "test-token"},
				&mocks.MockPasswordHasher{},
				tt.verifier,
			)

			rr := postJSON(t, handler.Login, "/auth/login", tt.payload)

			assert.Equal(t, tt.wantStatus, rr.Code)
			body := decodeBody(t, rr)

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				return
			}

			assert.Equal(t, true, body["success"])
			user, ok := body["user"].(map[string]interface{})
			require.True(t, ok, "response should contain a user object")
			assert.Equal(t, float64(42), user["id"])
			assert.Equal(t, "test-token", user["token"])
		})
	}
}
