package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murmurhq/murmur-api/internal/config"
	"github.com/murmurhq/murmur-api/internal/domain"
	"github.com/murmurhq/murmur-api/internal/mocks"
	"github.com/murmurhq/murmur-api/internal/service/auth"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()

	return &application{
		config: &config.Config{
			Server: config.ServerConfig{Port: 3001, LogLevel: "info"},
		},
		logger:       slogt.New(t),
		userStore:    &mocks.MockUserStore{User: &domain.User{ID: 1, Username: "alice", HashedPassword: "hash"}},
		messageStore: &mocks.MockMessageStore{Message: &domain.Message{ID: 5}, Messages: []domain.Message{}},
		jwtService: &mocks.MockJWTService{
			Token:  "issued-token",
			Claims: &auth.Claims{UserID: 1, Username: "alice"},
		},
		passwordHasher:   &mocks.MockPasswordHasher{},
		passwordVerifier: &mocks.MockPasswordVerifier{},
	}
}

func TestRouterPublicRoutes(t *testing.T) {
	app := newTestApplication(t)
	router := app.setupRouter()

	t.Run("signup needs no token", func(t *testing.T) {
		payload := `{"username":"alice","password":"correct-horse"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(payload))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("login needs no token", func(t *testing.T) {
		payload := `{"username":"alice","password":"correct-horse"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(payload))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		user := body["user"].(map[string]interface{})
		assert.Equal(t, "issued-token", user["token"])
	})

	t.Run("health check", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestRouterProtectedRoutes(t *testing.T) {
	app := newTestApplication(t)
	router := app.setupRouter()

	protected := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/v1/message"},
		{http.MethodGet, "/v1/messages"},
		{http.MethodGet, "/v1/message/5"},
		{http.MethodPost, "/v1/message/like"},
		{http.MethodPost, "/v1/message/5/comment"},
		{http.MethodGet, "/v1/message/5/comments"},
	}

	for _, route := range protected {
		route := route
		t.Run("rejects unauthenticated "+route.method+" "+route.target, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.target, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}

	t.Run("accepts a valid bearer token", func(t *testing.T) {
		payload := `{"message":"hello world"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/message", bytes.NewBufferString(payload))
		req.Header.Set("Authorization", "Bearer issued-token")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Message Created", body["message"])
	})
}
