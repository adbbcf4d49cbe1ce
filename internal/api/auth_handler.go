package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/murmurhq/murmur-api/internal/api/shared"
	"github.com/murmurhq/murmur-api/internal/domain"
	"github.com/murmurhq/murmur-api/internal/service/auth"
	"github.com/murmurhq/murmur-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordHasher auth.PasswordHasher,
	passwordVerifier auth.PasswordVerifier,
) *AuthHandler {
	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordHasher:   passwordHasher,
		passwordVerifier: passwordVerifier,
	}
}

// SignUp handles the POST /auth/signup endpoint.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest

	// Parse request
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Input")
		return
	}

	// Validate request
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Input")
		return
	}

	user, err := domain.NewUser(req.Username, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Input")
		return
	}

	hashed, err := h.passwordHasher.Hash(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	user.HashedPassword = hashed

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Username already exists")
			return
		}
		slog.Error("failed to create user", "error", err, "username", req.Username)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CreatedResponse{
		Success: true,
		ID:      user.ID,
		Message: "User Created",
	})
}

// Login handles the POST /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	// Parse request
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Input")
		return
	}

	// Validate request
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Input")
		return
	}

	// A missing user and a wrong password produce the same response so the
	// endpoint cannot be used to probe for usernames.
	user, err := h.userStore.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		slog.Error("failed to get user by username", "error", err, "username", req.Username)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID, user.Username)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Success: true,
		User: LoginUser{
			ID:    user.ID,
			Token: token,
		},
	})
}
