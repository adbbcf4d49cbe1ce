package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT token carrying the user's ID and
	// username. Returns the token string or an error if signing fails.
	GenerateToken(ctx context.Context, userID int64, username string) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns ErrExpiredToken or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID int64 `json:"uid"`

	// Username is included so clients can display the user without a lookup.
	Username string `json:"username"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
