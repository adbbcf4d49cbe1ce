package domain

import (
	"errors"
	"time"
	"unicode/utf8"
)

// Common validation errors
var (
	ErrUsernameTooShort    = errors.New("username must be at least 3 characters long")
	ErrUsernameTooLong     = errors.New("username must be at most 20 characters long")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 26 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Username and password length constraints, counted in runes to match the
// request validators. Passwords are constrained pre-hash; the stored bcrypt
// hash has its own fixed length.
const (
	MinUsernameLen = 3
	MaxUsernameLen = 20
	MinPasswordLen = 8
	MaxPasswordLen = 26
)

// User represents a registered user of the messaging service.
// The ID is assigned by the database on insert.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"-"` // Plaintext password, held only between request decode and hashing
	HashedPassword string    `json:"-"` // Never expose the password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a new User with the given username and plaintext password.
// The caller is responsible for hashing the password before storing the user.
// Returns an error if validation fails.
func NewUser(username, password string) (*User, error) {
	user := &User{
		Username:  username,
		Password:  password,
		CreatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.Username == "" {
		return ErrEmptyUsername
	}
	if utf8.RuneCountInString(u.Username) < MinUsernameLen {
		return ErrUsernameTooShort
	}
	if utf8.RuneCountInString(u.Username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}

	if u.Password != "" {
		if utf8.RuneCountInString(u.Password) < MinPasswordLen {
			return ErrPasswordTooShort
		}
		if utf8.RuneCountInString(u.Password) > MaxPasswordLen {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Users loaded from the database carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}
