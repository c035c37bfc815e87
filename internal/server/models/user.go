// Package models defines the persisted entities of the server.
package models

import (
	"time"

	"github.com/mkalinin/userkeeper/internal/server/auth"
)

// User is the sole persisted entity: one account row in the users table.
// PasswordHash is always the output of auth.HashPassword; plaintext is
// never stored or logged.
type User struct {
	ID           int64
	Username     string
	EmailAddress string
	PasswordHash string
	CreatedAt    time.Time
}

// UserProjection is the read-only subset of a user that is safe to expose
// outside the store boundary.
type UserProjection struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUser builds an unsaved user, hashing the password immediately.
// There is no other way to set a password field, so plaintext never
// crosses the store boundary.
func NewUser(username, password, email string) (*User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		Username:     username,
		EmailAddress: email,
		PasswordHash: hash,
	}, nil
}

// Projection returns the externally visible view of the user.
func (u *User) Projection() UserProjection {
	return UserProjection{Username: u.Username, Email: u.EmailAddress}
}
