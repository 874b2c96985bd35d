// Package user holds user accounts and follow relationships.
package user

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// User represents a registered account.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash string `json:"-"`
	// Avatar is a path relative to the media directory, empty when unset.
	Avatar string `json:"-"`
}

var (
	// ErrExists is returned when a unique field (email, username) is taken.
	ErrExists = errors.New("user: already exists")
	// ErrSelfFollow is returned on an attempt to follow oneself.
	ErrSelfFollow = errors.New("user: cannot follow yourself")
	// ErrAlreadyFollowing is returned on a duplicate follow.
	ErrAlreadyFollowing = errors.New("user: already following")
	// ErrNotFollowing is returned when removing a follow that does not exist.
	ErrNotFollowing = errors.New("user: not following")
)

// HashPassword derives a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
