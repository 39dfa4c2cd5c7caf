// Package crypto provides password hashing and verification.
package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when asked to hash an empty password.
var ErrEmptyPassword = errors.New("password can not be empty")

// HashPasswordAsBcrypt returns a bcrypt digest of password. The digest embeds
// the algorithm version, cost and salt, so CheckPasswordHash needs nothing else.
func HashPasswordAsBcrypt(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPasswordHash reports whether password matches the bcrypt hash.
func CheckPasswordHash(hash, password string) bool {
	if hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
