package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is enforced on every password set through the API.
const MinPasswordLength = 8

// ErrPasswordMismatch is returned when a plaintext does not match its hash.
var ErrPasswordMismatch = errors.New("password mismatch")

// HashPassword hashes a plaintext password with the configured cost.
func HashPassword(password string, cost int) (string, error) {
	if len(password) < MinPasswordLength {
		return "", errors.New("password too short")
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
