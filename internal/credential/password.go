package credential

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted by Change and Reset.
const MinPasswordLength = 6

// HashPassword hashes a plaintext password using bcrypt with the
// default cost (10 rounds).
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("credential: hash: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a bcrypt hash.
// Returns nil on match, ErrInvalidPassword otherwise.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// CheckLength rejects passwords shorter than MinPasswordLength.
func CheckLength(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// GeneratePassword creates a random 24-character hex string, used by
// folio-admin when no password is given for a reset.
func GeneratePassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("credential: generate: %w", err)
	}
	return hex.EncodeToString(b), nil
}
