package v1

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor the system has always used; existing
// hashes verify regardless of the cost they were created with.
const bcryptCost = 10

// HashPassword produces a salted bcrypt hash of the plaintext. The salt is
// embedded in the returned credential.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored credential.
// A malformed credential or empty input yields false, never an error.
func CheckPassword(plaintext, credential string) bool {
	return bcrypt.CompareHashAndPassword([]byte(credential), []byte(plaintext)) == nil
}
