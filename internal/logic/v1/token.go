package v1

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// sessionTokenBytes is the entropy of a session id: 32 bytes, 64 hex chars.
const sessionTokenBytes = 32

// NewSessionToken returns a cryptographically random opaque session id. The
// token carries no decodable information about the user or the clock.
func NewSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
