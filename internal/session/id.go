package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// idBytes is the raw entropy behind a session id (256 bits).
const idBytes = 32

// randRead is swapped in tests to exercise the failure path.
var randRead = rand.Read

// GenerateID generates a cryptographically secure, URL-safe session ID.
func GenerateID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := randRead(b); err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
