package db

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

const idPrefix = "pk-"

// NormalizePickID ensures a pick ID has the pk- prefix
// Accepts bare hex IDs like "abc123" and returns "pk-abc123"
func NormalizePickID(id string) string {
	if id == "" {
		return id
	}
	if !strings.HasPrefix(id, idPrefix) {
		return idPrefix + id
	}
	return id
}

// idGenerator is the function used to generate pick IDs.
// It can be replaced in tests to control ID generation.
var idGenerator = defaultGenerateID

// defaultGenerateID generates a unique pick ID using crypto/rand
func defaultGenerateID() (string, error) {
	bytes := make([]byte, 4) // 8 hex characters
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return idPrefix + hex.EncodeToString(bytes), nil
}

// generateID generates a unique pick ID using the configured generator
func generateID() (string, error) {
	return idGenerator()
}
