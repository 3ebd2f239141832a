package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateResetToken returns a high-entropy random token in hex. The raw
// value is shown to the user exactly once; only its digest is persisted.
func GenerateResetToken() (string, error) {
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// HashResetToken returns the sha256 hex digest of a raw reset token. This is
// the only form in which reset tokens are stored.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
