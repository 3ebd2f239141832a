package security

import (
	"github.com/matthewhartstonge/argon2"
)

// HashPassword hashes the given plaintext password with argon2id. A fresh
// random salt is generated on every call.
func HashPassword(password string) (string, error) {
	argon := argon2.DefaultConfig()

	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword reports whether the plaintext password matches the encoded
// argon2 hash. The comparison is constant-time.
func VerifyPassword(password, encodedHash string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}
