// Package service provides the credential primitives behind client authentication:
// client secret generation and hashing, and bearer token generation and hashing.
package service

// SecretService generates and verifies client secrets. Only hashes are ever stored.
type SecretService interface {
	// GenerateSecret returns a new random secret and its hash.
	GenerateSecret() (plainSecret string, hashedSecret string, err error)

	HashSecret(plainSecret string) (hashedSecret string, err error)

	// CompareSecret reports whether plainSecret matches hashedSecret. Malformed hashes
	// never match.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// TokenService generates bearer tokens and derives the hash used to look them up.
type TokenService interface {
	GenerateToken() (plainToken string, tokenHash string, err error)
	HashToken(plainToken string) string
}
