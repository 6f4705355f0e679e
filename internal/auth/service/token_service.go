package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/allisson/farmaggregator/internal/errors"
)

// tokenLength is the number of random bytes in a bearer token.
const tokenLength = 32

// tokenService implements TokenService. Tokens are random and long-lived only until
// their configured expiry, so a fast SHA-256 digest is enough for lookups.
type tokenService struct{}

// NewTokenService creates a TokenService.
func NewTokenService() TokenService {
	return &tokenService{}
}

func (t *tokenService) GenerateToken() (string, string, error) {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}
	plainToken := base64.URLEncoding.EncodeToString(buf)
	return plainToken, t.HashToken(plainToken), nil
}

// HashToken returns the hex-encoded SHA-256 digest of plainToken.
func (t *tokenService) HashToken(plainToken string) string {
	sum := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(sum[:])
}
