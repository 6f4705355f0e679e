package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/farmaggregator/internal/errors"
)

// secretLength is the number of random bytes in a client secret.
const secretLength = 32

// secretService implements SecretService with Argon2id hashes.
type secretService struct {
	hasher *pwdhash.PasswordHasher
}

// NewSecretService creates a SecretService using the moderate Argon2id policy.
func NewSecretService() SecretService {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		// A built-in policy never fails validation.
		panic(err)
	}
	return &secretService{hasher: hasher}
}

func (s *secretService) GenerateSecret() (string, string, error) {
	buf := make([]byte, secretLength)
	if _, err := rand.Read(buf); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random secret")
	}
	plainSecret := base64.URLEncoding.EncodeToString(buf)

	hashedSecret, err := s.HashSecret(plainSecret)
	if err != nil {
		return "", "", err
	}
	return plainSecret, hashedSecret, nil
}

func (s *secretService) HashSecret(plainSecret string) (string, error) {
	hashedSecret, err := s.hasher.Hash([]byte(plainSecret))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash secret")
	}
	return hashedSecret, nil
}

func (s *secretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	ok, err := s.hasher.Verify([]byte(plainSecret), hashedSecret)
	return err == nil && ok
}
