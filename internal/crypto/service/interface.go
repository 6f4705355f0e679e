// Package service encrypts farm OAuth credentials at rest using a gocloud.dev/secrets keeper.
package service

import "context"

// TokenCipher seals and opens credential strings before they reach the database.
type TokenCipher interface {
	// Encrypt returns the sealed form of plaintext. Empty input stays empty.
	Encrypt(ctx context.Context, plaintext string) (string, error)

	// Decrypt opens a value produced by Encrypt. Values that were stored before
	// encryption was enabled are returned unchanged.
	Decrypt(ctx context.Context, value string) (string, error)

	// Close releases the underlying keeper.
	Close() error
}
