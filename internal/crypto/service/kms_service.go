package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// OpenTokenCipher opens the keeper behind keyURI and returns a cipher using it.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
// An empty keyURI yields a pass-through cipher.
func OpenTokenCipher(ctx context.Context, keyURI string) (TokenCipher, error) {
	if keyURI == "" {
		return NewPlainCipher(), nil
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return NewKeeperCipher(keeper), nil
}
