package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"gocloud.dev/secrets"
)

// sealedPrefix marks values written by keeperCipher.
const sealedPrefix = "enc:v1:"

type keeperCipher struct {
	keeper *secrets.Keeper
}

// NewKeeperCipher wraps keeper. The cipher owns the keeper and closes it on Close.
func NewKeeperCipher(keeper *secrets.Keeper) TokenCipher {
	return &keeperCipher{keeper: keeper}
}

func (k *keeperCipher) Encrypt(ctx context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	raw := []byte(plaintext)
	defer zero(raw)

	ciphertext, err := k.keeper.Encrypt(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt token: %w", err)
	}
	return sealedPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (k *keeperCipher) Decrypt(ctx context.Context, value string) (string, error) {
	encoded, ok := strings.CutPrefix(value, sealedPrefix)
	if !ok {
		return value, nil
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode sealed token: %w", err)
	}

	plaintext, err := k.keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt token: %w", err)
	}
	defer zero(plaintext)

	return string(plaintext), nil
}

func (k *keeperCipher) Close() error {
	return k.keeper.Close()
}

type plainCipher struct{}

// NewPlainCipher returns a cipher that stores values as given.
func NewPlainCipher() TokenCipher {
	return plainCipher{}
}

func (plainCipher) Encrypt(_ context.Context, plaintext string) (string, error) { return plaintext, nil }

func (plainCipher) Decrypt(_ context.Context, value string) (string, error) { return value, nil }

func (plainCipher) Close() error { return nil }

// zero overwrites b so key material does not linger after use.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
