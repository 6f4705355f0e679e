package repository

import (
	"context"
	"database/sql"

	cryptoService "github.com/allisson/farmaggregator/internal/crypto/service"
	apperrors "github.com/allisson/farmaggregator/internal/errors"
	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
)

func scanToken(row rowScanner) (*farmDomain.Token, error) {
	var (
		token        farmDomain.Token
		refreshToken sql.NullString
		tokenType    sql.NullString
		scope        sql.NullString
	)

	err := row.Scan(
		&token.ID,
		&token.FarmID,
		&token.AccessToken,
		&refreshToken,
		&tokenType,
		&scope,
		&token.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	token.RefreshToken = refreshToken.String
	token.TokenType = tokenType.String
	token.Scope = scope.String
	return &token, nil
}

// sealToken returns the encrypted access and refresh tokens. The token itself is not modified.
func sealToken(
	ctx context.Context,
	cipher cryptoService.TokenCipher,
	token *farmDomain.Token,
) (accessToken, refreshToken string, err error) {
	accessToken, err = cipher.Encrypt(ctx, token.AccessToken)
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to seal access token")
	}
	refreshToken, err = cipher.Encrypt(ctx, token.RefreshToken)
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to seal refresh token")
	}
	return accessToken, refreshToken, nil
}

func openToken(ctx context.Context, cipher cryptoService.TokenCipher, token *farmDomain.Token) error {
	accessToken, err := cipher.Decrypt(ctx, token.AccessToken)
	if err != nil {
		return apperrors.Wrap(err, "failed to open access token")
	}
	refreshToken, err := cipher.Decrypt(ctx, token.RefreshToken)
	if err != nil {
		return apperrors.Wrap(err, "failed to open refresh token")
	}
	token.AccessToken = accessToken
	token.RefreshToken = refreshToken
	return nil
}
