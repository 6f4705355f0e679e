package repository

import (
	"context"
	"database/sql"
	"errors"

	cryptoService "github.com/allisson/farmaggregator/internal/crypto/service"
	"github.com/allisson/farmaggregator/internal/database"
	apperrors "github.com/allisson/farmaggregator/internal/errors"
	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
)

// MySQLFarmTokenRepository implements farm Token persistence for MySQL.
type MySQLFarmTokenRepository struct {
	db     *sql.DB
	cipher cryptoService.TokenCipher
}

// Create inserts a new Token and sets its ID.
func (m *MySQLFarmTokenRepository) Create(ctx context.Context, token *farmDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	accessToken, refreshToken, err := sealToken(ctx, m.cipher, token)
	if err != nil {
		return err
	}

	query := `INSERT INTO farm_tokens (farm_id, access_token, refresh_token, token_type, scope, expires_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		token.FarmID,
		accessToken,
		nullString(refreshToken),
		nullString(token.TokenType),
		nullString(token.Scope),
		token.ExpiresAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create farm token")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get farm token id")
	}
	token.ID = id
	return nil
}

// Update replaces the stored Token identified by token.ID.
func (m *MySQLFarmTokenRepository) Update(ctx context.Context, token *farmDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	accessToken, refreshToken, err := sealToken(ctx, m.cipher, token)
	if err != nil {
		return err
	}

	query := `UPDATE farm_tokens
			  SET farm_id = ?,
				  access_token = ?,
				  refresh_token = ?,
				  token_type = ?,
				  scope = ?,
				  expires_at = ?
			  WHERE id = ?`

	_, err = querier.ExecContext(
		ctx,
		query,
		token.FarmID,
		accessToken,
		nullString(refreshToken),
		nullString(token.TokenType),
		nullString(token.Scope),
		token.ExpiresAt,
		token.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update farm token")
	}
	return nil
}

// GetByFarmID retrieves the Token owned by a farm.
func (m *MySQLFarmTokenRepository) GetByFarmID(ctx context.Context, farmID int64) (*farmDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, farm_id, access_token, refresh_token, token_type, scope, expires_at
			  FROM farm_tokens WHERE farm_id = ?`

	token, err := scanToken(querier.QueryRowContext(ctx, query, farmID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, farmDomain.ErrFarmTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get farm token")
	}

	if err := openToken(ctx, m.cipher, token); err != nil {
		return nil, err
	}
	return token, nil
}

// NewMySQLFarmTokenRepository creates a new MySQL farm Token repository.
func NewMySQLFarmTokenRepository(db *sql.DB, cipher cryptoService.TokenCipher) *MySQLFarmTokenRepository {
	return &MySQLFarmTokenRepository{db: db, cipher: cipher}
}
