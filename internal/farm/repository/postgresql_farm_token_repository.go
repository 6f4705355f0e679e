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

// PostgreSQLFarmTokenRepository implements farm Token persistence for PostgreSQL.
// The access and refresh tokens are sealed by the cipher before they are written.
type PostgreSQLFarmTokenRepository struct {
	db     *sql.DB
	cipher cryptoService.TokenCipher
}

// Create inserts a new Token and sets its ID.
func (p *PostgreSQLFarmTokenRepository) Create(ctx context.Context, token *farmDomain.Token) error {
	querier := database.GetTx(ctx, p.db)

	accessToken, refreshToken, err := sealToken(ctx, p.cipher, token)
	if err != nil {
		return err
	}

	query := `INSERT INTO farm_tokens (farm_id, access_token, refresh_token, token_type, scope, expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`

	err = querier.QueryRowContext(
		ctx,
		query,
		token.FarmID,
		accessToken,
		nullString(refreshToken),
		nullString(token.TokenType),
		nullString(token.Scope),
		token.ExpiresAt,
	).Scan(&token.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create farm token")
	}
	return nil
}

// Update replaces the stored Token identified by token.ID.
func (p *PostgreSQLFarmTokenRepository) Update(ctx context.Context, token *farmDomain.Token) error {
	querier := database.GetTx(ctx, p.db)

	accessToken, refreshToken, err := sealToken(ctx, p.cipher, token)
	if err != nil {
		return err
	}

	query := `UPDATE farm_tokens
			  SET farm_id = $1,
				  access_token = $2,
				  refresh_token = $3,
				  token_type = $4,
				  scope = $5,
				  expires_at = $6
			  WHERE id = $7`

	result, err := querier.ExecContext(
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

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if affected == 0 {
		return farmDomain.ErrFarmTokenNotFound
	}
	return nil
}

// GetByFarmID retrieves the Token owned by a farm.
func (p *PostgreSQLFarmTokenRepository) GetByFarmID(ctx context.Context, farmID int64) (*farmDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, farm_id, access_token, refresh_token, token_type, scope, expires_at
			  FROM farm_tokens WHERE farm_id = $1`

	token, err := scanToken(querier.QueryRowContext(ctx, query, farmID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, farmDomain.ErrFarmTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get farm token")
	}

	if err := openToken(ctx, p.cipher, token); err != nil {
		return nil, err
	}
	return token, nil
}

// NewPostgreSQLFarmTokenRepository creates a new PostgreSQL farm Token repository.
func NewPostgreSQLFarmTokenRepository(
	db *sql.DB,
	cipher cryptoService.TokenCipher,
) *PostgreSQLFarmTokenRepository {
	return &PostgreSQLFarmTokenRepository{db: db, cipher: cipher}
}
