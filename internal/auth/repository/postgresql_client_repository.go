package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	authDomain "github.com/allisson/farmaggregator/internal/auth/domain"
	"github.com/allisson/farmaggregator/internal/database"
	apperrors "github.com/allisson/farmaggregator/internal/errors"
)

// PostgreSQLClientRepository implements Client persistence for PostgreSQL.
type PostgreSQLClientRepository struct {
	db *sql.DB
}

// NewPostgreSQLClientRepository creates a new PostgreSQL Client repository.
func NewPostgreSQLClientRepository(db *sql.DB) *PostgreSQLClientRepository {
	return &PostgreSQLClientRepository{db: db}
}

// Create inserts a new Client.
func (p *PostgreSQLClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, p.db)

	farmIDs, err := encodeFarmIDs(client.FarmIDs)
	if err != nil {
		return err
	}

	query := `INSERT INTO clients (id, secret, name, is_active, all_farms, farm_ids, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = querier.ExecContext(
		ctx,
		query,
		client.ID,
		client.Secret,
		client.Name,
		client.IsActive,
		client.AllFarms,
		farmIDs,
		client.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create client")
	}
	return nil
}

// Update modifies an existing Client. Returns ErrClientNotFound if no row matches.
func (p *PostgreSQLClientRepository) Update(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, p.db)

	farmIDs, err := encodeFarmIDs(client.FarmIDs)
	if err != nil {
		return err
	}

	query := `UPDATE clients
			  SET secret = $1,
				  name = $2,
				  is_active = $3,
				  all_farms = $4,
				  farm_ids = $5
			  WHERE id = $6`

	result, err := querier.ExecContext(
		ctx,
		query,
		client.Secret,
		client.Name,
		client.IsActive,
		client.AllFarms,
		farmIDs,
		client.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update client")
	}
	if rows == 0 {
		return authDomain.ErrClientNotFound
	}
	return nil
}

// Get retrieves a Client by ID.
func (p *PostgreSQLClientRepository) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, secret, name, is_active, all_farms, farm_ids, created_at
			  FROM clients WHERE id = $1`

	var client authDomain.Client
	var farmIDs sql.NullString

	err := querier.QueryRowContext(ctx, query, clientID).Scan(
		&client.ID,
		&client.Secret,
		&client.Name,
		&client.IsActive,
		&client.AllFarms,
		&farmIDs,
		&client.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrClientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get client")
	}

	if client.FarmIDs, err = decodeFarmIDs(farmIDs); err != nil {
		return nil, err
	}
	return &client, nil
}
