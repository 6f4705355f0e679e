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

// MySQLClientRepository implements Client persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLClientRepository struct {
	db *sql.DB
}

// NewMySQLClientRepository creates a new MySQL Client repository.
func NewMySQLClientRepository(db *sql.DB) *MySQLClientRepository {
	return &MySQLClientRepository{db: db}
}

// Create inserts a new Client.
func (m *MySQLClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, m.db)

	id, err := client.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client id")
	}
	farmIDs, err := encodeFarmIDs(client.FarmIDs)
	if err != nil {
		return err
	}

	query := `INSERT INTO clients (id, secret, name, is_active, all_farms, farm_ids, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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

// Update modifies an existing Client. MySQL reports zero affected rows for updates that
// change nothing, so a missing client is not detected here.
func (m *MySQLClientRepository) Update(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, m.db)

	id, err := client.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client id")
	}
	farmIDs, err := encodeFarmIDs(client.FarmIDs)
	if err != nil {
		return err
	}

	query := `UPDATE clients
			  SET secret = ?,
				  name = ?,
				  is_active = ?,
				  all_farms = ?,
				  farm_ids = ?
			  WHERE id = ?`

	_, err = querier.ExecContext(
		ctx,
		query,
		client.Secret,
		client.Name,
		client.IsActive,
		client.AllFarms,
		farmIDs,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client")
	}
	return nil
}

// Get retrieves a Client by ID.
func (m *MySQLClientRepository) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := clientID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal client id")
	}

	query := `SELECT id, secret, name, is_active, all_farms, farm_ids, created_at
			  FROM clients WHERE id = ?`

	var client authDomain.Client
	var rawID []byte
	var farmIDs sql.NullString

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&rawID,
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

	if client.ID, err = uuid.FromBytes(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client id")
	}
	if client.FarmIDs, err = decodeFarmIDs(farmIDs); err != nil {
		return nil, err
	}
	return &client, nil
}
