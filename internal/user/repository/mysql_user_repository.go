package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/farmaggregator/internal/database"
	apperrors "github.com/allisson/farmaggregator/internal/errors"
	"github.com/allisson/farmaggregator/internal/user/domain"
)

// MySQLUserRepository handles user persistence for MySQL
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{
		db: db,
	}
}

// GetMulti returns every user ordered by id.
func (r *MySQLUserRepository) GetMulti(ctx context.Context) ([]*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id ASC")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanUsers(rows)
}
