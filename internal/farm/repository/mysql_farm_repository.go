package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/allisson/farmaggregator/internal/database"
	apperrors "github.com/allisson/farmaggregator/internal/errors"
	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
)

// MySQLFarmRepository implements Farm persistence for MySQL.
type MySQLFarmRepository struct {
	db *sql.DB
}

// Create inserts a new Farm and sets its ID and CreatedAt.
func (m *MySQLFarmRepository) Create(ctx context.Context, farm *farmDomain.Farm) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO farms (url, farm_name, username, password, is_authorized, auth_error, scope, last_accessed, active, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if farm.CreatedAt.IsZero() {
		farm.CreatedAt = time.Now().UTC()
	}

	result, err := querier.ExecContext(
		ctx,
		query,
		farm.URL,
		farm.FarmName,
		nullString(farm.Username),
		nullString(farm.Password),
		farm.IsAuthorized,
		nullString(farm.AuthError),
		nullString(farm.Scope),
		nullTime(farm.LastAccessed),
		farm.Active,
		farm.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create farm")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get farm id")
	}
	farm.ID = id
	return nil
}

// GetByURL retrieves a Farm by its base URL.
func (m *MySQLFarmRepository) GetByURL(
	ctx context.Context,
	url string,
	activeOnly bool,
) (*farmDomain.Farm, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + farmColumns + ` FROM farms WHERE url = ?`
	if activeOnly {
		query += ` AND active = TRUE`
	}

	farm, err := scanFarm(querier.QueryRowContext(ctx, query, url))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, farmDomain.ErrFarmNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get farm by url")
	}
	return farm, nil
}

// GetByID retrieves a Farm by ID regardless of its active flag.
func (m *MySQLFarmRepository) GetByID(ctx context.Context, id int64) (*farmDomain.Farm, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + farmColumns + ` FROM farms WHERE id = ?`

	farm, err := scanFarm(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, farmDomain.ErrFarmNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get farm")
	}
	return farm, nil
}

// GetByMultiID retrieves the farms whose IDs are in ids, ordered by ID.
func (m *MySQLFarmRepository) GetByMultiID(
	ctx context.Context,
	ids []int64,
	activeOnly bool,
) ([]*farmDomain.Farm, error) {
	if len(ids) == 0 {
		return []*farmDomain.Farm{}, nil
	}

	querier := database.GetTx(ctx, m.db)

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := `SELECT ` + farmColumns + ` FROM farms WHERE id IN (` + placeholders + `)`
	if activeOnly {
		query += ` AND active = TRUE`
	}
	query += ` ORDER BY id ASC`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list farms by id")
	}
	defer func() {
		_ = rows.Close()
	}()

	farms, err := scanFarms(rows)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan farms")
	}
	return farms, nil
}

// GetMulti retrieves every farm, ordered by ID.
func (m *MySQLFarmRepository) GetMulti(ctx context.Context, activeOnly bool) ([]*farmDomain.Farm, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + farmColumns + ` FROM farms`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY id ASC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list farms")
	}
	defer func() {
		_ = rows.Close()
	}()

	farms, err := scanFarms(rows)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan farms")
	}
	return farms, nil
}

// UpdateLastAccessed stamps the farm's last successful access.
// MySQL reports zero affected rows for no-op updates, so the row count is not checked.
func (m *MySQLFarmRepository) UpdateLastAccessed(
	ctx context.Context,
	id int64,
	lastAccessed time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE farms SET last_accessed = ? WHERE id = ?`

	if _, err := querier.ExecContext(ctx, query, lastAccessed, id); err != nil {
		return apperrors.Wrap(err, "failed to update farm last accessed")
	}
	return nil
}

// UpdateIsAuthorized records the outcome of the latest authorization attempt.
func (m *MySQLFarmRepository) UpdateIsAuthorized(
	ctx context.Context,
	id int64,
	isAuthorized bool,
	authError string,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE farms SET is_authorized = ?, auth_error = ? WHERE id = ?`

	if _, err := querier.ExecContext(ctx, query, isAuthorized, nullString(authError), id); err != nil {
		return apperrors.Wrap(err, "failed to update farm authorization")
	}
	return nil
}

// NewMySQLFarmRepository creates a new MySQL Farm repository.
func NewMySQLFarmRepository(db *sql.DB) *MySQLFarmRepository {
	return &MySQLFarmRepository{db: db}
}
