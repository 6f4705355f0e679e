package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/allisson/farmaggregator/internal/database"
	apperrors "github.com/allisson/farmaggregator/internal/errors"
	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
)

// PostgreSQLFarmRepository implements Farm persistence for PostgreSQL.
type PostgreSQLFarmRepository struct {
	db *sql.DB
}

// Create inserts a new Farm and sets its ID and CreatedAt.
func (p *PostgreSQLFarmRepository) Create(ctx context.Context, farm *farmDomain.Farm) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO farms (url, farm_name, username, password, is_authorized, auth_error, scope, last_accessed, active, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`

	if farm.CreatedAt.IsZero() {
		farm.CreatedAt = time.Now().UTC()
	}

	err := querier.QueryRowContext(
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
	).Scan(&farm.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create farm")
	}
	return nil
}

// GetByURL retrieves a Farm by its base URL.
func (p *PostgreSQLFarmRepository) GetByURL(
	ctx context.Context,
	url string,
	activeOnly bool,
) (*farmDomain.Farm, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + farmColumns + ` FROM farms WHERE url = $1`
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
func (p *PostgreSQLFarmRepository) GetByID(ctx context.Context, id int64) (*farmDomain.Farm, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + farmColumns + ` FROM farms WHERE id = $1`

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
func (p *PostgreSQLFarmRepository) GetByMultiID(
	ctx context.Context,
	ids []int64,
	activeOnly bool,
) ([]*farmDomain.Farm, error) {
	if len(ids) == 0 {
		return []*farmDomain.Farm{}, nil
	}

	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + farmColumns + ` FROM farms WHERE id = ANY($1)`
	if activeOnly {
		query += ` AND active = TRUE`
	}
	query += ` ORDER BY id ASC`

	rows, err := querier.QueryContext(ctx, query, pq.Array(ids))
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
func (p *PostgreSQLFarmRepository) GetMulti(ctx context.Context, activeOnly bool) ([]*farmDomain.Farm, error) {
	querier := database.GetTx(ctx, p.db)

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
func (p *PostgreSQLFarmRepository) UpdateLastAccessed(
	ctx context.Context,
	id int64,
	lastAccessed time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE farms SET last_accessed = $1 WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, lastAccessed, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update farm last accessed")
	}
	return checkAffected(result)
}

// UpdateIsAuthorized records the outcome of the latest authorization attempt.
func (p *PostgreSQLFarmRepository) UpdateIsAuthorized(
	ctx context.Context,
	id int64,
	isAuthorized bool,
	authError string,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE farms SET is_authorized = $1, auth_error = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, isAuthorized, nullString(authError), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update farm authorization")
	}
	return checkAffected(result)
}

// NewPostgreSQLFarmRepository creates a new PostgreSQL Farm repository.
func NewPostgreSQLFarmRepository(db *sql.DB) *PostgreSQLFarmRepository {
	return &PostgreSQLFarmRepository{db: db}
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if affected == 0 {
		return farmDomain.ErrFarmNotFound
	}
	return nil
}
