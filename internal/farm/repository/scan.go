// Package repository implements farm and farm token persistence for PostgreSQL and MySQL.
//
// All repositories are transaction-aware through database.GetTx(). Farm token
// credentials pass through a TokenCipher so they can be encrypted at rest.
package repository

import (
	"database/sql"
	"time"

	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
)

const farmColumns = `id, url, farm_name, username, password, is_authorized, auth_error, scope, last_accessed, active, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFarm(row rowScanner) (*farmDomain.Farm, error) {
	var (
		farm         farmDomain.Farm
		username     sql.NullString
		password     sql.NullString
		authError    sql.NullString
		scope        sql.NullString
		lastAccessed sql.NullTime
	)

	err := row.Scan(
		&farm.ID,
		&farm.URL,
		&farm.FarmName,
		&username,
		&password,
		&farm.IsAuthorized,
		&authError,
		&scope,
		&lastAccessed,
		&farm.Active,
		&farm.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	farm.Username = username.String
	farm.Password = password.String
	farm.AuthError = authError.String
	farm.Scope = scope.String
	if lastAccessed.Valid {
		t := lastAccessed.Time
		farm.LastAccessed = &t
	}

	return &farm, nil
}

func scanFarms(rows *sql.Rows) ([]*farmDomain.Farm, error) {
	farms := make([]*farmDomain.Farm, 0)
	for rows.Next() {
		farm, err := scanFarm(rows)
		if err != nil {
			return nil, err
		}
		farms = append(farms, farm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return farms, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
