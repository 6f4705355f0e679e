// Package repository implements client and bearer token persistence.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL uses BINARY(16) types. A client's farm id list
// is stored as a JSON array; NULL means the client has no explicit list.
package repository

import (
	"database/sql"
	"encoding/json"

	apperrors "github.com/allisson/farmaggregator/internal/errors"
)

func encodeFarmIDs(ids []int64) (sql.NullString, error) {
	if ids == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return sql.NullString{}, apperrors.Wrap(err, "failed to marshal client farm ids")
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeFarmIDs(raw sql.NullString) ([]int64, error) {
	if !raw.Valid {
		return nil, nil
	}
	ids := []int64{}
	if err := json.Unmarshal([]byte(raw.String), &ids); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client farm ids")
	}
	return ids, nil
}
