package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/farmaggregator/internal/auth/domain"
	"github.com/allisson/farmaggregator/internal/testutil"
)

var tokenRowColumns = []string{"id", "token_hash", "client_id", "expires_at", "revoked_at", "created_at"}

func newTestToken() *authDomain.Token {
	createdAt := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	return &authDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: "hash",
		ClientID:  uuid.Must(uuid.NewV7()),
		ExpiresAt: createdAt.Add(24 * time.Hour),
		CreatedAt: createdAt,
	}
}

func TestPostgreSQLTokenRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)
		token := newTestToken()

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tokens")).
			WithArgs(token.ID, "hash", token.ClientID, token.ExpiresAt, nil, token.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, token))
	})

	t.Run("GetByTokenHash", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)
		expected := newTestToken()

		mock.ExpectQuery(regexp.QuoteMeta("FROM tokens WHERE token_hash = $1")).
			WithArgs("hash").
			WillReturnRows(sqlmock.NewRows(tokenRowColumns).AddRow(
				expected.ID.String(), "hash", expected.ClientID.String(),
				expected.ExpiresAt, nil, expected.CreatedAt,
			))

		token, err := repo.GetByTokenHash(ctx, "hash")
		require.NoError(t, err)
		assert.Equal(t, expected, token)
	})

	t.Run("GetByTokenHash_NotFound", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM tokens WHERE token_hash = $1")).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(tokenRowColumns))

		_, err := repo.GetByTokenHash(ctx, "missing")
		assert.ErrorIs(t, err, authDomain.ErrTokenNotFound)
	})

	t.Run("CountExpired", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)
		before := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tokens WHERE expires_at < $1")).
			WithArgs(before).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))

		count, err := repo.CountExpired(ctx, before)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)
		before := time.Now().UTC()

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tokens WHERE expires_at < $1")).
			WithArgs(before).
			WillReturnResult(sqlmock.NewResult(0, 7))

		count, err := repo.DeleteExpired(ctx, before)
		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
	})

	t.Run("DeleteExpired_Error", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tokens")).WillReturnError(errors.New("db down"))

		_, err := repo.DeleteExpired(ctx, time.Now())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete expired tokens")
	})
}

func TestMySQLTokenRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLTokenRepository(db)
		token := newTestToken()
		id, _ := token.ID.MarshalBinary()
		clientID, _ := token.ClientID.MarshalBinary()

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tokens")).
			WithArgs(id, "hash", clientID, token.ExpiresAt, nil, token.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, token))
	})

	t.Run("GetByTokenHash", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLTokenRepository(db)
		expected := newTestToken()
		revokedAt := expected.CreatedAt.Add(time.Hour)
		expected.RevokedAt = &revokedAt
		id, _ := expected.ID.MarshalBinary()
		clientID, _ := expected.ClientID.MarshalBinary()

		mock.ExpectQuery(regexp.QuoteMeta("FROM tokens WHERE token_hash = ?")).
			WithArgs("hash").
			WillReturnRows(sqlmock.NewRows(tokenRowColumns).AddRow(
				id, "hash", clientID, expected.ExpiresAt, revokedAt, expected.CreatedAt,
			))

		token, err := repo.GetByTokenHash(ctx, "hash")
		require.NoError(t, err)
		assert.Equal(t, expected, token)
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLTokenRepository(db)
		before := time.Now().UTC()

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tokens WHERE expires_at < ?")).
			WithArgs(before).
			WillReturnResult(sqlmock.NewResult(0, 2))

		count, err := repo.DeleteExpired(ctx, before)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}
