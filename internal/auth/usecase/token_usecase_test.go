package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/farmaggregator/internal/auth/domain"
	"github.com/allisson/farmaggregator/internal/auth/usecase/mocks"
	"github.com/allisson/farmaggregator/internal/config"
	apperrors "github.com/allisson/farmaggregator/internal/errors"
)

type tokenDeps struct {
	clientRepo    *mocks.MockClientRepository
	tokenRepo     *mocks.MockTokenRepository
	secretService *mocks.MockSecretService
	tokenService  *mocks.MockTokenService
}

func newTokenUseCase(expiration time.Duration) (TokenUseCase, tokenDeps) {
	d := tokenDeps{
		clientRepo:    &mocks.MockClientRepository{},
		tokenRepo:     &mocks.MockTokenRepository{},
		secretService: &mocks.MockSecretService{},
		tokenService:  &mocks.MockTokenService{},
	}
	uc := NewTokenUseCase(
		&config.Config{AuthTokenExpiration: expiration},
		d.clientRepo,
		d.tokenRepo,
		d.secretService,
		d.tokenService,
	)
	return uc, d
}

func TestTokenUseCase_Issue(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.Must(uuid.NewV7())
	input := &authDomain.IssueTokenInput{ClientID: clientID, ClientSecret: "plain-secret"}

	t.Run("Success", func(t *testing.T) {
		uc, d := newTokenUseCase(2 * time.Hour)
		client := &authDomain.Client{ID: clientID, Secret: "hashed", IsActive: true, AllFarms: true}

		d.clientRepo.On("Get", ctx, clientID).Return(client, nil).Once()
		d.secretService.On("CompareSecret", "plain-secret", "hashed").Return(true).Once()
		d.tokenService.On("GenerateToken").Return("plain-token", "token-hash", nil).Once()
		d.tokenRepo.On("Create", ctx, mock.MatchedBy(func(token *authDomain.Token) bool {
			return token.ClientID == clientID &&
				token.TokenHash == "token-hash" &&
				token.RevokedAt == nil &&
				token.ExpiresAt.Sub(token.CreatedAt) == 2*time.Hour
		})).Return(nil).Once()

		before := time.Now().UTC()
		output, err := uc.Issue(ctx, input)
		require.NoError(t, err)

		assert.Equal(t, "plain-token", output.PlainToken)
		assert.WithinDuration(t, before.Add(2*time.Hour), output.ExpiresAt, 5*time.Second)
		d.clientRepo.AssertExpectations(t)
		d.secretService.AssertExpectations(t)
		d.tokenService.AssertExpectations(t)
		d.tokenRepo.AssertExpectations(t)
	})

	t.Run("Error_UnknownClientIsInvalidCredentials", func(t *testing.T) {
		uc, d := newTokenUseCase(time.Hour)
		d.clientRepo.On("Get", ctx, clientID).Return(nil, authDomain.ErrClientNotFound).Once()

		_, err := uc.Issue(ctx, input)
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		d.secretService.AssertNotCalled(t, "CompareSecret", mock.Anything, mock.Anything)
	})

	t.Run("Error_InactiveClient", func(t *testing.T) {
		uc, d := newTokenUseCase(time.Hour)
		client := &authDomain.Client{ID: clientID, Secret: "hashed", IsActive: false}
		d.clientRepo.On("Get", ctx, clientID).Return(client, nil).Once()

		_, err := uc.Issue(ctx, input)
		assert.ErrorIs(t, err, authDomain.ErrClientInactive)
		d.secretService.AssertNotCalled(t, "CompareSecret", mock.Anything, mock.Anything)
	})

	t.Run("Error_WrongSecret", func(t *testing.T) {
		uc, d := newTokenUseCase(time.Hour)
		client := &authDomain.Client{ID: clientID, Secret: "hashed", IsActive: true}
		d.clientRepo.On("Get", ctx, clientID).Return(client, nil).Once()
		d.secretService.On("CompareSecret", "plain-secret", "hashed").Return(false).Once()

		_, err := uc.Issue(ctx, input)
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		d.tokenService.AssertNotCalled(t, "GenerateToken")
	})

	t.Run("Error_RepositoryFailures", func(t *testing.T) {
		uc, d := newTokenUseCase(time.Hour)
		client := &authDomain.Client{ID: clientID, Secret: "hashed", IsActive: true}
		dbErr := errors.New("db down")

		d.clientRepo.On("Get", ctx, clientID).Return(client, nil).Once()
		d.secretService.On("CompareSecret", "plain-secret", "hashed").Return(true).Once()
		d.tokenService.On("GenerateToken").Return("plain-token", "token-hash", nil).Once()
		d.tokenRepo.On("Create", ctx, mock.Anything).Return(dbErr).Once()

		output, err := uc.Issue(ctx, input)
		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, output)
	})

	t.Run("Error_ClientLookupFailure", func(t *testing.T) {
		uc, d := newTokenUseCase(time.Hour)
		dbErr := errors.New("db down")
		d.clientRepo.On("Get", ctx, clientID).Return(nil, dbErr).Once()

		_, err := uc.Issue(ctx, input)
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})
}

func TestTokenUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.Must(uuid.NewV7())
	activeClient := &authDomain.Client{ID: clientID, IsActive: true, FarmIDs: []int64{1}}

	validToken := func() *authDomain.Token {
		return &authDomain.Token{
			ID:        uuid.Must(uuid.NewV7()),
			TokenHash: "hash",
			ClientID:  clientID,
			ExpiresAt: time.Now().UTC().Add(time.Hour),
		}
	}

	t.Run("Success", func(t *testing.T) {
		uc, d := newTokenUseCase(time.Hour)
		d.tokenRepo.On("GetByTokenHash", ctx, "hash").Return(validToken(), nil).Once()
		d.clientRepo.On("Get", ctx, clientID).Return(activeClient, nil).Once()

		client, err := uc.Authenticate(ctx, "hash")
		require.NoError(t, err)
		assert.Equal(t, activeClient, client)
	})

	t.Run("Error_UnknownToken", func(t *testing.T) {
		uc, d := newTokenUseCase(time.Hour)
		d.tokenRepo.On("GetByTokenHash", ctx, "hash").Return(nil, authDomain.ErrTokenNotFound).Once()

		_, err := uc.Authenticate(ctx, "hash")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("Error_ExpiredToken", func(t *testing.T) {
		uc, d := newTokenUseCase(time.Hour)
		token := validToken()
		token.ExpiresAt = time.Now().UTC().Add(-time.Minute)
		d.tokenRepo.On("GetByTokenHash", ctx, "hash").Return(token, nil).Once()

		_, err := uc.Authenticate(ctx, "hash")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		d.clientRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("Error_RevokedToken", func(t *testing.T) {
		uc, d := newTokenUseCase(time.Hour)
		token := validToken()
		revokedAt := time.Now().UTC()
		token.RevokedAt = &revokedAt
		d.tokenRepo.On("GetByTokenHash", ctx, "hash").Return(token, nil).Once()

		_, err := uc.Authenticate(ctx, "hash")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("Error_ClientGone", func(t *testing.T) {
		uc, d := newTokenUseCase(time.Hour)
		d.tokenRepo.On("GetByTokenHash", ctx, "hash").Return(validToken(), nil).Once()
		d.clientRepo.On("Get", ctx, clientID).Return(nil, authDomain.ErrClientNotFound).Once()

		_, err := uc.Authenticate(ctx, "hash")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("Error_ClientInactive", func(t *testing.T) {
		uc, d := newTokenUseCase(time.Hour)
		d.tokenRepo.On("GetByTokenHash", ctx, "hash").Return(validToken(), nil).Once()
		d.clientRepo.On("Get", ctx, clientID).
			Return(&authDomain.Client{ID: clientID, IsActive: false}, nil).
			Once()

		_, err := uc.Authenticate(ctx, "hash")
		assert.ErrorIs(t, err, authDomain.ErrClientInactive)
	})
}

func TestTokenUseCase_CleanupExpired(t *testing.T) {
	ctx := context.Background()
	cutoff := mock.MatchedBy(func(before time.Time) bool {
		expected := time.Now().UTC().AddDate(0, 0, -7)
		return before.Sub(expected).Abs() < time.Minute
	})

	t.Run("Success_Delete", func(t *testing.T) {
		uc, d := newTokenUseCase(time.Hour)
		d.tokenRepo.On("DeleteExpired", ctx, cutoff).Return(int64(12), nil).Once()

		count, err := uc.CleanupExpired(ctx, 7, false)
		require.NoError(t, err)
		assert.Equal(t, int64(12), count)
		d.tokenRepo.AssertNotCalled(t, "CountExpired", mock.Anything, mock.Anything)
	})

	t.Run("Success_DryRunOnlyCounts", func(t *testing.T) {
		uc, d := newTokenUseCase(time.Hour)
		d.tokenRepo.On("CountExpired", ctx, cutoff).Return(int64(3), nil).Once()

		count, err := uc.CleanupExpired(ctx, 7, true)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		d.tokenRepo.AssertNotCalled(t, "DeleteExpired", mock.Anything, mock.Anything)
	})

	t.Run("Error_NegativeDays", func(t *testing.T) {
		uc, _ := newTokenUseCase(time.Hour)

		_, err := uc.CleanupExpired(ctx, -1, false)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
