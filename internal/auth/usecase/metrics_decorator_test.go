package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/farmaggregator/internal/auth/domain"
	"github.com/allisson/farmaggregator/internal/auth/usecase"
	usecaseMocks "github.com/allisson/farmaggregator/internal/auth/usecase/mocks"
)

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func expectAuthMetrics(ctx context.Context, m *mockBusinessMetrics, operation, status string) {
	m.On("RecordOperation", ctx, "auth", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "auth", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestClientUseCaseWithMetrics(t *testing.T) {
	mockNext := &usecaseMocks.MockClientUseCase{}
	mockMetrics := &mockBusinessMetrics{}
	uc := usecase.NewClientUseCaseWithMetrics(mockNext, mockMetrics)

	ctx := context.Background()
	clientID := uuid.New()

	t.Run("Create success", func(t *testing.T) {
		input := &authDomain.CreateClientInput{Name: "test"}
		output := &authDomain.CreateClientOutput{ID: clientID}

		mockNext.On("Create", ctx, input).Return(output, nil).Once()
		expectAuthMetrics(ctx, mockMetrics, "client_create", "success")

		res, err := uc.Create(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, output, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Update error", func(t *testing.T) {
		input := &authDomain.UpdateClientInput{Name: "test"}
		mockNext.On("Update", ctx, clientID, input).Return(authDomain.ErrClientNotFound).Once()
		expectAuthMetrics(ctx, mockMetrics, "client_update", "error")

		err := uc.Update(ctx, clientID, input)
		assert.ErrorIs(t, err, authDomain.ErrClientNotFound)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Get success", func(t *testing.T) {
		client := &authDomain.Client{ID: clientID}
		mockNext.On("Get", ctx, clientID).Return(client, nil).Once()
		expectAuthMetrics(ctx, mockMetrics, "client_get", "success")

		res, err := uc.Get(ctx, clientID)
		assert.NoError(t, err)
		assert.Equal(t, client, res)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Delete success", func(t *testing.T) {
		mockNext.On("Delete", ctx, clientID).Return(nil).Once()
		expectAuthMetrics(ctx, mockMetrics, "client_delete", "success")

		assert.NoError(t, uc.Delete(ctx, clientID))
		mockMetrics.AssertExpectations(t)
	})
}

func TestTokenUseCaseWithMetrics(t *testing.T) {
	mockNext := &usecaseMocks.MockTokenUseCase{}
	mockMetrics := &mockBusinessMetrics{}
	uc := usecase.NewTokenUseCaseWithMetrics(mockNext, mockMetrics)

	ctx := context.Background()

	t.Run("Issue success", func(t *testing.T) {
		input := &authDomain.IssueTokenInput{ClientID: uuid.New(), ClientSecret: "secret"}
		output := &authDomain.IssueTokenOutput{PlainToken: "token"}

		mockNext.On("Issue", ctx, input).Return(output, nil).Once()
		expectAuthMetrics(ctx, mockMetrics, "token_issue", "success")

		res, err := uc.Issue(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, output, res)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Authenticate error", func(t *testing.T) {
		mockNext.On("Authenticate", ctx, "hash").Return(nil, authDomain.ErrInvalidCredentials).Once()
		expectAuthMetrics(ctx, mockMetrics, "token_authenticate", "error")

		res, err := uc.Authenticate(ctx, "hash")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		assert.Nil(t, res)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("CleanupExpired error", func(t *testing.T) {
		dbErr := errors.New("db down")
		mockNext.On("CleanupExpired", ctx, 30, true).Return(int64(0), dbErr).Once()
		expectAuthMetrics(ctx, mockMetrics, "token_cleanup", "error")

		_, err := uc.CleanupExpired(ctx, 30, true)
		assert.ErrorIs(t, err, dbErr)
		mockMetrics.AssertExpectations(t)
	})
}
