package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/farmaggregator/internal/auth/domain"
	"github.com/allisson/farmaggregator/internal/auth/usecase/mocks"
)

// passthroughTxManager runs the callback without a transaction.
type passthroughTxManager struct{}

func (passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newClientUseCase() (ClientUseCase, *mocks.MockClientRepository, *mocks.MockSecretService) {
	clientRepo := &mocks.MockClientRepository{}
	secretService := &mocks.MockSecretService{}
	return NewClientUseCase(passthroughTxManager{}, clientRepo, secretService), clientRepo, secretService
}

func TestClientUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		uc, clientRepo, secretService := newClientUseCase()
		input := &authDomain.CreateClientInput{
			Name:     "dashboard",
			IsActive: true,
			FarmIDs:  []int64{1, 4},
		}

		secretService.On("GenerateSecret").Return("plain", "hashed", nil).Once()
		clientRepo.On("Create", ctx, mock.MatchedBy(func(client *authDomain.Client) bool {
			return client.Name == "dashboard" &&
				client.Secret == "hashed" &&
				client.IsActive &&
				!client.AllFarms &&
				assert.ObjectsAreEqual([]int64{1, 4}, client.FarmIDs) &&
				client.ID != uuid.Nil
		})).Return(nil).Once()

		output, err := uc.Create(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "plain", output.PlainSecret)
		assert.NotEqual(t, uuid.Nil, output.ID)
		clientRepo.AssertExpectations(t)
	})

	t.Run("Error_SecretGeneration", func(t *testing.T) {
		uc, clientRepo, secretService := newClientUseCase()
		genErr := errors.New("entropy")
		secretService.On("GenerateSecret").Return("", "", genErr).Once()

		_, err := uc.Create(ctx, &authDomain.CreateClientInput{Name: "dashboard"})
		assert.ErrorIs(t, err, genErr)
		clientRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_Repository", func(t *testing.T) {
		uc, clientRepo, secretService := newClientUseCase()
		dbErr := errors.New("db down")
		secretService.On("GenerateSecret").Return("plain", "hashed", nil).Once()
		clientRepo.On("Create", ctx, mock.Anything).Return(dbErr).Once()

		output, err := uc.Create(ctx, &authDomain.CreateClientInput{Name: "dashboard"})
		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, output)
	})
}

func TestClientUseCase_Update(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		uc, clientRepo, _ := newClientUseCase()
		existing := &authDomain.Client{ID: clientID, Name: "old", Secret: "hashed", IsActive: true}

		clientRepo.On("Get", ctx, clientID).Return(existing, nil).Once()
		clientRepo.On("Update", ctx, mock.MatchedBy(func(client *authDomain.Client) bool {
			return client.Name == "new" && client.AllFarms && !client.IsActive && client.Secret == "hashed"
		})).Return(nil).Once()

		err := uc.Update(ctx, clientID, &authDomain.UpdateClientInput{Name: "new", AllFarms: true})
		require.NoError(t, err)
		clientRepo.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		uc, clientRepo, _ := newClientUseCase()
		clientRepo.On("Get", ctx, clientID).Return(nil, authDomain.ErrClientNotFound).Once()

		err := uc.Update(ctx, clientID, &authDomain.UpdateClientInput{Name: "new"})
		assert.ErrorIs(t, err, authDomain.ErrClientNotFound)
		clientRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestClientUseCase_Get(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.Must(uuid.NewV7())
	uc, clientRepo, _ := newClientUseCase()

	client := &authDomain.Client{ID: clientID, Name: "dashboard"}
	clientRepo.On("Get", ctx, clientID).Return(client, nil).Once()

	got, err := uc.Get(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, client, got)
}

func TestClientUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.Must(uuid.NewV7())

	t.Run("Success_Deactivates", func(t *testing.T) {
		uc, clientRepo, _ := newClientUseCase()
		existing := &authDomain.Client{ID: clientID, IsActive: true, AllFarms: true}

		clientRepo.On("Get", ctx, clientID).Return(existing, nil).Once()
		clientRepo.On("Update", ctx, mock.MatchedBy(func(client *authDomain.Client) bool {
			return !client.IsActive && client.AllFarms
		})).Return(nil).Once()

		require.NoError(t, uc.Delete(ctx, clientID))
		clientRepo.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		uc, clientRepo, _ := newClientUseCase()
		clientRepo.On("Get", ctx, clientID).Return(nil, authDomain.ErrClientNotFound).Once()

		assert.ErrorIs(t, uc.Delete(ctx, clientID), authDomain.ErrClientNotFound)
	})
}
