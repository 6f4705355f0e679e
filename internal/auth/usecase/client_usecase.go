package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/farmaggregator/internal/auth/domain"
	authService "github.com/allisson/farmaggregator/internal/auth/service"
	"github.com/allisson/farmaggregator/internal/database"
)

// clientUseCase implements ClientUseCase.
type clientUseCase struct {
	txManager     database.TxManager
	clientRepo    ClientRepository
	secretService authService.SecretService
}

// NewClientUseCase creates a ClientUseCase.
func NewClientUseCase(
	txManager database.TxManager,
	clientRepo ClientRepository,
	secretService authService.SecretService,
) ClientUseCase {
	return &clientUseCase{
		txManager:     txManager,
		clientRepo:    clientRepo,
		secretService: secretService,
	}
}

func (c *clientUseCase) Create(
	ctx context.Context,
	input *authDomain.CreateClientInput,
) (*authDomain.CreateClientOutput, error) {
	plainSecret, hashedSecret, err := c.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	client := &authDomain.Client{
		ID:        uuid.Must(uuid.NewV7()),
		Secret:    hashedSecret,
		Name:      input.Name,
		IsActive:  input.IsActive,
		AllFarms:  input.AllFarms,
		FarmIDs:   input.FarmIDs,
		CreatedAt: time.Now().UTC(),
	}

	if err := c.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return &authDomain.CreateClientOutput{
		ID:          client.ID,
		PlainSecret: plainSecret,
	}, nil
}

// Update reads and writes the client in one transaction so concurrent updates don't
// interleave.
func (c *clientUseCase) Update(
	ctx context.Context,
	clientID uuid.UUID,
	input *authDomain.UpdateClientInput,
) error {
	return c.txManager.WithTx(ctx, func(ctx context.Context) error {
		client, err := c.clientRepo.Get(ctx, clientID)
		if err != nil {
			return err
		}

		client.Name = input.Name
		client.IsActive = input.IsActive
		client.AllFarms = input.AllFarms
		client.FarmIDs = input.FarmIDs

		return c.clientRepo.Update(ctx, client)
	})
}

func (c *clientUseCase) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	return c.clientRepo.Get(ctx, clientID)
}

func (c *clientUseCase) Delete(ctx context.Context, clientID uuid.UUID) error {
	return c.txManager.WithTx(ctx, func(ctx context.Context) error {
		client, err := c.clientRepo.Get(ctx, clientID)
		if err != nil {
			return err
		}

		client.IsActive = false
		return c.clientRepo.Update(ctx, client)
	})
}
