package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/allisson/farmaggregator/internal/database"
	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
)

// tokenStore implements TokenStore with a FarmTokenRepository.
//
// Concurrent saves for the same farm are not serialized: two requests refreshing the
// same farm's token each write their result and the last write wins. Both tokens were
// issued by the farm, so either one is usable.
type tokenStore struct {
	txManager database.TxManager
	tokenRepo FarmTokenRepository
	logger    *slog.Logger
}

// NewTokenStore creates a TokenStore.
func NewTokenStore(
	txManager database.TxManager,
	tokenRepo FarmTokenRepository,
	logger *slog.Logger,
) TokenStore {
	return &tokenStore{
		txManager: txManager,
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

// Save replaces the farm's token when it has one and creates it otherwise. When the
// in-memory farm carries no token the repository is consulted, so a farm loaded without
// its token still gets an update rather than a second row. On success farm.Token holds
// the stored token.
func (s *tokenStore) Save(ctx context.Context, farm *farmDomain.Farm, token *farmDomain.Token) error {
	s.logger.Debug("saving new token for farm", slog.Int64("farm_id", farm.ID))

	stored := *token
	stored.FarmID = farm.ID

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing := farm.Token
		if existing == nil {
			current, err := s.tokenRepo.GetByFarmID(ctx, farm.ID)
			switch {
			case err == nil:
				existing = current
			case !errors.Is(err, farmDomain.ErrFarmTokenNotFound):
				return err
			}
		}

		if existing != nil {
			stored.ID = existing.ID
			return s.tokenRepo.Update(ctx, &stored)
		}

		stored.ID = 0
		return s.tokenRepo.Create(ctx, &stored)
	})
	if err != nil {
		return err
	}

	farm.Token = &stored
	return nil
}
