package usecase

import (
	"context"
	"log/slog"

	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
	farmService "github.com/allisson/farmaggregator/internal/farm/service"
)

// authorizationUseCase implements AuthorizationUseCase.
type authorizationUseCase struct {
	resolver   FarmResolver
	exchanger  farmService.TokenExchanger
	tokenStore TokenStore
	farmRepo   FarmRepository
	logger     *slog.Logger
}

// NewAuthorizationUseCase creates an AuthorizationUseCase.
func NewAuthorizationUseCase(
	resolver FarmResolver,
	exchanger farmService.TokenExchanger,
	tokenStore TokenStore,
	farmRepo FarmRepository,
	logger *slog.Logger,
) AuthorizationUseCase {
	return &authorizationUseCase{
		resolver:   resolver,
		exchanger:  exchanger,
		tokenStore: tokenStore,
		farmRepo:   farmRepo,
		logger:     logger,
	}
}

// Authorize resolves the farm against the caller's grant, exchanges the authorization
// code at the farm's token endpoint and stores the resulting token. A failed exchange
// returns ErrExchangeFailed and leaves the farm untouched.
func (a *authorizationUseCase) Authorize(
	ctx context.Context,
	farmID int64,
	grant farmDomain.AccessGrant,
	params farmDomain.AuthParams,
) (*farmDomain.Farm, error) {
	farm, err := a.resolver.ResolveByID(ctx, farmID, grant)
	if err != nil {
		return nil, err
	}

	token, err := a.exchanger.Exchange(ctx, farm.URL, params)
	if err != nil {
		return nil, err
	}

	if err := a.tokenStore.Save(ctx, farm, token); err != nil {
		return nil, err
	}

	if err := a.farmRepo.UpdateIsAuthorized(ctx, farm.ID, true, ""); err != nil {
		return nil, err
	}
	farm.IsAuthorized = true
	farm.AuthError = ""

	a.logger.Info("farm authorized", slog.Int64("farm_id", farm.ID))
	return farm, nil
}
