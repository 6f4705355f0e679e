package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/farmaggregator/internal/auth/domain"
	authService "github.com/allisson/farmaggregator/internal/auth/service"
	"github.com/allisson/farmaggregator/internal/config"
	apperrors "github.com/allisson/farmaggregator/internal/errors"
)

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	config        *config.Config
	clientRepo    ClientRepository
	tokenRepo     TokenRepository
	secretService authService.SecretService
	tokenService  authService.TokenService
}

// NewTokenUseCase creates a TokenUseCase. Token lifetime comes from cfg.AuthTokenExpiration.
func NewTokenUseCase(
	cfg *config.Config,
	clientRepo ClientRepository,
	tokenRepo TokenRepository,
	secretService authService.SecretService,
	tokenService authService.TokenService,
) TokenUseCase {
	return &tokenUseCase{
		config:        cfg,
		clientRepo:    clientRepo,
		tokenRepo:     tokenRepo,
		secretService: secretService,
		tokenService:  tokenService,
	}
}

// Issue returns ErrInvalidCredentials for both unknown clients and wrong secrets so the
// endpoint cannot be used to enumerate client IDs.
func (t *tokenUseCase) Issue(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	client, err := t.clientRepo.Get(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, authDomain.ErrClientNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !client.IsActive {
		return nil, authDomain.ErrClientInactive
	}

	if !t.secretService.CompareSecret(input.ClientSecret, client.Secret) {
		return nil, authDomain.ErrInvalidCredentials
	}

	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	token := &authDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		ClientID:  client.ID,
		ExpiresAt: now.Add(t.config.AuthTokenExpiration),
		CreatedAt: now,
	}

	if err := t.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &authDomain.IssueTokenOutput{
		PlainToken: plainToken,
		ExpiresAt:  token.ExpiresAt,
	}, nil
}

// Authenticate treats unknown, expired and revoked tokens the same way.
func (t *tokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Client, error) {
	token, err := t.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, authDomain.ErrTokenNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !token.IsUsable(time.Now().UTC()) {
		return nil, authDomain.ErrInvalidCredentials
	}

	client, err := t.clientRepo.Get(ctx, token.ClientID)
	if err != nil {
		if errors.Is(err, authDomain.ErrClientNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !client.IsActive {
		return nil, authDomain.ErrClientInactive
	}

	return client, nil
}

func (t *tokenUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must not be negative")
	}

	before := time.Now().UTC().AddDate(0, 0, -days)
	if dryRun {
		return t.tokenRepo.CountExpired(ctx, before)
	}
	return t.tokenRepo.DeleteExpired(ctx, before)
}
