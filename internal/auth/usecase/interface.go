// Package usecase implements client management and bearer token authentication.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/farmaggregator/internal/auth/domain"
)

// ClientRepository defines persistence operations for API clients.
// Implementations must support transaction-aware operations via context propagation.
type ClientRepository interface {
	Create(ctx context.Context, client *authDomain.Client) error

	// Update replaces the mutable fields of an existing client.
	Update(ctx context.Context, client *authDomain.Client) error

	// Get retrieves a client by ID. Returns ErrClientNotFound if not found.
	Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error)
}

// TokenRepository defines persistence operations for bearer tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *authDomain.Token) error

	// GetByTokenHash returns the token with the given hash. Returns ErrTokenNotFound if
	// none exists.
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error)

	// CountExpired counts tokens that expired before the given instant.
	CountExpired(ctx context.Context, before time.Time) (int64, error)

	// DeleteExpired removes tokens that expired before the given instant.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// ClientUseCase manages the lifecycle of API clients.
type ClientUseCase interface {
	// Create provisions a client with a generated secret. The plain secret is returned
	// once and only its hash is stored.
	Create(ctx context.Context, input *authDomain.CreateClientInput) (*authDomain.CreateClientOutput, error)

	// Update changes a client's name, active flag and farm access. Returns
	// ErrClientNotFound if the client doesn't exist.
	Update(ctx context.Context, clientID uuid.UUID, input *authDomain.UpdateClientInput) error

	Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error)

	// Delete deactivates the client. The record is kept.
	Delete(ctx context.Context, clientID uuid.UUID) error
}

// TokenUseCase issues and validates bearer tokens.
type TokenUseCase interface {
	// Issue verifies client credentials and returns a new bearer token.
	Issue(ctx context.Context, input *authDomain.IssueTokenInput) (*authDomain.IssueTokenOutput, error)

	// Authenticate resolves a token hash to its active client.
	Authenticate(ctx context.Context, tokenHash string) (*authDomain.Client, error)

	// CleanupExpired deletes tokens that expired more than days ago, or only counts them
	// when dryRun is set.
	CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error)
}
