// Package usecase implements farm access resolution and the OAuth token lifecycle:
// deciding which farms a caller may act on, persisting farm tokens and building
// authenticated farm clients.
package usecase

import (
	"context"
	"time"

	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
	farmService "github.com/allisson/farmaggregator/internal/farm/service"
)

// FarmRepository is the read side of the farm inventory plus the two health mutations
// the client factory performs. Implementations must support transaction-aware
// operations via context propagation.
type FarmRepository interface {
	// Create inserts a new farm and sets its ID.
	Create(ctx context.Context, farm *farmDomain.Farm) error

	// GetByURL returns the farm registered at url. Returns ErrFarmNotFound if absent,
	// or if activeOnly is set and the farm is inactive.
	GetByURL(ctx context.Context, url string, activeOnly bool) (*farmDomain.Farm, error)

	// GetByID returns the farm with the given id. Returns ErrFarmNotFound if absent.
	GetByID(ctx context.Context, id int64) (*farmDomain.Farm, error)

	// GetByMultiID returns the farms whose ids are in ids, ordered by id.
	GetByMultiID(ctx context.Context, ids []int64, activeOnly bool) ([]*farmDomain.Farm, error)

	// GetMulti returns every farm, ordered by id.
	GetMulti(ctx context.Context, activeOnly bool) ([]*farmDomain.Farm, error)

	UpdateLastAccessed(ctx context.Context, id int64, lastAccessed time.Time) error

	UpdateIsAuthorized(ctx context.Context, id int64, isAuthorized bool, authError string) error
}

// FarmTokenRepository persists the single OAuth token owned by a farm.
type FarmTokenRepository interface {
	// Create inserts the token and sets its ID.
	Create(ctx context.Context, token *farmDomain.Token) error

	// Update replaces every field of the token identified by token.ID.
	Update(ctx context.Context, token *farmDomain.Token) error

	// GetByFarmID returns the farm's token. Returns ErrFarmTokenNotFound if none exists.
	GetByFarmID(ctx context.Context, farmID int64) (*farmDomain.Token, error)
}

// AdminNotifier escalates unrecoverable authorization failures to operators.
type AdminNotifier interface {
	NotifyAdmins(ctx context.Context, message string) error
}

// FarmResolver turns a caller's grant plus optional request filters into the set of
// farms the request is authorized to operate on.
type FarmResolver interface {
	// ResolveByURL returns nil when url is nil. Otherwise it returns the farm at url,
	// ErrFarmNotFound if there is none, or ErrFarmForbidden if the grant does not cover it.
	ResolveByURL(
		ctx context.Context,
		url *string,
		grant farmDomain.AccessGrant,
		activeOnly bool,
	) (*farmDomain.Farm, error)

	// ResolveByIDList resolves an optional list of farm ids. A nil ids slice means no
	// filter was requested, in which case the grant decides the result. A non-nil ids
	// slice is checked against the grant in full before anything is fetched.
	ResolveByIDList(
		ctx context.Context,
		ids []int64,
		grant farmDomain.AccessGrant,
		activeOnly bool,
	) ([]*farmDomain.Farm, error)

	// ResolveCombined resolves both filters. A farm found by URL takes precedence and is
	// returned alone so the same farm is never processed twice.
	ResolveCombined(
		ctx context.Context,
		url *string,
		ids []int64,
		grant farmDomain.AccessGrant,
		activeOnly bool,
	) ([]*farmDomain.Farm, error)

	// ResolveByID checks the grant first and then loads a single farm.
	ResolveByID(ctx context.Context, id int64, grant farmDomain.AccessGrant) (*farmDomain.Farm, error)
}

// TokenStore persists OAuth tokens for farms. Save updates the farm's token in place when
// one exists and creates it otherwise, so a farm never owns more than one token.
type TokenStore interface {
	Save(ctx context.Context, farm *farmDomain.Farm, token *farmDomain.Token) error
}

// ClientFactory builds authenticated clients for farms and records authorization health
// on the farm record. Each call is a single attempt.
type ClientFactory interface {
	BuildClient(ctx context.Context, farm *farmDomain.Farm) (*farmService.FarmClient, error)
}

// AuthorizationUseCase completes a farm's OAuth authorization-code flow.
type AuthorizationUseCase interface {
	// Authorize exchanges the authorization code for a token and stores it on the farm.
	Authorize(
		ctx context.Context,
		farmID int64,
		grant farmDomain.AccessGrant,
		params farmDomain.AuthParams,
	) (*farmDomain.Farm, error)
}

// FarmRegistry manages the farm inventory from operator tooling.
type FarmRegistry interface {
	// Register adds a farm. Returns ErrFarmAlreadyExists when the URL is taken.
	Register(ctx context.Context, input *farmDomain.RegisterFarmInput) (*farmDomain.Farm, error)

	// CheckAll builds a client for every active farm and reports the outcome per farm.
	// Failures are recorded on the farms by the client factory and never abort the run.
	CheckAll(ctx context.Context) ([]farmDomain.CheckResult, error)
}
