// Package http provides HTTP middleware and handlers for API client authentication.
package http

import (
	"context"

	authDomain "github.com/allisson/farmaggregator/internal/auth/domain"
	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
)

type clientKey struct{}

type grantKey struct{}

// WithClient stores an authenticated client in the context.
func WithClient(ctx context.Context, client *authDomain.Client) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}

// GetClient retrieves the authenticated client from the context.
// Returns (nil, false) when no client was set.
func GetClient(ctx context.Context) (*authDomain.Client, bool) {
	client, ok := ctx.Value(clientKey{}).(*authDomain.Client)
	return client, ok
}

// WithGrant stores the farm access grant of the authenticated caller in the context.
func WithGrant(ctx context.Context, grant farmDomain.AccessGrant) context.Context {
	return context.WithValue(ctx, grantKey{}, grant)
}

// GetGrant retrieves the caller's farm access grant.
// A context without a grant yields NoGrant, which denies every farm.
func GetGrant(ctx context.Context) farmDomain.AccessGrant {
	grant, ok := ctx.Value(grantKey{}).(farmDomain.AccessGrant)
	if !ok {
		return farmDomain.NoGrant()
	}
	return grant
}
