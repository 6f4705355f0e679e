// Package domain defines the farm aggregation domain: farms, their OAuth tokens and the
// access grants that decide which farms a caller may act on.
package domain

import (
	"strings"
	"time"
)

// Farm is a remotely hosted farm-management server the aggregator can act on.
// A farm owns at most one Token; replacing it is always an update.
type Farm struct {
	ID       int64
	URL      string
	FarmName string

	// Username and Password predate OAuth2 and are kept for legacy farms only.
	Username string
	Password string //nolint:gosec // legacy credential column, never logged

	IsAuthorized bool
	AuthError    string
	Scope        string
	LastAccessed *time.Time
	Active       bool
	CreatedAt    time.Time

	Token *Token
}

// Scopes returns the farm's stored scope as a list, or nil when no scope is stored.
func (f *Farm) Scopes() []string {
	if strings.TrimSpace(f.Scope) == "" {
		return nil
	}
	return strings.Fields(f.Scope)
}

// TokenURL returns the OAuth2 token endpoint of the farm.
func (f *Farm) TokenURL() string {
	return TokenURL(f.URL)
}

// TokenURL returns the OAuth2 token endpoint for a farm base URL.
func TokenURL(farmURL string) string {
	return strings.TrimSuffix(farmURL, "/") + "/oauth2/token"
}

// AuthorizeURL returns the OAuth2 authorization endpoint for a farm base URL.
func AuthorizeURL(farmURL string) string {
	return strings.TrimSuffix(farmURL, "/") + "/oauth2/authorize"
}

// DefaultRedirectURI returns the redirect URI used when the caller does not supply one.
func DefaultRedirectURI(farmURL string) string {
	return strings.TrimSuffix(farmURL, "/") + "/api/authorized"
}
