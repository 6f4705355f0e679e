package domain

import "time"

// Token is the OAuth2 credential pair owned by exactly one Farm.
// ExpiresAt is always populated; tokens are replaced wholesale, never patched.
type Token struct {
	ID           int64
	FarmID       int64
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	ExpiresAt    time.Time
}

// IsExpired reports whether the access token is past its expiry instant.
func (t *Token) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// AuthParams carries the values returned to the aggregator at the end of a farm's
// authorization-code redirect. RedirectURI and ClientSecret are optional.
type AuthParams struct {
	Code         string
	State        string
	GrantType    string
	ClientID     string
	ClientSecret string
	RedirectURI  string
}
