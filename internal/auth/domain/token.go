package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is a bearer token issued to a client. Only its SHA-256 hash is stored.
type Token struct {
	ID        uuid.UUID
	TokenHash string
	ClientID  uuid.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// IsUsable reports whether the token is neither expired nor revoked at now.
func (t *Token) IsUsable(now time.Time) bool {
	return t.RevokedAt == nil && t.ExpiresAt.After(now)
}

// IssueTokenInput carries client credentials presented to the token endpoint.
type IssueTokenInput struct {
	ClientID     uuid.UUID
	ClientSecret string //nolint:gosec // plaintext only in transit, compared against the stored hash
}

// IssueTokenOutput is the result of a successful token issuance.
// SECURITY: PlainToken is only returned once.
type IssueTokenOutput struct {
	PlainToken string
	ExpiresAt  time.Time
}
