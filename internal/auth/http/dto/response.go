package dto

import "time"

// IssueTokenResponse is returned once per issued token; the plain token is never stored.
type IssueTokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}
