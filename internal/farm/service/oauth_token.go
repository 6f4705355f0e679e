// Package service provides the OAuth2 primitives used to talk to farm servers: the
// authorization-code exchange, a token source that persists refreshed tokens and the
// authenticated client handle.
package service

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
)

// ToOAuth2Token converts a stored farm token into an oauth2.Token.
func ToOAuth2Token(t *farmDomain.Token) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.ExpiresAt,
	}
}

// FromOAuth2Token converts an oauth2.Token into a farm token. The expiry comes from an
// explicit expires_at field when the server sent one, otherwise from the expiry oauth2
// derived from expires_in. ok is false when neither is available. fallbackScope is used
// when the response carries no scope.
func FromOAuth2Token(tok *oauth2.Token, fallbackScope string) (token *farmDomain.Token, ok bool) {
	expiresAt, ok := expiryOf(tok)

	scope := fallbackScope
	if s, isString := tok.Extra("scope").(string); isString && s != "" {
		scope = s
	}

	return &farmDomain.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Scope:        scope,
		ExpiresAt:    expiresAt.UTC(),
	}, ok
}

func expiryOf(tok *oauth2.Token) (time.Time, bool) {
	if expiresAt, ok := parseExpiresAt(tok.Extra("expires_at")); ok {
		return expiresAt, true
	}
	if !tok.Expiry.IsZero() {
		return tok.Expiry, true
	}
	return time.Time{}, false
}

// parseExpiresAt accepts unix seconds (integer or fractional, as a number or a string)
// and RFC 3339 timestamps.
func parseExpiresAt(v any) (time.Time, bool) {
	switch value := v.(type) {
	case float64:
		return unixSeconds(value)
	case json.Number:
		f, err := value.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return unixSeconds(f)
	case string:
		if value == "" {
			return time.Time{}, false
		}
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return unixSeconds(f)
		}
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func unixSeconds(f float64) (time.Time, bool) {
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))), true
}
