// Package dto provides data transfer objects for the farm HTTP endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
	customValidation "github.com/allisson/farmaggregator/internal/validation"
)

const defaultGrantType = "authorization_code"

// ListFarmsQuery holds the optional filters of GET /v1/farms.
// FarmIDs stays nil when no farm_id parameter was sent.
type ListFarmsQuery struct {
	FarmURL *string `form:"farm_url"`
	FarmIDs []int64 `form:"farm_id"`
	Active  *bool   `form:"active"`
}

// Validate checks if the list query is valid.
func (q *ListFarmsQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.FarmURL, validation.NilOrNotEmpty, customValidation.FarmURL),
		validation.Field(&q.FarmIDs, validation.Each(customValidation.PositiveID)),
	)
}

// ActiveOnly defaults to true when the active parameter is absent.
func (q *ListFarmsQuery) ActiveOnly() bool {
	if q.Active == nil {
		return true
	}
	return *q.Active
}

// AuthorizeFarmRequest carries the authorization-code redirect values for a farm.
type AuthorizeFarmRequest struct {
	Code         string `json:"code"`
	State        string `json:"state"`
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"` //nolint:gosec // forwarded to the farm, never stored
	RedirectURI  string `json:"redirect_uri"`
}

// Validate checks if the authorize request is valid.
func (r *AuthorizeFarmRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Code, validation.Required, customValidation.NotBlank),
		validation.Field(&r.State, validation.Required, customValidation.NotBlank),
		validation.Field(&r.ClientID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.GrantType, customValidation.NoWhitespace),
		validation.Field(&r.RedirectURI, customValidation.RedirectURI),
	)
}

// ToAuthParams maps the request to domain parameters, defaulting the grant type.
func (r *AuthorizeFarmRequest) ToAuthParams() farmDomain.AuthParams {
	grantType := r.GrantType
	if grantType == "" {
		grantType = defaultGrantType
	}
	return farmDomain.AuthParams{
		Code:         r.Code,
		State:        r.State,
		GrantType:    grantType,
		ClientID:     r.ClientID,
		ClientSecret: r.ClientSecret,
		RedirectURI:  r.RedirectURI,
	}
}
