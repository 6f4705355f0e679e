package dto

import (
	"time"

	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
)

// FarmResponse represents a farm in API responses. Credentials and tokens are never exposed.
type FarmResponse struct {
	ID           int64      `json:"id"`
	URL          string     `json:"url"`
	FarmName     string     `json:"farm_name"`
	IsAuthorized bool       `json:"is_authorized"`
	AuthError    string     `json:"auth_error,omitempty"`
	Scope        string     `json:"scope,omitempty"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`
	Active       bool       `json:"active"`
	HasToken     bool       `json:"has_token"`
}

// MapFarmToResponse converts a domain farm to an API response.
func MapFarmToResponse(farm *farmDomain.Farm) FarmResponse {
	return FarmResponse{
		ID:           farm.ID,
		URL:          farm.URL,
		FarmName:     farm.FarmName,
		IsAuthorized: farm.IsAuthorized,
		AuthError:    farm.AuthError,
		Scope:        farm.Scope,
		LastAccessed: farm.LastAccessed,
		Active:       farm.Active,
		HasToken:     farm.Token != nil,
	}
}

// ListFarmsResponse wraps a list of farms.
type ListFarmsResponse struct {
	Data []FarmResponse `json:"data"`
}

// MapFarmsToListResponse converts domain farms to a list response; the data array is never null.
func MapFarmsToListResponse(farms []*farmDomain.Farm) ListFarmsResponse {
	data := make([]FarmResponse, 0, len(farms))
	for _, farm := range farms {
		data = append(data, MapFarmToResponse(farm))
	}
	return ListFarmsResponse{Data: data}
}

// FarmInfoResponse carries the farm's remote API root document.
type FarmInfoResponse struct {
	FarmID int64          `json:"farm_id"`
	URL    string         `json:"url"`
	Info   map[string]any `json:"info"`
}
