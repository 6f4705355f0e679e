// Package domain defines API client authentication models.
//
// Callers authenticate as clients with a secret and receive short-lived bearer tokens. Each
// client carries the farm access it was provisioned with, expressed as an AccessGrant.
package domain

import (
	"time"

	"github.com/google/uuid"

	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
)

// Client represents an API caller of the aggregator.
type Client struct {
	ID       uuid.UUID // Unique identifier (UUIDv7)
	Secret   string    //nolint:gosec // hashed client secret (not plaintext)
	Name     string
	IsActive bool

	// AllFarms grants access to every farm. When false, FarmIDs lists the reachable
	// farms; a nil FarmIDs means no default access at all.
	AllFarms bool
	FarmIDs  []int64

	CreatedAt time.Time
}

// Grant returns the farm access this client was provisioned with.
func (c *Client) Grant() farmDomain.AccessGrant {
	switch {
	case c.AllFarms:
		return farmDomain.AllFarmsGrant()
	case c.FarmIDs != nil:
		return farmDomain.FarmListGrant(c.FarmIDs...)
	default:
		return farmDomain.NoGrant()
	}
}

// CreateClientInput contains the parameters for creating a new client.
// The client secret is generated and cannot be specified by the caller.
type CreateClientInput struct {
	Name     string
	IsActive bool
	AllFarms bool
	FarmIDs  []int64
}

// CreateClientOutput contains the result of creating a new client.
// SECURITY: PlainSecret is only returned once and is never retrievable again.
type CreateClientOutput struct {
	ID          uuid.UUID
	PlainSecret string
}

// UpdateClientInput contains the mutable fields of an existing client.
type UpdateClientInput struct {
	Name     string
	IsActive bool
	AllFarms bool
	FarmIDs  []int64
}
