package domain

import (
	"fmt"

	apperrors "github.com/allisson/farmaggregator/internal/errors"
)

// Farm access and authorization errors.
var (
	// ErrFarmNotFound indicates the requested farm(s) do not exist or are inactive.
	ErrFarmNotFound = apperrors.Wrap(apperrors.ErrNotFound, "farm does not exist")

	// ErrFarmForbidden indicates the caller's grant does not cover a requested farm.
	ErrFarmForbidden = apperrors.Wrap(apperrors.ErrForbidden, "not enough permissions to access this farm")

	// ErrFarmTokenNotFound indicates the farm has no stored OAuth token.
	ErrFarmTokenNotFound = apperrors.Wrap(apperrors.ErrNotFound, "farm token not found")

	// ErrExchangeFailed indicates the farm refused to trade an authorization code for a token.
	ErrExchangeFailed = apperrors.Wrap(apperrors.ErrBadRequest, "could not retrieve an access token")

	// ErrFarmAlreadyExists indicates a farm is already registered at the given URL.
	ErrFarmAlreadyExists = apperrors.Wrap(apperrors.ErrConflict, "farm already registered at this url")

	// ErrInsecureTransport indicates a farm URL uses plain HTTP while insecure transport is disabled.
	ErrInsecureTransport = apperrors.New("oauth over insecure transport is not allowed")
)

// ClientError reports that an authenticated client could not be built for a farm.
// The farm has already been marked unauthorized with Message when this is returned.
type ClientError struct {
	FarmID  int64
	Message string
	Err     error
}

// NewClientError wraps the cause of a failed client construction.
func NewClientError(farmID int64, err error) *ClientError {
	return &ClientError{FarmID: farmID, Message: err.Error(), Err: err}
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("cannot authenticate client with farm server id %d: %s", e.FarmID, e.Message)
}

// Unwrap exposes both the original cause and the upstream sentinel.
func (e *ClientError) Unwrap() []error {
	return []error{e.Err, apperrors.ErrUpstream}
}
