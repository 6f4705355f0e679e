// Package mocks provides mock implementations of the farm use case interfaces for testing.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
	farmService "github.com/allisson/farmaggregator/internal/farm/service"
)

// MockFarmRepository is a mock implementation of FarmRepository.
type MockFarmRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockFarmRepository) Create(ctx context.Context, farm *farmDomain.Farm) error {
	args := m.Called(ctx, farm)
	return args.Error(0)
}

// GetByURL mocks the GetByURL method.
func (m *MockFarmRepository) GetByURL(ctx context.Context, url string, activeOnly bool) (*farmDomain.Farm, error) {
	args := m.Called(ctx, url, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*farmDomain.Farm), args.Error(1)
}

// GetByID mocks the GetByID method.
func (m *MockFarmRepository) GetByID(ctx context.Context, id int64) (*farmDomain.Farm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*farmDomain.Farm), args.Error(1)
}

// GetByMultiID mocks the GetByMultiID method.
func (m *MockFarmRepository) GetByMultiID(
	ctx context.Context,
	ids []int64,
	activeOnly bool,
) ([]*farmDomain.Farm, error) {
	args := m.Called(ctx, ids, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*farmDomain.Farm), args.Error(1)
}

// GetMulti mocks the GetMulti method.
func (m *MockFarmRepository) GetMulti(ctx context.Context, activeOnly bool) ([]*farmDomain.Farm, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*farmDomain.Farm), args.Error(1)
}

// UpdateLastAccessed mocks the UpdateLastAccessed method.
func (m *MockFarmRepository) UpdateLastAccessed(ctx context.Context, id int64, lastAccessed time.Time) error {
	args := m.Called(ctx, id, lastAccessed)
	return args.Error(0)
}

// UpdateIsAuthorized mocks the UpdateIsAuthorized method.
func (m *MockFarmRepository) UpdateIsAuthorized(
	ctx context.Context,
	id int64,
	isAuthorized bool,
	authError string,
) error {
	args := m.Called(ctx, id, isAuthorized, authError)
	return args.Error(0)
}

// MockFarmTokenRepository is a mock implementation of FarmTokenRepository.
type MockFarmTokenRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockFarmTokenRepository) Create(ctx context.Context, token *farmDomain.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// Update mocks the Update method.
func (m *MockFarmTokenRepository) Update(ctx context.Context, token *farmDomain.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// GetByFarmID mocks the GetByFarmID method.
func (m *MockFarmTokenRepository) GetByFarmID(ctx context.Context, farmID int64) (*farmDomain.Token, error) {
	args := m.Called(ctx, farmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*farmDomain.Token), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStore.
type MockTokenStore struct {
	mock.Mock
}

// Save mocks the Save method.
func (m *MockTokenStore) Save(ctx context.Context, farm *farmDomain.Farm, token *farmDomain.Token) error {
	args := m.Called(ctx, farm, token)
	return args.Error(0)
}

// MockAdminNotifier is a mock implementation of AdminNotifier.
type MockAdminNotifier struct {
	mock.Mock
}

// NotifyAdmins mocks the NotifyAdmins method.
func (m *MockAdminNotifier) NotifyAdmins(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// MockTokenExchanger is a mock implementation of TokenExchanger.
type MockTokenExchanger struct {
	mock.Mock
}

// Exchange mocks the Exchange method.
func (m *MockTokenExchanger) Exchange(
	ctx context.Context,
	farmURL string,
	params farmDomain.AuthParams,
) (*farmDomain.Token, error) {
	args := m.Called(ctx, farmURL, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*farmDomain.Token), args.Error(1)
}

// MockFarmResolver is a mock implementation of FarmResolver.
type MockFarmResolver struct {
	mock.Mock
}

// ResolveByURL mocks the ResolveByURL method.
func (m *MockFarmResolver) ResolveByURL(
	ctx context.Context,
	url *string,
	grant farmDomain.AccessGrant,
	activeOnly bool,
) (*farmDomain.Farm, error) {
	args := m.Called(ctx, url, grant, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*farmDomain.Farm), args.Error(1)
}

// ResolveByIDList mocks the ResolveByIDList method.
func (m *MockFarmResolver) ResolveByIDList(
	ctx context.Context,
	ids []int64,
	grant farmDomain.AccessGrant,
	activeOnly bool,
) ([]*farmDomain.Farm, error) {
	args := m.Called(ctx, ids, grant, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*farmDomain.Farm), args.Error(1)
}

// ResolveCombined mocks the ResolveCombined method.
func (m *MockFarmResolver) ResolveCombined(
	ctx context.Context,
	url *string,
	ids []int64,
	grant farmDomain.AccessGrant,
	activeOnly bool,
) ([]*farmDomain.Farm, error) {
	args := m.Called(ctx, url, ids, grant, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*farmDomain.Farm), args.Error(1)
}

// ResolveByID mocks the ResolveByID method.
func (m *MockFarmResolver) ResolveByID(
	ctx context.Context,
	id int64,
	grant farmDomain.AccessGrant,
) (*farmDomain.Farm, error) {
	args := m.Called(ctx, id, grant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*farmDomain.Farm), args.Error(1)
}

// MockClientFactory is a mock implementation of ClientFactory.
type MockClientFactory struct {
	mock.Mock
}

// BuildClient mocks the BuildClient method.
func (m *MockClientFactory) BuildClient(
	ctx context.Context,
	farm *farmDomain.Farm,
) (*farmService.FarmClient, error) {
	args := m.Called(ctx, farm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*farmService.FarmClient), args.Error(1)
}

// MockAuthorizationUseCase is a mock implementation of AuthorizationUseCase.
type MockAuthorizationUseCase struct {
	mock.Mock
}

// Authorize mocks the Authorize method.
func (m *MockAuthorizationUseCase) Authorize(
	ctx context.Context,
	farmID int64,
	grant farmDomain.AccessGrant,
	params farmDomain.AuthParams,
) (*farmDomain.Farm, error) {
	args := m.Called(ctx, farmID, grant, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*farmDomain.Farm), args.Error(1)
}

// MockFarmRegistry is a mock implementation of FarmRegistry.
type MockFarmRegistry struct {
	mock.Mock
}

// Register mocks the Register method.
func (m *MockFarmRegistry) Register(
	ctx context.Context,
	input *farmDomain.RegisterFarmInput,
) (*farmDomain.Farm, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*farmDomain.Farm), args.Error(1)
}

// CheckAll mocks the CheckAll method.
func (m *MockFarmRegistry) CheckAll(ctx context.Context) ([]farmDomain.CheckResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]farmDomain.CheckResult), args.Error(1)
}
