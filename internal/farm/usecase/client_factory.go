package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/allisson/farmaggregator/internal/config"
	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
	farmService "github.com/allisson/farmaggregator/internal/farm/service"
)

// clientFactory implements ClientFactory.
type clientFactory struct {
	config     *config.Config
	farmRepo   FarmRepository
	tokenRepo  FarmTokenRepository
	tokenStore TokenStore
	notifier   AdminNotifier
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClientFactory creates a ClientFactory. The OAuth client credentials and the
// insecure-transport and alerting flags are read from cfg.
func NewClientFactory(
	cfg *config.Config,
	farmRepo FarmRepository,
	tokenRepo FarmTokenRepository,
	tokenStore TokenStore,
	notifier AdminNotifier,
	httpClient *http.Client,
	logger *slog.Logger,
) ClientFactory {
	return &clientFactory{
		config:     cfg,
		farmRepo:   farmRepo,
		tokenRepo:  tokenRepo,
		tokenStore: tokenStore,
		notifier:   notifier,
		httpClient: httpClient,
		logger:     logger,
	}
}

// BuildClient builds an authenticated client for the farm.
//
// On success the farm is marked authorized and its last-accessed time is stamped. On any
// failure the farm is marked unauthorized with the error text, operators are alerted when
// AGGREGATOR_ALERT_ALL_ERRORS is set, and a *ClientError wrapping the cause is returned.
func (f *clientFactory) BuildClient(
	ctx context.Context,
	farm *farmDomain.Farm,
) (*farmService.FarmClient, error) {
	client, err := f.connect(ctx, farm)
	if err == nil {
		err = f.markAuthorized(ctx, farm)
	}
	if err != nil {
		return nil, f.fail(ctx, farm, err)
	}

	return client, nil
}

func (f *clientFactory) connect(
	ctx context.Context,
	farm *farmDomain.Farm,
) (*farmService.FarmClient, error) {
	if !f.config.OAuthInsecureTransport && !strings.HasPrefix(strings.ToLower(farm.URL), "https://") {
		return nil, farmDomain.ErrInsecureTransport
	}

	token, err := f.tokenRepo.GetByFarmID(ctx, farm.ID)
	if err != nil {
		return nil, err
	}
	farm.Token = token

	oauthConfig := &oauth2.Config{
		ClientID:     f.config.OAuthClientID,
		ClientSecret: f.config.OAuthClientSecret,
		Scopes:       farm.Scopes(),
		Endpoint: oauth2.Endpoint{
			AuthURL:   farmDomain.AuthorizeURL(farm.URL),
			TokenURL:  farm.TokenURL(),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)

	current := farmService.ToOAuth2Token(token)
	ts := farmService.NewPersistingTokenSource(
		ctx,
		oauthConfig.TokenSource(ctx, current),
		current,
		farm,
		f.tokenStore,
		f.logger,
	)

	// Authenticate up front so an unusable token surfaces here, not on first use.
	if _, err := ts.Token(); err != nil {
		return nil, err
	}

	return farmService.NewFarmClient(ctx, farm.URL, ts), nil
}

func (f *clientFactory) markAuthorized(ctx context.Context, farm *farmDomain.Farm) error {
	now := time.Now().UTC()

	if err := f.farmRepo.UpdateLastAccessed(ctx, farm.ID, now); err != nil {
		return err
	}
	if err := f.farmRepo.UpdateIsAuthorized(ctx, farm.ID, true, ""); err != nil {
		return err
	}

	farm.LastAccessed = &now
	farm.IsAuthorized = true
	farm.AuthError = ""
	return nil
}

func (f *clientFactory) fail(ctx context.Context, farm *farmDomain.Farm, cause error) error {
	clientErr := farmDomain.NewClientError(farm.ID, cause)
	message := fmt.Sprintf("Cannot authenticate client with farm server id: %d - %s", farm.ID, cause)

	if f.config.AlertAllErrors && f.notifier != nil {
		if err := f.notifier.NotifyAdmins(ctx, message); err != nil {
			f.logger.Error("failed to alert admins",
				slog.Int64("farm_id", farm.ID),
				slog.Any("error", err))
		}
	}

	f.logger.Error("cannot authenticate client with farm server",
		slog.Int64("farm_id", farm.ID),
		slog.String("farm_url", farm.URL),
		slog.Any("error", cause))

	farm.IsAuthorized = false
	farm.AuthError = clientErr.Message
	if err := f.farmRepo.UpdateIsAuthorized(ctx, farm.ID, false, clientErr.Message); err != nil {
		f.logger.Error("failed to record farm authorization failure",
			slog.Int64("farm_id", farm.ID),
			slog.Any("error", err))
	}

	return clientErr
}
