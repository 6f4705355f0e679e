package service

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
)

// TokenExchanger performs the one-shot authorization-code exchange against a farm.
type TokenExchanger interface {
	// Exchange trades the authorization code in params for a token. Any rejection by the
	// farm returns ErrExchangeFailed; the exchange is never retried.
	Exchange(ctx context.Context, farmURL string, params farmDomain.AuthParams) (*farmDomain.Token, error)
}

type tokenExchanger struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTokenExchanger creates a TokenExchanger that posts to <farm>/oauth2/token.
func NewTokenExchanger(httpClient *http.Client, logger *slog.Logger) TokenExchanger {
	return &tokenExchanger{
		httpClient: httpClient,
		logger:     logger,
	}
}

func (e *tokenExchanger) Exchange(
	ctx context.Context,
	farmURL string,
	params farmDomain.AuthParams,
) (*farmDomain.Token, error) {
	e.logger.Debug("completing authorization code flow", slog.String("farm_url", farmURL))

	redirectURI := farmDomain.DefaultRedirectURI(farmURL)
	if params.RedirectURI != "" {
		redirectURI = params.RedirectURI
	}

	cfg := &oauth2.Config{
		ClientID:     params.ClientID,
		ClientSecret: params.ClientSecret,
		RedirectURL:  redirectURI,
		Endpoint: oauth2.Endpoint{
			TokenURL:  farmDomain.TokenURL(farmURL),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	opts := []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("state", params.State)}
	if params.GrantType != "" {
		opts = append(opts, oauth2.SetAuthURLParam("grant_type", params.GrantType))
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)

	tok, err := cfg.Exchange(ctx, params.Code, opts...)
	if err != nil {
		e.logger.Error("could not complete oauth authorization flow",
			slog.String("farm_url", farmURL),
			slog.Any("error", err))
		return nil, farmDomain.ErrExchangeFailed
	}

	token, ok := FromOAuth2Token(tok, "")
	if !ok {
		e.logger.Error("token response has neither expires_at nor expires_in",
			slog.String("farm_url", farmURL))
		return nil, farmDomain.ErrExchangeFailed
	}

	e.logger.Debug("successfully retrieved access token", slog.String("farm_url", farmURL))
	return token, nil
}
