package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"

	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
)

// TokenSaver persists a token for a farm. The client factory injects the farm
// TokenStore here so refreshed tokens survive the request that obtained them.
type TokenSaver interface {
	Save(ctx context.Context, farm *farmDomain.Farm, token *farmDomain.Token) error
}

// persistingTokenSource wraps a refreshing oauth2.TokenSource and hands every newly
// issued token to a TokenSaver. A failed save is logged only: the refreshed token is
// already valid in memory and the caller's request proceeds with it.
type persistingTokenSource struct {
	ctx    context.Context
	base   oauth2.TokenSource
	farm   *farmDomain.Farm
	saver  TokenSaver
	logger *slog.Logger

	mu   sync.Mutex
	last string
}

// NewPersistingTokenSource returns a TokenSource that persists tokens base issues after
// current. The stored scope is carried over when a refresh response omits it.
func NewPersistingTokenSource(
	ctx context.Context,
	base oauth2.TokenSource,
	current *oauth2.Token,
	farm *farmDomain.Farm,
	saver TokenSaver,
	logger *slog.Logger,
) oauth2.TokenSource {
	s := &persistingTokenSource{
		ctx:    ctx,
		base:   base,
		farm:   farm,
		saver:  saver,
		logger: logger,
	}
	if current != nil {
		s.last = current.AccessToken
	}
	return s
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken == s.last {
		return tok, nil
	}
	s.last = tok.AccessToken

	fallbackScope := ""
	if s.farm.Token != nil {
		fallbackScope = s.farm.Token.Scope
	}

	token, ok := FromOAuth2Token(tok, fallbackScope)
	if !ok {
		// No expiry in the refresh response: store it as already expired so the next
		// client build refreshes again instead of trusting it forever.
		token.ExpiresAt = time.Now().UTC()
	}

	if err := s.saver.Save(s.ctx, s.farm, token); err != nil {
		s.logger.Error("failed to persist refreshed farm token",
			slog.Int64("farm_id", s.farm.ID),
			slog.Any("error", err))
	}

	return tok, nil
}
