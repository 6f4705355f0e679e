package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
)

// mockTokenSaver is a mock implementation of TokenSaver for testing.
type mockTokenSaver struct {
	mock.Mock
}

func (m *mockTokenSaver) Save(ctx context.Context, farm *farmDomain.Farm, token *farmDomain.Token) error {
	args := m.Called(ctx, farm, token)
	return args.Error(0)
}

// sequenceSource yields its tokens in order, repeating the last one.
type sequenceSource struct {
	tokens []*oauth2.Token
	err    error
}

func (s *sequenceSource) Token() (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	tok := s.tokens[0]
	if len(s.tokens) > 1 {
		s.tokens = s.tokens[1:]
	}
	return tok, nil
}

func TestPersistingTokenSource_Token(t *testing.T) {
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour).UTC()

	t.Run("UnchangedToken_NotSaved", func(t *testing.T) {
		current := &oauth2.Token{AccessToken: "old", Expiry: expiry}
		saver := &mockTokenSaver{}
		farm := &farmDomain.Farm{ID: 1}

		ts := NewPersistingTokenSource(ctx, &sequenceSource{tokens: []*oauth2.Token{current}}, current, farm, saver, discardLogger())

		tok, err := ts.Token()
		require.NoError(t, err)
		assert.Equal(t, "old", tok.AccessToken)
		saver.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RefreshedToken_SavedOnce", func(t *testing.T) {
		current := &oauth2.Token{AccessToken: "old", Expiry: time.Now().Add(-time.Minute)}
		refreshed := &oauth2.Token{AccessToken: "new", RefreshToken: "r2", TokenType: "Bearer", Expiry: expiry}
		saver := &mockTokenSaver{}
		farm := &farmDomain.Farm{ID: 1, Token: &farmDomain.Token{ID: 5, FarmID: 1, Scope: "farm_manager"}}

		saver.On("Save", ctx, farm, mock.MatchedBy(func(token *farmDomain.Token) bool {
			return token.AccessToken == "new" &&
				token.RefreshToken == "r2" &&
				token.Scope == "farm_manager" &&
				token.ExpiresAt.Equal(expiry)
		})).Return(nil).Once()

		ts := NewPersistingTokenSource(ctx, &sequenceSource{tokens: []*oauth2.Token{refreshed}}, current, farm, saver, discardLogger())

		for range 3 {
			tok, err := ts.Token()
			require.NoError(t, err)
			assert.Equal(t, "new", tok.AccessToken)
		}
		saver.AssertExpectations(t)
		saver.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("SaveError_TokenStillReturned", func(t *testing.T) {
		refreshed := &oauth2.Token{AccessToken: "new", Expiry: expiry}
		saver := &mockTokenSaver{}
		farm := &farmDomain.Farm{ID: 1}

		saver.On("Save", ctx, farm, mock.Anything).Return(errors.New("db down")).Once()

		ts := NewPersistingTokenSource(ctx, &sequenceSource{tokens: []*oauth2.Token{refreshed}}, nil, farm, saver, discardLogger())

		tok, err := ts.Token()
		require.NoError(t, err)
		assert.Equal(t, "new", tok.AccessToken)
		saver.AssertExpectations(t)
	})

	t.Run("MissingExpiry_StoredAsExpired", func(t *testing.T) {
		refreshed := &oauth2.Token{AccessToken: "new"}
		saver := &mockTokenSaver{}
		farm := &farmDomain.Farm{ID: 1}

		before := time.Now()
		saver.On("Save", ctx, farm, mock.MatchedBy(func(token *farmDomain.Token) bool {
			return !token.ExpiresAt.Before(before.UTC().Add(-time.Second)) &&
				token.ExpiresAt.Before(time.Now().Add(time.Second))
		})).Return(nil).Once()

		ts := NewPersistingTokenSource(ctx, &sequenceSource{tokens: []*oauth2.Token{refreshed}}, nil, farm, saver, discardLogger())

		_, err := ts.Token()
		require.NoError(t, err)
		saver.AssertExpectations(t)
	})

	t.Run("BaseError", func(t *testing.T) {
		baseErr := errors.New("invalid_grant")
		saver := &mockTokenSaver{}

		ts := NewPersistingTokenSource(ctx, &sequenceSource{err: baseErr}, nil, &farmDomain.Farm{ID: 1}, saver, discardLogger())

		_, err := ts.Token()
		assert.ErrorIs(t, err, baseErr)
		saver.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})
}
