package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/farmaggregator/internal/auth/domain"
	"github.com/allisson/farmaggregator/internal/auth/http/dto"
	authMocks "github.com/allisson/farmaggregator/internal/auth/usecase/mocks"
)

func postToken(t *testing.T, handler *TokenHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/token", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.IssueTokenHandler(c)
	return w
}

func TestTokenHandler_IssueTokenHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		tokenUseCase := &authMocks.MockTokenUseCase{}
		handler := NewTokenHandler(tokenUseCase, discardLogger())
		clientID := uuid.Must(uuid.NewV7())
		expiresAt := time.Now().UTC().Add(time.Hour)

		tokenUseCase.On("Issue", mock.Anything, &authDomain.IssueTokenInput{
			ClientID:     clientID,
			ClientSecret: "secret",
		}).Return(&authDomain.IssueTokenOutput{PlainToken: "tok", ExpiresAt: expiresAt}, nil).Once()

		w := postToken(t, handler, `{"client_id":"`+clientID.String()+`","client_secret":"secret"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		var response dto.IssueTokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "tok", response.Token)
		assert.Equal(t, "Bearer", response.TokenType)
		assert.Equal(t, expiresAt.Unix(), response.ExpiresAt.Unix())
		tokenUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler := NewTokenHandler(&authMocks.MockTokenUseCase{}, discardLogger())

		w := postToken(t, handler, `{"client_id":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_MissingSecret", func(t *testing.T) {
		handler := NewTokenHandler(&authMocks.MockTokenUseCase{}, discardLogger())

		w := postToken(t, handler, `{"client_id":"`+uuid.NewString()+`"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_InvalidClientID", func(t *testing.T) {
		handler := NewTokenHandler(&authMocks.MockTokenUseCase{}, discardLogger())

		w := postToken(t, handler, `{"client_id":"not-a-uuid","client_secret":"secret"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "must be a valid UUID")
	})

	t.Run("Error_InvalidCredentials", func(t *testing.T) {
		tokenUseCase := &authMocks.MockTokenUseCase{}
		handler := NewTokenHandler(tokenUseCase, discardLogger())

		tokenUseCase.On("Issue", mock.Anything, mock.Anything).Return(nil, authDomain.ErrInvalidCredentials)

		w := postToken(t, handler, `{"client_id":"`+uuid.NewString()+`","client_secret":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
