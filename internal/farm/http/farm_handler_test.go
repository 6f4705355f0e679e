package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	authHTTP "github.com/allisson/farmaggregator/internal/auth/http"
	farmDomain "github.com/allisson/farmaggregator/internal/farm/domain"
	"github.com/allisson/farmaggregator/internal/farm/http/dto"
	farmService "github.com/allisson/farmaggregator/internal/farm/service"
	farmMocks "github.com/allisson/farmaggregator/internal/farm/usecase/mocks"
)

type handlerDeps struct {
	resolver      *farmMocks.MockFarmResolver
	clientFactory *farmMocks.MockClientFactory
	authorization *farmMocks.MockAuthorizationUseCase
}

// newFarmRouter mounts the farm routes behind a stub that stores grant in the request context.
func newFarmRouter(grant farmDomain.AccessGrant) (*gin.Engine, handlerDeps) {
	gin.SetMode(gin.TestMode)

	deps := handlerDeps{
		resolver:      &farmMocks.MockFarmResolver{},
		clientFactory: &farmMocks.MockClientFactory{},
		authorization: &farmMocks.MockAuthorizationUseCase{},
	}
	handler := NewFarmHandler(
		deps.resolver,
		deps.clientFactory,
		deps.authorization,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(authHTTP.WithGrant(c.Request.Context(), grant))
		c.Next()
	})
	router.GET("/v1/farms", handler.ListHandler)
	router.GET("/v1/farms/:id", handler.GetHandler)
	router.POST("/v1/farms/:id/authorize", handler.AuthorizeHandler)
	router.GET("/v1/farms/:id/info", handler.InfoHandler)
	return router, deps
}

func serve(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func TestFarmHandler_ListHandler(t *testing.T) {
	grant := farmDomain.FarmListGrant(1, 2)

	t.Run("Success_NoFilters", func(t *testing.T) {
		router, deps := newFarmRouter(grant)
		farms := []*farmDomain.Farm{
			{ID: 1, URL: "https://one.example.com", FarmName: "One", Active: true},
			{ID: 2, URL: "https://two.example.com", FarmName: "Two", Active: true, Token: &farmDomain.Token{ID: 9}},
		}

		deps.resolver.On("ResolveCombined", mock.Anything, (*string)(nil), ([]int64)(nil), grant, true).
			Return(farms, nil).Once()

		w := serve(router, http.MethodGet, "/v1/farms", "")

		require.Equal(t, http.StatusOK, w.Code)
		var response dto.ListFarmsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 2)
		assert.Equal(t, "One", response.Data[0].FarmName)
		assert.False(t, response.Data[0].HasToken)
		assert.True(t, response.Data[1].HasToken)
		deps.resolver.AssertExpectations(t)
	})

	t.Run("Success_WithFilters", func(t *testing.T) {
		router, deps := newFarmRouter(grant)
		farmURL := "https://one.example.com"

		deps.resolver.On("ResolveCombined", mock.Anything, &farmURL, []int64{1, 2}, grant, false).
			Return([]*farmDomain.Farm{{ID: 1, URL: farmURL}}, nil).Once()

		w := serve(router, http.MethodGet,
			"/v1/farms?farm_url=https://one.example.com&farm_id=1&farm_id=2&active=false", "")

		assert.Equal(t, http.StatusOK, w.Code)
		deps.resolver.AssertExpectations(t)
	})

	t.Run("Success_EmptyListIsArray", func(t *testing.T) {
		router, deps := newFarmRouter(farmDomain.NoGrant())

		deps.resolver.On("ResolveCombined", mock.Anything, mock.Anything, mock.Anything, mock.Anything, true).
			Return([]*farmDomain.Farm{}, nil)

		w := serve(router, http.MethodGet, "/v1/farms", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	})

	t.Run("Error_InvalidFarmID", func(t *testing.T) {
		router, _ := newFarmRouter(grant)

		w := serve(router, http.MethodGet, "/v1/farms?farm_id=abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_NonPositiveFarmID", func(t *testing.T) {
		router, _ := newFarmRouter(grant)

		w := serve(router, http.MethodGet, "/v1/farms?farm_id=0", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_InvalidFarmURL", func(t *testing.T) {
		router, _ := newFarmRouter(grant)

		w := serve(router, http.MethodGet, "/v1/farms?farm_url=not-a-url", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_Forbidden", func(t *testing.T) {
		router, deps := newFarmRouter(grant)

		deps.resolver.On("ResolveCombined", mock.Anything, mock.Anything, []int64{3}, grant, true).
			Return(nil, farmDomain.ErrFarmForbidden)

		w := serve(router, http.MethodGet, "/v1/farms?farm_id=3", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		router, deps := newFarmRouter(farmDomain.AllFarmsGrant())

		deps.resolver.On("ResolveCombined", mock.Anything, mock.Anything, mock.Anything, mock.Anything, true).
			Return(nil, farmDomain.ErrFarmNotFound)

		w := serve(router, http.MethodGet, "/v1/farms?farm_id=42", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFarmHandler_GetHandler(t *testing.T) {
	grant := farmDomain.AllFarmsGrant()

	t.Run("Success", func(t *testing.T) {
		router, deps := newFarmRouter(grant)

		deps.resolver.On("ResolveByID", mock.Anything, int64(5), grant).
			Return(&farmDomain.Farm{ID: 5, FarmName: "Five", Password: "legacy"}, nil).Once()

		w := serve(router, http.MethodGet, "/v1/farms/5", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"farm_name":"Five"`)
		assert.NotContains(t, w.Body.String(), "legacy")
	})

	t.Run("Error_BadID", func(t *testing.T) {
		router, _ := newFarmRouter(grant)

		w := serve(router, http.MethodGet, "/v1/farms/-1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFarmHandler_AuthorizeHandler(t *testing.T) {
	grant := farmDomain.FarmListGrant(5)

	t.Run("Success_DefaultsGrantType", func(t *testing.T) {
		router, deps := newFarmRouter(grant)
		params := farmDomain.AuthParams{
			Code:      "code",
			State:     "state",
			GrantType: "authorization_code",
			ClientID:  "aggregator",
		}

		deps.authorization.On("Authorize", mock.Anything, int64(5), grant, params).
			Return(&farmDomain.Farm{ID: 5, IsAuthorized: true}, nil).Once()

		w := serve(router, http.MethodPost, "/v1/farms/5/authorize",
			`{"code":"code","state":"state","client_id":"aggregator"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"is_authorized":true`)
		deps.authorization.AssertExpectations(t)
	})

	t.Run("Error_ExchangeFailed", func(t *testing.T) {
		router, deps := newFarmRouter(grant)

		deps.authorization.On("Authorize", mock.Anything, int64(5), grant, mock.Anything).
			Return(nil, farmDomain.ErrExchangeFailed)

		w := serve(router, http.MethodPost, "/v1/farms/5/authorize",
			`{"code":"code","state":"state","client_id":"aggregator"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "could not retrieve an access token")
	})

	t.Run("Error_MissingCode", func(t *testing.T) {
		router, deps := newFarmRouter(grant)

		w := serve(router, http.MethodPost, "/v1/farms/5/authorize", `{"state":"state","client_id":"aggregator"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		deps.authorization.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		router, _ := newFarmRouter(grant)

		w := serve(router, http.MethodPost, "/v1/farms/5/authorize", `{"code":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFarmHandler_InfoHandler(t *testing.T) {
	grant := farmDomain.AllFarmsGrant()

	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api" || r.Header.Get("Authorization") != "Bearer access" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"meta":{"farm":{"name":"Remote Farm"}}}`))
		}))
		defer srv.Close()

		router, deps := newFarmRouter(grant)
		farm := &farmDomain.Farm{ID: 7, URL: srv.URL}
		client := farmService.NewFarmClient(
			context.Background(),
			srv.URL,
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "access", TokenType: "Bearer"}),
		)

		deps.resolver.On("ResolveByID", mock.Anything, int64(7), grant).Return(farm, nil)
		deps.clientFactory.On("BuildClient", mock.Anything, farm).Return(client, nil)

		w := serve(router, http.MethodGet, "/v1/farms/7/info", "")

		require.Equal(t, http.StatusOK, w.Code)
		var response dto.FarmInfoResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(7), response.FarmID)
		assert.Equal(t, srv.URL, response.URL)
		assert.Contains(t, response.Info, "meta")
	})

	t.Run("Error_ClientBuildFailed", func(t *testing.T) {
		router, deps := newFarmRouter(grant)
		farm := &farmDomain.Farm{ID: 7, URL: "https://seven.example.com"}

		deps.resolver.On("ResolveByID", mock.Anything, int64(7), grant).Return(farm, nil)
		deps.clientFactory.On("BuildClient", mock.Anything, farm).
			Return(nil, farmDomain.NewClientError(7, errors.New("invalid_grant")))

		w := serve(router, http.MethodGet, "/v1/farms/7/info", "")

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "farm_client_error")
	})

	t.Run("Error_Forbidden", func(t *testing.T) {
		router, deps := newFarmRouter(farmDomain.NoGrant())

		deps.resolver.On("ResolveByID", mock.Anything, int64(7), mock.Anything).
			Return(nil, farmDomain.ErrFarmForbidden)

		w := serve(router, http.MethodGet, "/v1/farms/7/info", "")

		assert.Equal(t, http.StatusForbidden, w.Code)
		deps.clientFactory.AssertNotCalled(t, "BuildClient", mock.Anything, mock.Anything)
	})
}
