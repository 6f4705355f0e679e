package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	authDomain "github.com/allisson/farmaggregator/internal/auth/domain"
)

func newLimitedRouter(t *testing.T, client *authDomain.Client, rps float64, burst int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if client != nil {
			c.Request = c.Request.WithContext(WithClient(c.Request.Context(), client))
		}
		c.Next()
	})
	router.Use(RateLimitMiddleware(ctx, rps, burst, discardLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("AllowsRequestsWithinLimit", func(t *testing.T) {
		client := &authDomain.Client{ID: uuid.Must(uuid.NewV7())}
		router := newLimitedRouter(t, client, 10, 20)

		for i := 0; i < 5; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("BlocksRequestsExceedingBurst", func(t *testing.T) {
		client := &authDomain.Client{ID: uuid.Must(uuid.NewV7())}
		router := newLimitedRouter(t, client, 0.1, 2)

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
	})

	t.Run("RequiresAuthenticatedClient", func(t *testing.T) {
		router := newLimitedRouter(t, nil, 10, 20)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestTokenRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := gin.New()
	router.Use(TokenRateLimitMiddleware(ctx, 0.1, 1, discardLogger()))
	router.POST("/v1/token", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	request := func(ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/token", nil)
		req.RemoteAddr = ip + ":1234"
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, request("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1"))
	assert.Equal(t, http.StatusCreated, request("10.0.0.2"))
}

func TestLimiterStore_EvictIdle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := newLimiterStore(ctx, 1, 1)
	store.get("a")
	store.get("b")
	assert.Equal(t, 2, store.len())

	store.evictIdle(time.Now().Add(time.Minute))
	assert.Equal(t, 0, store.len())
}
